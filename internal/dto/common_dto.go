package dto

import "github.com/soundrift/soundrift-moderation/internal/repository"

type ErrorResponse struct {
	Error   bool           `json:"error"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string                     `json:"status"`
	Timestamp string                     `json:"timestamp"`
	DB        string                     `json:"db"`
	Counts    repository.AggregateCounts `json:"counts"`
}
