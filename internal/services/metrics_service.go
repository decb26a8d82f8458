package services

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/soundrift/soundrift-moderation/internal/dto"
	"github.com/soundrift/soundrift-moderation/internal/models"
	"github.com/soundrift/soundrift-moderation/internal/moderr"
	"github.com/soundrift/soundrift-moderation/internal/repository"
)

const metricsCacheKey = "moderation_metrics"

// MetricsService composes the moderation metrics snapshot. Results are
// cached so a metrics dashboard polling the endpoint does not hammer the
// database.
type MetricsService struct {
	actions repository.Actions
	reports repository.Reports
	cache   *gocache.Cache
	now     func() time.Time
}

func NewMetricsService(store *repository.Store, ttl time.Duration) *MetricsService {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &MetricsService{
		actions: store.Actions,
		reports: store.Reports,
		cache:   gocache.New(ttl, 2*ttl),
		now:     time.Now,
	}
}

// GetMetrics returns the cached snapshot when fresh, otherwise recomputes
// it from the full action history.
func (s *MetricsService) GetMetrics() (*dto.ModerationMetrics, error) {
	if cached, ok := s.cache.Get(metricsCacheKey); ok {
		return cached.(*dto.ModerationMetrics), nil
	}

	actions, err := s.actions.All()
	if err != nil {
		return nil, moderr.Database("Failed to load moderation actions", err)
	}
	albumReports, err := s.reports.CountByType(models.ReportTypeAlbum)
	if err != nil {
		return nil, moderr.Database("Failed to count album reports", err)
	}
	trackReports, err := s.reports.CountByType(models.ReportTypeTrack)
	if err != nil {
		return nil, moderr.Database("Failed to count track reports", err)
	}

	metrics := &dto.ModerationMetrics{
		Reversals:                 CalculateReversalStats(actions),
		TimeToReversal:            CalculateTimeToReversal(actions),
		AlbumVsTrackPercentage:    AlbumVsTrackPercentage(albumReports, trackReports),
		CascadingActionPercentage: CascadingActionPercentage(actions),
		GeneratedAt:               s.now().UTC(),
	}
	s.cache.SetDefault(metricsCacheKey, metrics)
	return metrics, nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (s *MetricsService) Invalidate() {
	s.cache.Delete(metricsCacheKey)
}

// AnalyticsService serves the public trending chart.
type AnalyticsService struct {
	tracks repository.Tracks
	cache  *gocache.Cache
	now    func() time.Time
}

func NewAnalyticsService(store *repository.Store, ttl time.Duration) *AnalyticsService {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &AnalyticsService{
		tracks: store.Tracks,
		cache:  gocache.New(ttl, 2*ttl),
		now:    time.Now,
	}
}

// Trending returns the top tracks by weighted engagement inside the
// window. A windowDays of zero or less means all time.
func (s *AnalyticsService) Trending(windowDays int) ([]dto.TrendingEntry, error) {
	key := fmt.Sprintf("trending:%d", windowDays)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]dto.TrendingEntry), nil
	}

	var since *time.Time
	if windowDays > 0 {
		cutoff := s.now().Add(-time.Duration(windowDays) * 24 * time.Hour)
		since = &cutoff
	}
	tracks, err := s.tracks.CreatedSince(since)
	if err != nil {
		return nil, moderr.Database("Failed to load tracks for trending", err)
	}

	entries := CalculateTrendingScores(tracks)
	s.cache.SetDefault(key, entries)
	return entries, nil
}
