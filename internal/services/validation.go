package services

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/soundrift/soundrift-moderation/internal/moderr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// uuidPattern enforces the strict canonical UUID shape. uuid.Parse is more
// permissive (urn: prefixes, braces) than the API contract allows.
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// validateStruct runs the validator tags on a request struct and converts
// the first failure into a taxonomy error.
func validateStruct(req any) *moderr.Error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return moderr.Validation("Invalid value for field '"+fe.Field()+"'", map[string]any{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return moderr.Validation("Invalid request", nil)
}

// parseUUIDField parses an id parameter, rejecting anything that is not in
// strict canonical form.
func parseUUIDField(field, value string) (uuid.UUID, *moderr.Error) {
	if !uuidPattern.MatchString(value) {
		return uuid.Nil, moderr.Validation("Invalid "+field+" format", map[string]any{
			field: value,
		})
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, moderr.Validation("Invalid "+field+" format", map[string]any{
			field: value,
		})
	}
	return id, nil
}
