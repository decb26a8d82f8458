package moderr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_CarriesDetails(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Database("Failed to load report", cause)

	require.NotNil(t, err.Details)
	assert.Equal(t, "Failed to load report", err.Details["operation"])
	assert.Equal(t, cause.Error(), err.Details["cause"])
	assert.ErrorIs(t, err, cause)
}

func TestDatabase_NilCause(t *testing.T) {
	err := Database("Failed to count reports", nil)

	require.NotNil(t, err.Details)
	assert.Equal(t, "Failed to count reports", err.Details["operation"])
	_, hasCause := err.Details["cause"]
	assert.False(t, hasCause)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(Validation("bad", nil)))
	assert.Equal(t, CodeRateLimit, CodeOf(RateLimit("slow down", nil)))
	assert.Equal(t, CodeDatabase, CodeOf(errors.New("anything else")))

	wrapped := fmt.Errorf("handler: %w", NotFound("missing", nil))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}
