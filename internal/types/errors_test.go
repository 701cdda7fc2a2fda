package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatticeError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *LatticeError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewError(CONFIG_LOAD_FAILED, "failed to read config"),
			expected: "[CONFIG_LOAD_FAILED] failed to read config",
		},
		{
			name:     "with cause",
			err:      WrapError(SCHEMA_PARSE_FAILED, "bad catalog", errors.New("yaml: line 3")),
			expected: "[SCHEMA_PARSE_FAILED] bad catalog: yaml: line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestLatticeError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := WrapError(ANALYTICS_QUERY_FAILED, "query failed", cause)

	assert.Equal(t, cause, wrapped.Unwrap())
	assert.True(t, errors.Is(wrapped, cause))
}

func TestLatticeError_Is_MatchesByCode(t *testing.T) {
	err := NewError(ANALYTICS_SELECTOR_MISSING, "no selector")

	assert.True(t, errors.Is(err, NewError(ANALYTICS_SELECTOR_MISSING, "different message")))
	assert.False(t, errors.Is(err, NewError(ANALYTICS_UNKNOWN_KIND, "no selector")))
}

func TestLatticeError_Is_ThroughWrapping(t *testing.T) {
	inner := NewError(CONFIG_VALIDATION_FAILED, "bad port")
	outer := fmt.Errorf("loading: %w", inner)

	assert.True(t, errors.Is(outer, NewError(CONFIG_VALIDATION_FAILED, "")))

	var latticeErr *LatticeError
	require.True(t, errors.As(outer, &latticeErr))
	assert.Equal(t, CONFIG_VALIDATION_FAILED, latticeErr.Code)
}

func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(ANALYTICS_QUERY_FAILED, "transient")

	assert.True(t, err.Retryable)
	assert.False(t, NewError(ANALYTICS_QUERY_FAILED, "permanent").Retryable)
}
