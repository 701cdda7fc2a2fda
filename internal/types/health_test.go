package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthStatus_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		status  HealthStatus
		state   HealthState
		healthy bool
	}{
		{"healthy", Healthy("connected"), HealthStateHealthy, true},
		{"degraded", Degraded("projection missing"), HealthStateDegraded, false},
		{"unhealthy", Unhealthy("unreachable"), HealthStateUnhealthy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.state, tt.status.State)
			assert.Equal(t, tt.healthy, tt.status.IsHealthy())
			assert.False(t, tt.status.CheckedAt.IsZero())
		})
	}
}

func TestHealthStatus_JSONShape(t *testing.T) {
	data, err := json.Marshal(Degraded("projection missing"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "degraded", decoded["state"])
	assert.Equal(t, "projection missing", decoded["message"])
	assert.Contains(t, decoded, "checked_at")

	data, err = json.Marshal(Healthy(""))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "message")
}
