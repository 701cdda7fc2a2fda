package types

import "time"

// HealthState classifies the outcome of a component health check.
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)

func (s HealthState) String() string {
	return string(s)
}

// HealthStatus is one health check result: the graded state, an operator
// message, and when the check ran.
type HealthStatus struct {
	State     HealthState `json:"state"`
	Message   string      `json:"message,omitempty"`
	CheckedAt time.Time   `json:"checked_at"`
}

// Healthy reports a fully operational component.
func Healthy(message string) HealthStatus {
	return newHealthStatus(HealthStateHealthy, message)
}

// Degraded reports a reachable component with reduced capability.
func Degraded(message string) HealthStatus {
	return newHealthStatus(HealthStateDegraded, message)
}

// Unhealthy reports an unusable component.
func Unhealthy(message string) HealthStatus {
	return newHealthStatus(HealthStateUnhealthy, message)
}

func newHealthStatus(state HealthState, message string) HealthStatus {
	return HealthStatus{
		State:     state,
		Message:   message,
		CheckedAt: time.Now(),
	}
}

// IsHealthy returns true only for the healthy state; degraded components
// are reachable but not healthy.
func (h HealthStatus) IsHealthy() bool {
	return h.State == HealthStateHealthy
}
