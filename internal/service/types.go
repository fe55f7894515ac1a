package service

// Health status values reported by the health endpoint.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"

	ComponentConnected    = "connected"
	ComponentDisconnected = "disconnected"

	DispatcherRunning = "running"
	DispatcherStopped = "stopped"
)

type HealthStatus struct {
	Status               string       `json:"status"`
	DispatcherStatus     string       `json:"dispatcher_status"`
	DatabaseStatus       string       `json:"database_status"`
	RedisStatus          string       `json:"redis_status"`
	CircuitBreakerStatus string       `json:"circuit_breaker_status,omitempty"`
	CircuitBreakerState  BreakerState `json:"circuit_breaker_state,omitempty"`
}
