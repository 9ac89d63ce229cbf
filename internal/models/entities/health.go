package entities

import "time"

// DependencyStatus is the result of pinging one backing store.
type DependencyStatus struct {
	Status    string `json:"status"`
	Details   string `json:"details,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

type HealthCheckResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
	UpSince      time.Time                   `json:"up_since"`
	Uptime       string                      `json:"uptime"`
}
