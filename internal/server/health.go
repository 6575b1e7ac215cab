package server

import (
	"context"
	"runtime"
	"slices"
	"sync"
	"time"
)

// Health states.
const (
	StatusHealthy   = "ok"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status        string        `json:"status"`
	Backend       string        `json:"backend"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	MemoryMB      float64       `json:"memory_mb"`
	Goroutines    int           `json:"goroutines"`
	Checks        []CheckResult `json:"checks"`
}

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthChecker runs named checks and reports process health.
type HealthChecker struct {
	mu        sync.RWMutex
	startTime time.Time
	backend   string
	checks    map[string]func(context.Context) error
}

// NewHealthChecker creates a health checker for the named backend.
func NewHealthChecker(backend string) *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		backend:   backend,
		checks:    make(map[string]func(context.Context) error),
	}
}

// AddCheck adds a named health check.
func (h *HealthChecker) AddCheck(name string, check func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Check runs every check and returns the status. Checks run in name order.
func (h *HealthChecker) Check(ctx context.Context) *HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := &HealthStatus{
		Status:        StatusHealthy,
		Backend:       h.backend,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(memStats.Alloc) / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
		Checks:        []CheckResult{},
	}

	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		result := CheckResult{Name: name, Healthy: true}
		if err := h.checks[name](ctx); err != nil {
			result.Healthy = false
			result.Error = err.Error()
			status.Status = StatusUnhealthy
		}
		status.Checks = append(status.Checks, result)
	}
	h.mu.RUnlock()

	return status
}

// Uptime returns how long the server has been running.
func (h *HealthChecker) Uptime() time.Duration {
	return time.Since(h.startTime)
}
