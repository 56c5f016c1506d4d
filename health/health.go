// Package health reports sink liveness in a shape that embeds into an
// application's health endpoint.
package health

import (
	"context"
	"time"
)

// Status is the outcome of a health check.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult describes a single check run.
type CheckResult struct {
	Name      string
	Status    Status
	Message   string
	Error     string
	Timestamp time.Time
	Duration  time.Duration
	Details   map[string]interface{}
}

// Checker runs a named health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}
