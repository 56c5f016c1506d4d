package health

import (
	"context"
	"time"
)

// Sink is the surface the checker reads. Satisfied by *amqplog.Sink.
type Sink interface {
	Connected() bool
	Capacity() int
	Backlog() int
	Dropped() int64
}

// SinkChecker checks an amqplog sink: degraded while disconnected or when
// the replay backlog passes half the configured capacity, unhealthy when
// records are piling up with no broker connection to drain them.
type SinkChecker struct {
	name string
	sink Sink
}

// NewSinkChecker creates a new sink health checker.
func NewSinkChecker(name string, sink Sink) *SinkChecker {
	return &SinkChecker{
		name: name,
		sink: sink,
	}
}

func (c *SinkChecker) Name() string {
	return c.name
}

func (c *SinkChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      c.name,
		Timestamp: start,
		Details:   make(map[string]interface{}),
	}

	connected := c.sink.Connected()
	backlog := c.sink.Backlog()
	capacity := c.sink.Capacity()

	result.Details["connected"] = connected
	result.Details["backlog"] = backlog
	result.Details["capacity"] = capacity
	result.Details["dropped"] = c.sink.Dropped()

	switch {
	case !connected && backlog > 0:
		result.Status = StatusUnhealthy
		result.Message = "broker unreachable, records buffering"
	case !connected:
		result.Status = StatusDegraded
		result.Message = "no broker connection"
	case backlog > capacity/2:
		result.Status = StatusDegraded
		result.Message = "replay backlog is high"
	default:
		result.Status = StatusHealthy
		result.Message = "sink is delivering"
	}

	result.Duration = time.Since(start)
	return result
}
