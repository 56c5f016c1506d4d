// Package replay implements the bounded FIFO buffer that holds envelopes
// while the broker is unreachable.
package replay

import (
	"github.com/glimte/amqplog-go/contracts"
)

// Buffer is a bounded FIFO queue of envelopes awaiting replay. When the
// buffer is full new envelopes are rejected; existing entries are never
// evicted to make room, so under a sustained outage the oldest records win.
//
// Buffer is not safe for concurrent use. The sink serializes access.
type Buffer struct {
	max     int
	entries []*contracts.Envelope
}

// New creates a buffer holding at most max envelopes. Capacities below one
// are coerced to one.
func New(max int) *Buffer {
	if max < 1 {
		max = 1
	}
	return &Buffer{max: max}
}

// Enqueue appends env in arrival order and reports whether it was dropped
// because the buffer is already at capacity.
func (b *Buffer) Enqueue(env *contracts.Envelope) (dropped bool) {
	if len(b.entries) >= b.max {
		return true
	}
	b.entries = append(b.entries, env)
	return false
}

// DrainInto replays buffered envelopes oldest-first through fn, removing
// each entry as fn succeeds. The first failure stops the drain and returns
// the error, leaving the failed envelope and everything after it in
// original order so a later drain resumes without reordering.
func (b *Buffer) DrainInto(fn func(*contracts.Envelope) error) error {
	for len(b.entries) > 0 {
		if err := fn(b.entries[0]); err != nil {
			return err
		}
		b.entries[0] = nil
		b.entries = b.entries[1:]
	}
	b.entries = nil
	return nil
}

// Len returns the number of buffered envelopes.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Cap returns the configured capacity.
func (b *Buffer) Cap() int {
	return b.max
}
