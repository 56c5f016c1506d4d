// Copyright 2025 Amqplog Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package amqplog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/glimte/amqplog-go/contracts"
	"github.com/glimte/amqplog-go/internal/rabbitmq"
	"github.com/glimte/amqplog-go/internal/replay"
)

// Sink delivers log records to an AMQP topic exchange and keeps delivering
// across broker outages: records that arrive while the connection is down
// are buffered up to Config.MaxBuffer and replayed in original order once
// the broker is back, before new traffic resumes.
//
// Publish never returns an error, never panics, and never blocks beyond
// the configured deadlines; a logging statement must not fail because its
// sink did. Failures go to the sink's own diagnostic logger and become
// buffer-and-retry state.
//
// A Sink owns its connection and buffer, so multiple sinks targeting
// different exchanges coexist in one process.
type Sink struct {
	cfg    Config
	conn   connector
	logger *slog.Logger

	mu  sync.Mutex // serializes the ensure -> drain -> publish sequence
	buf *replay.Buffer

	published int64
	replayed  int64
	buffered  int64
	dropped   int64
}

// connector is what the sink needs from the connection manager. Satisfied
// by *rabbitmq.ConnectionManager; tests substitute scripted fakes.
type connector interface {
	Ready() bool
	EnsureReady() bool
	Publish(ctx context.Context, env *contracts.Envelope) error
	Teardown(reason string)
}

// Option configures the Sink.
type Option func(*Sink)

// WithLogger sets the sink's diagnostic logger. Diagnostics never travel
// through the sink itself.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		s.logger = logger
	}
}

// withConnector replaces the connection manager, used by tests.
func withConnector(c connector) Option {
	return func(s *Sink) {
		s.conn = c
	}
}

// NewSink creates a sink for cfg. The broker is not dialed here; the first
// Publish call establishes the connection.
func NewSink(cfg Config, options ...Option) *Sink {
	cfg.normalize()

	s := &Sink{
		cfg:    cfg,
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(s)
	}

	s.buf = replay.New(cfg.MaxBuffer)

	if s.conn == nil {
		s.conn = rabbitmq.NewConnectionManager(rabbitmq.Settings{
			URI:             cfg.uri(),
			Exchange:        cfg.Exchange,
			ExchangeDurable: cfg.ExchangeDurable,
			Heartbeat:       cfg.Heartbeat,
			DialTimeout:     cfg.DialTimeout,
			CloseTimeout:    cfg.CloseTimeout,
			PublishTimeout:  cfg.PublishTimeout,
		}, rabbitmq.WithLogger(s.logger))
	}

	return s
}

// Publish delivers one record. It is safe for concurrent use and never
// fails from the caller's point of view: connectivity problems buffer the
// record for replay, buffer exhaustion drops it with a warning, and
// anything unexpected is logged and absorbed.
func (s *Sink) Publish(rec contracts.Record) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("sink publish panicked", "panic", r)
		}
	}()

	env, err := s.buildEnvelope(rec)
	if err != nil {
		s.logger.Error("record serialization failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(env)
}

// dispatch runs the ensure -> drain -> publish sequence for one envelope.
// Callers hold s.mu.
func (s *Sink) dispatch(env *contracts.Envelope) {
	if !s.conn.Ready() && !s.conn.EnsureReady() {
		// Normal outcome during an outage: park the record for replay.
		s.enqueue(env)
		return
	}

	ctx := context.Background()

	if err := s.drainLocked(ctx); err != nil {
		s.fail(env, err)
		return
	}

	if err := s.conn.Publish(ctx, env); err != nil {
		s.fail(env, err)
		return
	}
	atomic.AddInt64(&s.published, 1)
}

// drainLocked replays buffered envelopes oldest-first so a reconnect never
// reorders log traffic. A partial drain leaves the unreplayed tail in
// place for the next attempt.
func (s *Sink) drainLocked(ctx context.Context) error {
	if s.buf.Len() == 0 {
		return nil
	}

	n := 0
	err := s.buf.DrainInto(func(e *contracts.Envelope) error {
		if perr := s.conn.Publish(ctx, e); perr != nil {
			return perr
		}
		n++
		return nil
	})

	if n > 0 {
		atomic.AddInt64(&s.published, int64(n))
		atomic.AddInt64(&s.replayed, int64(n))
		s.logger.Debug("replayed buffered records",
			"count", n,
			"remaining", s.buf.Len())
	}
	return err
}

// fail handles a transport failure on the publish path: the current
// envelope is buffered and the connection is torn down, so the next call
// dials fresh instead of retrying a known-broken channel.
func (s *Sink) fail(env *contracts.Envelope, err error) {
	s.logger.Error("publish failed",
		"routingKey", env.RoutingKey,
		"error", err)
	s.enqueue(env)
	s.conn.Teardown("publish failure")
}

func (s *Sink) enqueue(env *contracts.Envelope) {
	if s.buf.Enqueue(env) {
		atomic.AddInt64(&s.dropped, 1)
		s.logger.Warn("replay buffer full, dropping record",
			"limit", s.cfg.MaxBuffer,
			"routingKey", env.RoutingKey)
		return
	}
	atomic.AddInt64(&s.buffered, 1)
}

// Connected reports whether the sink currently holds a usable broker
// connection.
func (s *Sink) Connected() bool {
	return s.conn.Ready()
}

// Capacity returns the configured replay buffer capacity.
func (s *Sink) Capacity() int {
	return s.cfg.MaxBuffer
}

// Backlog returns the number of records currently awaiting replay.
func (s *Sink) Backlog() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Len()
}

// Dropped returns the number of records lost to buffer exhaustion.
func (s *Sink) Dropped() int64 {
	return atomic.LoadInt64(&s.dropped)
}

// Stats is a point-in-time snapshot of sink counters.
type Stats struct {
	Published int64 // records delivered to the broker, replays included
	Replayed  int64 // records delivered from the replay buffer
	Buffered  int64 // records parked in the buffer over the sink lifetime
	Dropped   int64 // records lost to buffer exhaustion
	Backlog   int   // records currently awaiting replay
}

// Stats returns current counters.
func (s *Sink) Stats() Stats {
	s.mu.Lock()
	backlog := s.buf.Len()
	s.mu.Unlock()

	return Stats{
		Published: atomic.LoadInt64(&s.published),
		Replayed:  atomic.LoadInt64(&s.replayed),
		Buffered:  atomic.LoadInt64(&s.buffered),
		Dropped:   atomic.LoadInt64(&s.dropped),
		Backlog:   backlog,
	}
}

// Close attempts one final drain when the broker is reachable, then tears
// the connection down. The buffer is memory-only, so anything still
// undelivered after the drain is lost.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf.Len() > 0 && (s.conn.Ready() || s.conn.EnsureReady()) {
		if err := s.drainLocked(context.Background()); err != nil {
			s.logger.Warn("final drain incomplete",
				"remaining", s.buf.Len(),
				"error", err)
		}
	}

	s.conn.Teardown("sink closed")
	return nil
}
