// Package amqplog delivers structured log records to an AMQP topic
// exchange over a persistent connection, without ever letting broker
// trouble surface on the logging call path.
//
// The sink handles an unreliable broker by:
//   - Buffering records in a bounded in-memory queue during outages
//   - Reconnecting lazily on the next publish call after a failure
//   - Replaying buffered records in original order before new traffic
//   - Dropping new records, with a warning, once the buffer is full
//
// Publish never returns an error and never blocks beyond the configured
// deadlines. The Handler type plugs a Sink into log/slog.
package amqplog
