// Package rabbitmq owns the AMQP connection for the amqplog sink.
//
// This package includes:
//   - ConnectionManager: the two-state connection lifecycle (Disconnected
//     and Connected), dialing, exchange declaration, and teardown
//   - Dialer, Connection, Channel: interfaces over the subset of the
//     amqp091 client the manager touches, so tests can simulate broker
//     failure modes without a broker
//
// The manager never propagates connectivity errors as anything other than
// a false readiness report or a returned publish error; the sink above it
// decides what to buffer and when to dial again.
package rabbitmq
