// Package contracts defines the shared types that cross the amqplog
// package boundaries: the log Record handed over by the logging framework,
// the immutable Envelope carried to the broker, and the body format
// selection.
package contracts
