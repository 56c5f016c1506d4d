package contracts

import (
	"time"

	"github.com/google/uuid"
)

// BodyFormat selects the wire representation of a record body.
type BodyFormat string

const (
	// FormatText renders the record message with appended key=value fields.
	FormatText BodyFormat = "text"
	// FormatJSON renders the record as a flat JSON object.
	FormatJSON BodyFormat = "json"
)

// ContentType returns the MIME type published alongside the body.
func (f BodyFormat) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/plain"
}

// Record is a single log event as handed over by the logging framework:
// the event time (not the send time), the level name, the originating
// logger, the rendered message, and any structured fields.
type Record struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Fields  map[string]any
}

// Envelope is the immutable unit of outbound data: a serialized body plus
// the broker metadata needed to publish it. An envelope is created once per
// record and never mutated afterwards; ownership moves between the replay
// buffer and the in-flight publish call until the envelope is delivered or
// permanently dropped.
type Envelope struct {
	MessageID   string
	Body        []byte
	RoutingKey  string
	ContentType string
	Timestamp   time.Time
	AppID       string
	UserID      string
}

// NewEnvelope builds an envelope with a fresh message ID.
func NewEnvelope(body []byte, routingKey, contentType string, timestamp time.Time, appID, userID string) *Envelope {
	return &Envelope{
		MessageID:   uuid.New().String(),
		Body:        body,
		RoutingKey:  routingKey,
		ContentType: contentType,
		Timestamp:   timestamp,
		AppID:       appID,
		UserID:      userID,
	}
}
