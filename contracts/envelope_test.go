package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEnvelope(t *testing.T) {
	ts := time.Unix(1700000000, 0)

	t.Run("stamps a unique message id", func(t *testing.T) {
		a := NewEnvelope([]byte("x"), "Info", "text/plain", ts, "app", "")
		b := NewEnvelope([]byte("x"), "Info", "text/plain", ts, "app", "")

		assert.NotEmpty(t, a.MessageID)
		assert.NotEqual(t, a.MessageID, b.MessageID)
	})

	t.Run("carries the event time unchanged", func(t *testing.T) {
		env := NewEnvelope([]byte("x"), "Info", "text/plain", ts, "app", "")
		assert.Equal(t, ts, env.Timestamp)
	})
}

func TestBodyFormatContentType(t *testing.T) {
	assert.Equal(t, "text/plain", FormatText.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Equal(t, "text/plain", BodyFormat("").ContentType())
}
