package amqplog

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimte/amqplog-go/contracts"
)

func TestHandlerEnabled(t *testing.T) {
	s := newTestSink(Config{}, &fakeConnector{})

	t.Run("defaults to info and above", func(t *testing.T) {
		h := NewHandler(s)

		assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
		assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	})

	t.Run("honors a configured level", func(t *testing.T) {
		h := NewHandler(s, WithLevel(slog.LevelWarn))

		assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	})
}

func TestHandlerHandle(t *testing.T) {
	t.Run("forwards records through the sink", func(t *testing.T) {
		conn := &fakeConnector{ready: true}
		s := newTestSink(Config{Format: contracts.FormatJSON}, conn)
		logger := slog.New(NewHandler(s, WithLoggerName("checkout")))

		logger.Info("order placed", "orderId", "o-42")

		require.Len(t, conn.published, 1)
		env := conn.published[0]
		assert.Equal(t, "INFO", env.RoutingKey)
		assert.Equal(t, "checkout", env.AppID)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(env.Body, &payload))
		assert.Equal(t, "order placed", payload["message"])
		assert.Equal(t, "INFO", payload["level"])
		assert.Equal(t, "checkout", payload["logger"])
		assert.Equal(t, "o-42", payload["orderId"])
	})

	t.Run("groups qualify attribute keys", func(t *testing.T) {
		conn := &fakeConnector{ready: true}
		s := newTestSink(Config{Format: contracts.FormatJSON}, conn)
		logger := slog.New(NewHandler(s)).
			With("service", "checkout").
			WithGroup("req").
			With("id", "r-7")

		logger.Info("handled", "status", 200)

		require.Len(t, conn.published, 1)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(conn.published[0].Body, &payload))

		assert.Equal(t, "checkout", payload["service"])
		assert.Equal(t, "r-7", payload["req.id"])
		assert.Equal(t, float64(200), payload["req.status"])
	})

	t.Run("zero record time gets a wall clock stamp", func(t *testing.T) {
		conn := &fakeConnector{ready: true}
		s := newTestSink(Config{}, conn)
		h := NewHandler(s)

		err := h.Handle(context.Background(), slog.Record{
			Level:   slog.LevelInfo,
			Message: "untimed",
		})
		require.NoError(t, err)

		require.Len(t, conn.published, 1)
		assert.WithinDuration(t, time.Now(), conn.published[0].Timestamp, time.Minute)
	})

	t.Run("never surfaces delivery problems", func(t *testing.T) {
		s := newTestSink(Config{MaxBuffer: 1}, &fakeConnector{})
		h := NewHandler(s)

		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "m", 0)
		assert.NoError(t, h.Handle(context.Background(), rec))
		assert.NoError(t, h.Handle(context.Background(), rec))
	})
}
