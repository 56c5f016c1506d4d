package replay

import (
	"errors"
	"testing"

	"github.com/glimte/amqplog-go/contracts"
	"github.com/stretchr/testify/assert"
)

func env(key string) *contracts.Envelope {
	return &contracts.Envelope{RoutingKey: key}
}

func keys(b *Buffer) []string {
	var out []string
	for _, e := range b.entries {
		out = append(out, e.RoutingKey)
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("coerces capacity below one", func(t *testing.T) {
		assert.Equal(t, 1, New(0).Cap())
		assert.Equal(t, 1, New(-5).Cap())
		assert.Equal(t, 3, New(3).Cap())
	})
}

func TestEnqueue(t *testing.T) {
	t.Run("accepts in arrival order up to capacity", func(t *testing.T) {
		b := New(3)

		assert.False(t, b.Enqueue(env("a")))
		assert.False(t, b.Enqueue(env("b")))
		assert.False(t, b.Enqueue(env("c")))

		assert.Equal(t, 3, b.Len())
		assert.Equal(t, []string{"a", "b", "c"}, keys(b))
	})

	t.Run("rejects new entries at capacity and keeps old ones", func(t *testing.T) {
		b := New(2)
		b.Enqueue(env("a"))
		b.Enqueue(env("b"))

		assert.True(t, b.Enqueue(env("c")))
		assert.Equal(t, 2, b.Len())
		assert.Equal(t, []string{"a", "b"}, keys(b))
	})
}

func TestDrainInto(t *testing.T) {
	t.Run("replays oldest first and clears the buffer", func(t *testing.T) {
		b := New(10)
		b.Enqueue(env("a"))
		b.Enqueue(env("b"))
		b.Enqueue(env("c"))

		var seen []string
		err := b.DrainInto(func(e *contracts.Envelope) error {
			seen = append(seen, e.RoutingKey)
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, seen)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("first failure keeps the failed entry and the tail in order", func(t *testing.T) {
		b := New(10)
		b.Enqueue(env("a"))
		b.Enqueue(env("b"))
		b.Enqueue(env("c"))

		boom := errors.New("publish failed")
		err := b.DrainInto(func(e *contracts.Envelope) error {
			if e.RoutingKey == "b" {
				return boom
			}
			return nil
		})

		assert.Equal(t, boom, err)
		assert.Equal(t, []string{"b", "c"}, keys(b))
	})

	t.Run("buffer keeps working after a failed drain", func(t *testing.T) {
		b := New(2)
		b.Enqueue(env("a"))
		b.Enqueue(env("b"))

		_ = b.DrainInto(func(e *contracts.Envelope) error {
			if e.RoutingKey == "b" {
				return errors.New("publish failed")
			}
			return nil
		})

		// One slot freed by the successful replay of "a".
		assert.False(t, b.Enqueue(env("c")))
		assert.True(t, b.Enqueue(env("d")))

		var seen []string
		err := b.DrainInto(func(e *contracts.Envelope) error {
			seen = append(seen, e.RoutingKey)
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, seen)
	})

	t.Run("empty buffer drains without invoking the callback", func(t *testing.T) {
		b := New(1)
		err := b.DrainInto(func(e *contracts.Envelope) error {
			t.Fatal("callback should not run")
			return nil
		})
		assert.NoError(t, err)
	})
}
