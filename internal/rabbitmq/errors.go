package rabbitmq

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotConnected is returned by Publish while in the Disconnected state.
	ErrNotConnected = errors.New("rabbitmq: not connected")
)

// PublishError represents a publish operation error
type PublishError struct {
	Exchange   string    // Target exchange
	RoutingKey string    // Routing key used
	Err        error     // Underlying error
	Timestamp  time.Time // When the error occurred
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("rabbitmq publish error: failed to publish to %s/%s: %v",
		e.Exchange, e.RoutingKey, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// SanitizeURL removes credentials from connection URLs so they are safe to
// log.
func SanitizeURL(url string) string {
	at := strings.LastIndex(url, "@")
	if at == -1 {
		return url
	}
	scheme := ""
	if i := strings.Index(url, "://"); i != -1 && i < at {
		scheme = url[:i+3]
	}
	return scheme + "***" + url[at:]
}
