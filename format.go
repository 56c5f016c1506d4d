package amqplog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/glimte/amqplog-go/contracts"
)

// routingKey substitutes the record's level name into the configured topic
// template.
func routingKey(template, level string) string {
	return strings.ReplaceAll(template, "{0}", level)
}

// buildEnvelope renders rec into an immutable envelope per the configured
// body format. The envelope timestamp is the event time carried by the
// record, not the wall clock at send time.
func (s *Sink) buildEnvelope(rec contracts.Record) (*contracts.Envelope, error) {
	var body []byte
	var err error

	switch s.cfg.Format {
	case contracts.FormatJSON:
		body, err = jsonBody(rec, s.cfg.Fields)
	default:
		body = textBody(rec)
	}
	if err != nil {
		return nil, err
	}

	appID := s.cfg.AppID
	if appID == "" {
		appID = rec.Logger
	}

	return contracts.NewEnvelope(
		body,
		routingKey(s.cfg.RoutingKeyTemplate, rec.Level),
		s.cfg.Format.ContentType(),
		rec.Time,
		appID,
		s.cfg.UserID,
	), nil
}

// jsonBody lays the record out as a flat JSON object. The timestamp is the
// event time in epoch milliseconds. A non-empty fields list restricts which
// record fields are carried.
func jsonBody(rec contracts.Record, fields []string) ([]byte, error) {
	payload := map[string]any{
		"time":    rec.Time.UnixMilli(),
		"level":   rec.Level,
		"logger":  rec.Logger,
		"message": rec.Message,
	}

	if len(fields) == 0 {
		for k, v := range rec.Fields {
			payload[k] = v
		}
	} else {
		for _, name := range fields {
			if v, ok := rec.Fields[name]; ok {
				payload[name] = v
			}
		}
	}

	return json.Marshal(payload)
}

// textBody renders the message with appended key=value fields in stable
// key order.
func textBody(rec contracts.Record) []byte {
	if len(rec.Fields) == 0 {
		return []byte(rec.Message)
	}

	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(rec.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, rec.Fields[k])
	}
	return []byte(b.String())
}
