package apiclient

import (
	"time"

	"github.com/rs/zerolog"
)

// CallEvent records metadata about a single API call.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	Latency   time.Duration
	RequestID string
	Kind      Kind // empty on success
	Err       error
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zerolog logger. Successful calls log
// at debug, failures at warn.
type LogObserver struct {
	log zerolog.Logger
}

// NewLogObserver creates an Observer that logs to l.
func NewLogObserver(l zerolog.Logger) *LogObserver {
	return &LogObserver{log: l}
}

func (o *LogObserver) OnCallComplete(ev CallEvent) {
	e := o.log.Debug()
	if ev.Kind != "" {
		e = o.log.Warn().Str("error_kind", string(ev.Kind)).Err(ev.Err)
	}
	e.Str("method", ev.Method).
		Str("path", ev.Path).
		Int("status", ev.Status).
		Int64("latency_ms", ev.Latency.Milliseconds()).
		Str("request_id", ev.RequestID).
		Msg("api_call")
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
