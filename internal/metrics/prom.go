package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Frame kinds recorded by RecordFrame.
const (
	FrameResponse = "response"
	FrameEvent    = "event"
	FrameInvalid  = "invalid"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpvremote_requests_total",
			Help: "Requests sent to mpv by command and result",
		},
		[]string{"command", "result"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mpvremote_request_duration_seconds",
			Help:    "Time from writing a request to claiming its response",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"command"},
	)

	framesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpvremote_frames_total",
			Help: "Frames read from the mpv socket by kind",
		},
		[]string{"kind"},
	)

	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpvremote_events_total",
			Help: "Events received from mpv by name",
		},
		[]string{"event"},
	)

	pendingMessages = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "mpvremote_pending_messages",
			Help: "Decoded messages nobody has claimed yet on the tracked connection",
		},
		func() float64 {
			if src := tracked.Load(); src != nil {
				return float64(src.Pending())
			}
			return 0
		},
	)

	connected = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "mpvremote_connected",
			Help: "1 while the tracked mpv connection is open",
		},
		func() float64 {
			if src := tracked.Load(); src != nil && src.Connected() {
				return 1
			}
			return 0
		},
	)
)

// Register registers every collector with r.
func Register(r prometheus.Registerer) {
	r.MustRegister(requestsTotal, requestDuration, framesTotal, eventsTotal, pendingMessages, connected)
}

// RecordRequest counts a finished request and observes its latency.
func RecordRequest(command string, success bool, elapsed time.Duration) {
	result := "success"
	if !success {
		result = "error"
	}
	requestsTotal.WithLabelValues(command, result).Inc()
	requestDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// RecordFrame counts an inbound frame of the given kind.
func RecordFrame(kind string) { framesTotal.WithLabelValues(kind).Inc() }

// RecordEvent counts an inbound event.
func RecordEvent(name string) { eventsTotal.WithLabelValues(name).Inc() }

// Source is a connection whose state backs the pending and connected
// gauges.
type Source interface {
	Pending() int
	Connected() bool
}

type source struct{ Source }

var tracked atomic.Pointer[source]

// Track makes src the connection reported by the gauges. Only one source is
// tracked per process; the returned func stops tracking src unless another
// source has replaced it since.
func Track(src Source) (untrack func()) {
	entry := &source{src}
	tracked.Store(entry)
	return func() { tracked.CompareAndSwap(entry, nil) }
}
