package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)

	RecordRequest("get_property", true, 100*time.Millisecond)
	RecordRequest("get_property", false, 10*time.Millisecond)
	RecordFrame(FrameEvent)
	RecordEvent("playback-restart")
	conn := &fakeSource{pending: 3, up: true}
	untrack := Track(conn)
	defer untrack()

	if v := testutil.ToFloat64(requestsTotal.WithLabelValues("get_property", "success")); v != 1 {
		t.Fatalf("successful requests: %v", v)
	}
	if v := testutil.ToFloat64(requestsTotal.WithLabelValues("get_property", "error")); v != 1 {
		t.Fatalf("failed requests: %v", v)
	}
	if v := testutil.ToFloat64(framesTotal.WithLabelValues(FrameEvent)); v != 1 {
		t.Fatalf("event frames: %v", v)
	}
	if v := testutil.ToFloat64(eventsTotal.WithLabelValues("playback-restart")); v != 1 {
		t.Fatalf("events: %v", v)
	}
	if v := testutil.ToFloat64(pendingMessages); v != 3 {
		t.Fatalf("pending: %v", v)
	}
	if v := testutil.ToFloat64(connected); v != 1 {
		t.Fatalf("connected: %v", v)
	}
	conn.up = false
	if v := testutil.ToFloat64(connected); v != 0 {
		t.Fatalf("connected after close: %v", v)
	}
	if n := testutil.CollectAndCount(requestDuration); n != 1 {
		t.Fatalf("expected one duration series, got %d", n)
	}
}

type fakeSource struct {
	pending int
	up      bool
}

func (f *fakeSource) Pending() int    { return f.pending }
func (f *fakeSource) Connected() bool { return f.up }

func TestGaugesFollowTrackedSource(t *testing.T) {
	old := &fakeSource{pending: 5, up: true}
	untrackOld := Track(old)

	current := &fakeSource{pending: 1, up: true}
	untrackCurrent := Track(current)

	// A late untrack from the replaced connection must not clear the new one.
	old.up = false
	untrackOld()
	if v := testutil.ToFloat64(pendingMessages); v != 1 {
		t.Fatalf("pending: %v", v)
	}
	if v := testutil.ToFloat64(connected); v != 1 {
		t.Fatalf("connected: %v", v)
	}

	untrackCurrent()
	if v := testutil.ToFloat64(pendingMessages); v != 0 {
		t.Fatalf("pending after untrack: %v", v)
	}
	if v := testutil.ToFloat64(connected); v != 0 {
		t.Fatalf("connected after untrack: %v", v)
	}
}
