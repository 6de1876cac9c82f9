package ipc_test

import (
	"errors"
	"strings"
	"testing"

	"mpvremote/internal/ipc"
)

func TestDecodeMessageResponse(t *testing.T) {
	msg, err := ipc.DecodeMessage([]byte(`{"request_id":3,"data":12.5,"error":"success"}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	resp, ok := msg.(*ipc.Response)
	if !ok {
		t.Fatalf("expected *Response, got %T", msg)
	}
	if resp.RequestID != 3 {
		t.Fatalf("request id = %d, want 3", resp.RequestID)
	}
	if err := resp.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	value, err := ipc.Into[float64](resp)
	if err != nil {
		t.Fatalf("Into: %v", err)
	}
	if value != 12.5 {
		t.Fatalf("value = %v, want 12.5", value)
	}
}

func TestDecodeMessageEvent(t *testing.T) {
	msg, err := ipc.DecodeMessage([]byte(`{"event":"property-change","id":7,"name":"pause","data":true}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	evt, ok := msg.(*ipc.Event)
	if !ok {
		t.Fatalf("expected *Event, got %T", msg)
	}
	if evt.Event != ipc.EventPropertyChange || evt.Name != "pause" {
		t.Fatalf("unexpected event %+v", evt)
	}
	if !evt.HasID(7) || evt.HasID(8) {
		t.Fatalf("HasID mismatch for %+v", evt)
	}
	if string(evt.Data) != "true" {
		t.Fatalf("data = %s, want true", evt.Data)
	}
}

func TestDecodeMessageEventWithoutPayload(t *testing.T) {
	msg, err := ipc.DecodeMessage([]byte(`{"event":"playback-restart"}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	evt := msg.(*ipc.Event)
	if evt.ID != nil || evt.Data != nil {
		t.Fatalf("expected empty id and data, got %+v", evt)
	}
}

func TestDecodeMessageNullDataIsAbsent(t *testing.T) {
	msg, err := ipc.DecodeMessage([]byte(`{"request_id":5,"data":null,"error":"success"}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	resp := msg.(*ipc.Response)
	if resp.HasData() {
		t.Fatalf("expected null data to be treated as absent")
	}
	if _, err := ipc.Into[float64](resp); !errors.Is(err, ipc.ErrMissingData) {
		t.Fatalf("Into err = %v, want ErrMissingData", err)
	}
}

func TestDecodeMessageRejectsUnknownFrames(t *testing.T) {
	cases := map[string]string{
		"garbage":           `not json`,
		"neither shape":     `{"foo":1}`,
		"id without status": `{"request_id":1}`,
		"array":             `[1,2,3]`,
	}
	for name, frame := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ipc.DecodeMessage([]byte(frame))
			var decodeErr *ipc.DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if decodeErr.Frame != frame {
				t.Fatalf("frame = %q, want %q", decodeErr.Frame, frame)
			}
		})
	}
}

func TestResponseServerError(t *testing.T) {
	msg, err := ipc.DecodeMessage([]byte(`{"request_id":2,"error":"property unavailable"}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	resp := msg.(*ipc.Response)
	var serverErr *ipc.ServerError
	if !errors.As(resp.Err(), &serverErr) {
		t.Fatalf("expected ServerError, got %v", resp.Err())
	}
	if serverErr.Reason != "property unavailable" {
		t.Fatalf("reason = %q", serverErr.Reason)
	}
	if _, err := ipc.Into[string](resp); !errors.As(err, &serverErr) {
		t.Fatalf("Into should surface the server error first, got %v", err)
	}
}

func TestIntoDowncastError(t *testing.T) {
	msg, err := ipc.DecodeMessage([]byte(`{"request_id":4,"data":"yes","error":"success"}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	var downcast *ipc.DowncastError
	if _, err := ipc.Into[bool](msg.(*ipc.Response)); !errors.As(err, &downcast) {
		t.Fatalf("expected DowncastError, got %v", err)
	}
}

func TestEncodeRequest(t *testing.T) {
	req := ipc.Seek(-10, ipc.SeekRelative)
	req.RequestID = 9
	frame, err := ipc.EncodeRequest(req)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	want := `{"command":["seek",-10,"relative"],"request_id":9}` + "\n"
	if string(frame) != want {
		t.Fatalf("frame = %q, want %q", frame, want)
	}

	var encodeErr *ipc.EncodeError
	if _, err := ipc.EncodeRequest(ipc.Request{}); !errors.As(err, &encodeErr) {
		t.Fatalf("expected EncodeError for empty command, got %v", err)
	}
}

func TestRequestBuilders(t *testing.T) {
	cases := []struct {
		req  ipc.Request
		want string
	}{
		{ipc.PlaybackTime(), `["get_property","playback-time"]`},
		{ipc.SetProperty("pause", true), `["set_property","pause",true]`},
		{ipc.ShowText("hi"), `["show-text","hi"]`},
		{ipc.ObserveProperty(1, "volume"), `["observe_property",1,"volume"]`},
		{ipc.Screenshot("/tmp/s.jpg"), `["screenshot-to-file","/tmp/s.jpg"]`},
		{ipc.Command("cycle", "fullscreen"), `["cycle","fullscreen"]`},
	}
	for _, tc := range cases {
		frame, err := ipc.EncodeRequest(tc.req)
		if err != nil {
			t.Fatalf("EncodeRequest(%v): %v", tc.req.Command, err)
		}
		if !strings.Contains(string(frame), `"command":`+tc.want) {
			t.Fatalf("frame %s does not contain %s", frame, tc.want)
		}
	}
}
