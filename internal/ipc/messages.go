package ipc

import (
	"bytes"
	"encoding/json"
	"errors"
)

// StatusSuccess is the error field value mpv uses for successful responses.
const StatusSuccess = "success"

// Request is a command sent to mpv. RequestID is assigned by Client.Send;
// zero means unassigned.
type Request struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// Name returns the command name, or an empty string for malformed requests.
func (r Request) Name() string {
	if len(r.Command) == 0 {
		return ""
	}
	name, _ := r.Command[0].(string)
	return name
}

// Response answers the request with the same RequestID. Data is kept as raw
// JSON until the caller converts it with Decode or Into.
type Response struct {
	RequestID int64           `json:"request_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error"`
}

// Event is an unsolicited notification. ID and Name are set for
// property-change events produced by observe_property.
type Event struct {
	Event string          `json:"event"`
	ID    *int64          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Message is a decoded inbound frame: either *Response or *Event.
type Message interface {
	isMessage()
}

func (*Response) isMessage() {}

func (*Event) isMessage() {}

// Err returns a *ServerError when mpv did not report success.
func (r *Response) Err() error {
	if r.Error != StatusSuccess {
		return &ServerError{Reason: r.Error}
	}
	return nil
}

// HasData reports whether the response carries a non-null data value.
func (r *Response) HasData() bool {
	return !isNull(r.Data)
}

// Decode checks the status and unmarshals Data into v.
func (r *Response) Decode(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if !r.HasData() {
		return ErrMissingData
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return &DowncastError{Err: err}
	}
	return nil
}

// Into converts the response data into T. It fails with *ServerError,
// ErrMissingData or *DowncastError, in that order of precedence.
func Into[T any](r *Response) (T, error) {
	var out T
	if r == nil {
		return out, ErrMissingData
	}
	if err := r.Decode(&out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// HasID reports whether the event carries the given observer id.
func (e *Event) HasID(id int64) bool {
	return e.ID != nil && *e.ID == id
}

// envelope holds only the keys used to tell responses from events.
type envelope struct {
	RequestID *int64  `json:"request_id"`
	Error     *string `json:"error"`
	Event     *string `json:"event"`
}

// DecodeMessage parses one frame. Frames carrying request_id and error are
// responses; otherwise frames carrying event are events; anything else is a
// *DecodeError.
func DecodeMessage(frame []byte) (Message, error) {
	frame = bytes.TrimSpace(frame)
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, &DecodeError{Frame: string(frame), Err: err}
	}

	switch {
	case env.RequestID != nil && env.Error != nil:
		var resp Response
		if err := json.Unmarshal(frame, &resp); err != nil {
			return nil, &DecodeError{Frame: string(frame), Err: err}
		}
		if isNull(resp.Data) {
			resp.Data = nil
		}
		return &resp, nil
	case env.Event != nil:
		var evt Event
		if err := json.Unmarshal(frame, &evt); err != nil {
			return nil, &DecodeError{Frame: string(frame), Err: err}
		}
		if isNull(evt.Data) {
			evt.Data = nil
		}
		return &evt, nil
	default:
		return nil, &DecodeError{Frame: string(frame)}
	}
}

// EncodeRequest renders req as a single newline-terminated frame.
func EncodeRequest(req Request) ([]byte, error) {
	if len(req.Command) == 0 {
		return nil, &EncodeError{Err: errors.New("empty command")}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return append(payload, '\n'), nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
