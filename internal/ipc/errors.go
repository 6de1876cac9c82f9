package ipc

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrStreamClosed reports that mpv closed the connection.
	ErrStreamClosed = errors.New("connection closed")
	// ErrMissingData reports a successful response without the data field the
	// caller expected.
	ErrMissingData = errors.New("missing expected data field in response")
)

// ConnectionError reports a failure to open the IPC socket.
type ConnectionError struct {
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to mpv socket %s: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Refused reports whether the socket exists but nobody is listening on it,
// which usually means mpv has not started yet.
func (e *ConnectionError) Refused() bool {
	return errors.Is(e.Err, unix.ECONNREFUSED)
}

// IsConnectionRefused reports whether err is a ConnectionError caused by a
// refused connection.
func IsConnectionRefused(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr) && connErr.Refused()
}

// ReadError wraps an I/O failure while reading a frame.
type ReadError struct{ Err error }

func (e *ReadError) Error() string { return "read from mpv socket: " + e.Err.Error() }

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps an I/O failure while writing a request.
type WriteError struct{ Err error }

func (e *WriteError) Error() string { return "write to mpv socket: " + e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }

// EncodeError reports a request that could not be serialized.
type EncodeError struct{ Err error }

func (e *EncodeError) Error() string { return "serialize request: " + e.Err.Error() }

func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError reports a frame that is neither a response nor an event.
type DecodeError struct {
	Frame string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode server message %q: unrecognized frame", e.Frame)
	}
	return fmt.Sprintf("decode server message %q: %v", e.Frame, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ServerError carries the status string mpv returned instead of "success".
type ServerError struct{ Reason string }

func (e *ServerError) Error() string { return "mpv returned an error: " + e.Reason }

// DowncastError reports response data that does not fit the requested type.
type DowncastError struct{ Err error }

func (e *DowncastError) Error() string { return "convert response data: " + e.Err.Error() }

func (e *DowncastError) Unwrap() error { return e.Err }
