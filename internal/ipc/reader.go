package ipc

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"

	"golang.org/x/sys/unix"

	"mpvremote/internal/logging"
	"mpvremote/internal/metrics"
)

// maxTransientReadErrors bounds back-to-back recoverable read failures so a
// stuck deadline cannot spin the reader forever.
const maxTransientReadErrors = 64

// readLoop owns the read half of the connection until it ends.
func (c *Client) readLoop(r io.Reader) {
	reader := bufio.NewReader(r)
	var (
		partial   []byte
		transient int
		cause     error
	)
	for {
		chunk, err := reader.ReadBytes('\n')
		if err == nil {
			transient = 0
			if len(partial) > 0 {
				chunk = append(partial, chunk...)
				partial = nil
			}
			c.handleFrame(chunk)
			continue
		}

		partial = append(partial, chunk...)
		if isTransientReadError(err) && transient < maxTransientReadErrors {
			transient++
			logging.WarnWithContext(c.logger, "mpv socket read failed", "ipc_read_failed",
				logging.Error(&ReadError{Err: err}),
				logging.String(logging.FieldImpact, "reading continues"),
				logging.String(logging.FieldErrorHint, "check the mpv process if this repeats"))
			continue
		}

		if len(bytes.TrimSpace(partial)) > 0 {
			c.handleFrame(partial)
		}
		cause = err
		break
	}
	c.terminate(cause)
}

func (c *Client) handleFrame(frame []byte) {
	frame = bytes.TrimSpace(frame)
	if len(frame) == 0 {
		return
	}
	c.logger.Debug("read frame from mpv", logging.String("frame", string(frame)))

	msg, err := DecodeMessage(frame)
	if err != nil {
		metrics.RecordFrame(metrics.FrameInvalid)
		logging.WarnWithContext(c.logger, "skipping undecodable frame", "ipc_decode_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "the frame is dropped; the connection stays up"),
			logging.String(logging.FieldErrorHint, "verify the socket belongs to mpv's JSON IPC server"))
		return
	}

	switch m := msg.(type) {
	case *Response:
		metrics.RecordFrame(metrics.FrameResponse)
	case *Event:
		metrics.RecordFrame(metrics.FrameEvent)
		metrics.RecordEvent(m.Event)
		if c.sink != nil {
			c.sink.Append(*m)
		}
	}
	c.messages.Push(msg)
}

func (c *Client) terminate(cause error) {
	c.messages.Close()
	if cause == nil || errors.Is(cause, io.EOF) || errors.Is(cause, net.ErrClosed) || errors.Is(cause, io.ErrClosedPipe) {
		c.logger.Warn("mpv socket closed, shutting down",
			logging.String(logging.FieldEventType, "ipc_stream_closed"))
	} else {
		logging.ErrorWithContext(c.logger, "mpv socket failed, shutting down", "ipc_stream_failed",
			logging.Error(&ReadError{Err: cause}),
			logging.String(logging.FieldErrorHint, "restart mpv with --input-ipc-server"))
	}
	close(c.done)
	c.shutdownOnce.Do(func() {
		if c.onShutdown != nil {
			c.onShutdown()
		}
	})
}

func isTransientReadError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN)
}
