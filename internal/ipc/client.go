package ipc

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"mpvremote/internal/broker"
	"mpvremote/internal/logging"
	"mpvremote/internal/metrics"
)

const dialTimeout = 2 * time.Second

// EventSink receives every decoded event before waiters can claim it. Append
// runs on the reader goroutine and should return quickly.
type EventSink interface {
	Append(Event)
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger; the default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEventSink feeds every decoded event to sink.
func WithEventSink(sink EventSink) Option {
	return func(c *Client) {
		c.sink = sink
	}
}

// Client talks to one mpv instance. Send and WaitEvent are safe for
// concurrent use.
type Client struct {
	conn     io.ReadWriteCloser
	messages *broker.Broker[Message]
	logger   *slog.Logger
	sink     EventSink

	writeMu sync.Mutex
	lastID  int64

	onShutdown   func()
	shutdownOnce sync.Once
	done         chan struct{}
}

// Dial connects to the mpv IPC socket at path and starts reading from it.
// onShutdown runs once when mpv closes the connection. A *ConnectionError is
// returned when the socket cannot be opened; check Refused to tell "mpv not
// listening yet" apart from fatal failures.
func Dial(path string, onShutdown func(), opts ...Option) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, &ConnectionError{Path: path, Err: err}
	}
	client := NewClient(conn, onShutdown, opts...)
	client.logger.Info("connected to mpv", logging.String(logging.FieldSocket, path))
	return client, nil
}

// NewClient wraps an already open stream. The client takes ownership of conn.
func NewClient(conn io.ReadWriteCloser, onShutdown func(), opts ...Option) *Client {
	c := &Client{
		conn:       conn,
		messages:   broker.New[Message](),
		logger:     logging.NewNop(),
		onShutdown: onShutdown,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.String(logging.FieldComponent, "mpv-ipc"))

	go c.readLoop(conn)
	return c
}

// Send assigns the next request id, writes req and blocks until mpv answers
// it. There is no timeout: if mpv never answers while the connection stays
// open, Send never returns. A non-success status is returned as *ServerError.
func (c *Client) Send(req Request) (*Response, error) {
	command := req.Name()
	start := time.Now()

	c.writeMu.Lock()
	c.lastID++
	req.RequestID = c.lastID
	frame, err := EncodeRequest(req)
	if err == nil {
		c.logger.Debug("sending request",
			logging.Int64(logging.FieldRequestID, req.RequestID),
			logging.String(logging.FieldCommand, command))
		_, err = c.conn.Write(frame)
		if err != nil {
			err = &WriteError{Err: err}
		}
	}
	c.writeMu.Unlock()
	if err != nil {
		metrics.RecordRequest(command, false, time.Since(start))
		return nil, err
	}

	id := req.RequestID
	msg, err := c.messages.Wait(func(m Message) bool {
		resp, ok := m.(*Response)
		return ok && resp.RequestID == id
	})
	if err != nil {
		metrics.RecordRequest(command, false, time.Since(start))
		return nil, ErrStreamClosed
	}

	resp := msg.(*Response)
	if err := resp.Err(); err != nil {
		metrics.RecordRequest(command, false, time.Since(start))
		return nil, err
	}
	metrics.RecordRequest(command, true, time.Since(start))
	return resp, nil
}

// WaitEvent blocks until an event satisfying match arrives and claims it.
// A nil match accepts any event. ErrStreamClosed is returned when the
// connection ends first.
func (c *Client) WaitEvent(match func(*Event) bool) (*Event, error) {
	msg, err := c.messages.Wait(func(m Message) bool {
		evt, ok := m.(*Event)
		return ok && (match == nil || match(evt))
	})
	if err != nil {
		return nil, ErrStreamClosed
	}
	return msg.(*Event), nil
}

// Pending reports how many decoded messages are still unclaimed.
func (c *Client) Pending() int {
	return c.messages.Len()
}

// Connected reports whether the reader is still running.
func (c *Client) Connected() bool {
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Done is closed once the reader has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the connection and waits for the reader to stop. The
// shutdown callback still fires, exactly once.
func (c *Client) Close() error {
	err := c.conn.Close()
	<-c.done
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
