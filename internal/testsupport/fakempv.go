package testsupport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mpvremote/internal/ipc"
)

// FakeMPV is a scripted mpv peer listening on a Unix socket. It answers
// property reads and writes from an in-memory map and emits the events a
// real player would for seek and observe_property.
type FakeMPV struct {
	t        testing.TB
	path     string
	listener *net.UnixListener

	mu       sync.Mutex
	props    map[string]any
	ignore   map[string]bool
	requests []ipc.Request
	shown    []string
	conns    map[*fakeConn]struct{}
	accepted chan struct{}

	wg sync.WaitGroup
}

type fakeConn struct {
	conn    net.Conn
	writeMu sync.Mutex
}

// NewFakeMPV starts a fake player on a fresh socket and registers cleanup.
// The socket lives under a short temp dir so it fits sun_path limits.
func NewFakeMPV(t testing.TB) *FakeMPV {
	t.Helper()

	dir, err := os.MkdirTemp("", "mpvfake")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		t.Fatalf("listen %s: %v", path, err)
	}

	f := &FakeMPV{
		t:        t,
		path:     path,
		listener: listener,
		props: map[string]any{
			"pause":         false,
			"fullscreen":    false,
			"playback-time": 30.0,
			"duration":      120.0,
		},
		ignore:   make(map[string]bool),
		conns:    make(map[*fakeConn]struct{}),
		accepted: make(chan struct{}, 16),
	}
	f.wg.Add(1)
	go f.acceptLoop()
	t.Cleanup(f.Close)
	return f
}

// Path returns the socket path clients should dial.
func (f *FakeMPV) Path() string {
	return f.path
}

// SetProperty seeds a property value.
func (f *FakeMPV) SetProperty(name string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.props[name] = value
}

// DeleteProperty makes reads of name fail with "property unavailable".
func (f *FakeMPV) DeleteProperty(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.props, name)
}

// Property returns the current value of name.
func (f *FakeMPV) Property(name string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.props[name]
	return v, ok
}

// Ignore makes the fake record but never answer the named command.
func (f *FakeMPV) Ignore(command string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ignore[command] = true
}

// Requests returns a copy of every request received so far.
func (f *FakeMPV) Requests() []ipc.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ipc.Request(nil), f.requests...)
}

// Shown returns the OSD texts passed to show-text.
func (f *FakeMPV) Shown() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.shown...)
}

// WaitConnected blocks until a client has connected.
func (f *FakeMPV) WaitConnected(timeout time.Duration) {
	f.t.Helper()
	select {
	case <-f.accepted:
	case <-time.After(timeout):
		f.t.Fatalf("no client connected to %s within %s", f.path, timeout)
	}
}

// Emit sends an event to every connected client.
func (f *FakeMPV) Emit(event ipc.Event) {
	f.t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		f.t.Fatalf("marshal event: %v", err)
	}
	f.broadcast(append(data, '\n'))
}

// SendRaw writes line verbatim, followed by a newline, to every client.
func (f *FakeMPV) SendRaw(line string) {
	f.broadcast([]byte(line + "\n"))
}

// Disconnect drops every client connection, as mpv does when it quits.
func (f *FakeMPV) Disconnect() {
	f.mu.Lock()
	conns := make([]*fakeConn, 0, len(f.conns))
	for c := range f.conns {
		conns = append(conns, c)
	}
	f.mu.Unlock()
	for _, c := range conns {
		c.conn.Close()
	}
}

// Close stops the listener and drops all clients.
func (f *FakeMPV) Close() {
	f.listener.Close()
	f.Disconnect()
	f.wg.Wait()
}

func (f *FakeMPV) broadcast(frame []byte) {
	f.mu.Lock()
	conns := make([]*fakeConn, 0, len(f.conns))
	for c := range f.conns {
		conns = append(conns, c)
	}
	f.mu.Unlock()
	for _, c := range conns {
		c.write(frame)
	}
}

func (f *FakeMPV) acceptLoop() {
	defer f.wg.Done()
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		c := &fakeConn{conn: conn}
		f.mu.Lock()
		f.conns[c] = struct{}{}
		f.mu.Unlock()
		select {
		case f.accepted <- struct{}{}:
		default:
		}
		f.wg.Add(1)
		go f.serve(c)
	}
}

func (f *FakeMPV) serve(c *fakeConn) {
	defer f.wg.Done()
	defer func() {
		c.conn.Close()
		f.mu.Lock()
		delete(f.conns, c)
		f.mu.Unlock()
	}()

	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		var req ipc.Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil || len(req.Command) == 0 {
			continue
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		ignored := f.ignore[req.Name()]
		f.mu.Unlock()
		if ignored {
			continue
		}
		f.handle(c, req)
	}
}

func (f *FakeMPV) handle(c *fakeConn, req ipc.Request) {
	args := req.Command[1:]
	switch req.Name() {
	case "get_property":
		name, _ := argString(args, 0)
		value, ok := f.Property(name)
		if !ok {
			c.reply(req.RequestID, nil, "property unavailable")
			return
		}
		c.reply(req.RequestID, value, ipc.StatusSuccess)
	case "set_property":
		name, _ := argString(args, 0)
		if len(args) < 2 {
			c.reply(req.RequestID, nil, "invalid parameter")
			return
		}
		f.SetProperty(name, args[1])
		c.reply(req.RequestID, nil, ipc.StatusSuccess)
	case "seek":
		target, ok := argFloat(args, 0)
		if !ok {
			c.reply(req.RequestID, nil, "invalid parameter")
			return
		}
		flags, _ := argString(args, 1)
		f.seek(target, flags)
		c.reply(req.RequestID, nil, ipc.StatusSuccess)
		c.event(ipc.Event{Event: ipc.EventPlaybackRestart})
	case "show-text":
		text, _ := argString(args, 0)
		f.mu.Lock()
		f.shown = append(f.shown, text)
		f.mu.Unlock()
		c.reply(req.RequestID, nil, ipc.StatusSuccess)
	case "observe_property":
		id, _ := argFloat(args, 0)
		name, _ := argString(args, 1)
		c.reply(req.RequestID, nil, ipc.StatusSuccess)
		value, _ := f.Property(name)
		data, _ := json.Marshal(value)
		obsID := int64(id)
		c.event(ipc.Event{Event: ipc.EventPropertyChange, ID: &obsID, Name: name, Data: data})
	case "screenshot-to-file":
		path, _ := argString(args, 0)
		if err := writeJPEG(path, 640, 360); err != nil {
			c.reply(req.RequestID, nil, "error running command")
			return
		}
		c.reply(req.RequestID, nil, ipc.StatusSuccess)
	default:
		c.reply(req.RequestID, nil, "invalid parameter")
	}
}

func (f *FakeMPV) seek(target float64, flags string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, _ := f.props["playback-time"].(float64)
	duration, _ := f.props["duration"].(float64)
	switch flags {
	case ipc.SeekAbsolute:
		current = target
	case ipc.SeekAbsolutePercent:
		current = duration * target / 100
	default:
		current += target
	}
	if current < 0 {
		current = 0
	}
	f.props["playback-time"] = current
}

func (c *fakeConn) reply(id int64, data any, status string) {
	payload := map[string]any{"request_id": id, "error": status, "data": data}
	frame, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("marshal reply: %v", err))
	}
	c.write(append(frame, '\n'))
}

func (c *fakeConn) event(evt ipc.Event) {
	frame, err := json.Marshal(evt)
	if err != nil {
		panic(fmt.Sprintf("marshal event: %v", err))
	}
	c.write(append(frame, '\n'))
}

func (c *fakeConn) write(frame []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, _ = c.conn.Write(frame)
}

func argString(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

func argFloat(args []any, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	v, ok := args[i].(float64)
	return v, ok
}
