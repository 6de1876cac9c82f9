// Package ipc is the client side of mpv's JSON IPC protocol over a Unix
// domain socket.
//
// Each frame on the wire is one JSON object terminated by a newline. The
// client writes requests tagged with a request id; mpv answers with a
// response carrying the same id and, at any moment, also pushes events such
// as "playback-restart" or "property-change" over the same stream.
//
// A dedicated reader goroutine owns the read half of the connection. It
// decodes every frame into a Message (either *Response or *Event) and pushes
// it into a broker.Broker. Send writes a request and blocks until the
// response with its id is claimed from the broker; WaitEvent blocks until an
// event matching the caller's predicate is claimed. Any number of goroutines
// may do either concurrently.
//
// Decode failures on single frames are logged and skipped. When the stream
// ends the reader closes the broker, which releases every blocked Send and
// WaitEvent with ErrStreamClosed, then invokes the shutdown callback once.
// Nothing in this package retries or imposes timeouts; that is left to the
// caller.
package ipc
