// Package remote serves the browser remote control for a running mpv.
//
// The HTTP surface is a chi router over a Player, which *ipc.Client
// satisfies. Handlers serialize their access to the player so a multi-step
// action such as "seek, then wait for playback-restart, then show OSD text"
// is never interleaved with another request's commands.
//
// Routes:
//
//	GET /                 page (embedded, or server.template when configured)
//	GET /script.js        page script
//	GET /times            playback position as JSON
//	GET /screenshot       downscaled JPEG of the current frame
//	GET /action/{action}  play, pause, rewind, fullscreen, seek?position=P
//	GET /healthz          liveness plus unclaimed message count
//	GET /metrics          Prometheus exposition
//
// Every request gets a correlation id (X-Request-ID when the caller sends
// one, otherwise a fresh UUID) that is echoed in the response and attached
// to the request's log lines.
package remote
