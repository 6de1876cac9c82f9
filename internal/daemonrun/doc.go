// Package daemonrun hosts the long-running `mpvremote serve` process.
//
// Run takes the single-instance lock, opens the event journal, and then
// supervises one mpv connection at a time: it dials the IPC socket (retrying
// while mpv refuses connections), serves the web remote for as long as that
// connection lives, and starts over after a short delay when mpv goes away.
// It returns when the context is cancelled or SIGINT/SIGTERM arrives.
package daemonrun
