// Package main hosts the mpvremote CLI entrypoint and command graph.
//
// The Cobra command tree covers two audiences. `serve` runs the web remote
// against a local mpv started with --input-ipc-server. The remaining
// commands (get, set, command, wait, watch) talk to that same socket
// directly for scripting and debugging, and `events` reads the journal the
// server keeps.
//
// Configuration is resolved once per invocation through commandContext; the
// --socket flag overrides mpv.socket for every command.
package main
