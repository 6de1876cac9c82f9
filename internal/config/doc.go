// Package config loads, normalizes, and validates mpvremote configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MPVREMOTE_SOCKET environment
// fallback for the mpv IPC socket. The Config type centralizes every knob the
// web remote and CLI need so callers receive sanitized paths and clear
// validation errors in one pass.
package config
