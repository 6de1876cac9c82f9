// Package logging assembles the structured slog loggers used across
// mpvremote.
//
// It owns the console and JSON handlers, parses level and format settings,
// and fans output to stdout plus an optional log file. Context helpers carry
// the HTTP correlation id so handler logs can be tied back to one remote
// request. NewNop returns a logger that discards everything, for tests and
// wiring code that cannot fail.
//
// Warnings should name the cause, the impact and the next step; use
// WarnWithContext and ErrorWithContext so event_type, error_hint and impact
// are always present.
package logging
