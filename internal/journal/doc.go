// Package journal persists every mpv event the IPC reader decodes into a
// small SQLite database so operators can review what the player did.
//
// Store implements ipc.EventSink: Append runs on the reader goroutine, so it
// keeps writes short, retries on SQLITE_BUSY, and logs failures instead of
// returning them. Recent serves the CLI `events` command and Prune enforces
// the configured retention window at daemon start.
//
// The schema is versioned; a database created by an incompatible release is
// rejected with ErrSchemaMismatch instead of being migrated in place.
package journal
