// Package broker provides the rendezvous buffer shared by the mpv stream
// reader and every goroutine waiting on it.
//
// A Broker holds decoded messages that nobody has claimed yet. The reader
// pushes each message as soon as it is decoded; waiters block until an
// element matching their own predicate is present and then remove exactly
// that element. Request/response correlation and event subscriptions share
// the same buffer and the same wake mechanism, so an arbitrary number of
// independent waiters can coexist without per-request channels.
//
// A Broker belongs to one connection. Create it with New and pass the handle
// explicitly; there is no package-level instance.
package broker
