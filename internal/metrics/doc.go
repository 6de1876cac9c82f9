// Package metrics holds the prometheus collectors describing the mpv
// connection: requests and their latency, inbound frames by kind, events by
// name, unclaimed messages waiting in the broker, and whether mpv is
// currently connected. Collectors are package level; call Register once per
// registry.
package metrics
