// Package daemon coordinates the long-running imprint process.
//
// It wires configuration, the fingerprint store, and the matching engine into
// a single lifecycle with flock-based locking to prevent multiple instances,
// and owns the network surface: the websocket endpoint where duplex matching
// sessions live, and the static asset responder beside it. The daemon also
// exposes the administrative helpers the IPC layer calls.
//
// Keep orchestration logic here; matching semantics live in internal/match and
// persistence in internal/fingerprint.
package daemon
