// Package api defines the wire-level DTOs shared by the websocket protocol,
// the IPC control plane, and the CLI.
//
// It owns the JSON envelope exchanged over duplex sessions, the match result
// payload returned for data submissions, and the lightweight fingerprint views
// used by administrative listings. Keep conversions between storage models and
// these types here so transport packages never grow dependencies on each other.
package api
