// Package match implements the fingerprint matching engine.
//
// A submission is canonicalized, digested, and checked against the store: an
// exact digest hit reports full confidence without touching the row, otherwise
// every stored fingerprint is scored against the incoming payload and the new
// fingerprint is persisted. The whole lookup-scan-insert sequence runs under a
// single engine-owned critical section so concurrent submissions serialize and
// can never miss each other as candidate neighbors.
//
// The store is an injected interface so tests can substitute doubles and so
// locking stays explicit here rather than ambient in the storage layer.
package match
