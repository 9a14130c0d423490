// Package fingerprint persists submitted fingerprints in SQLite.
//
// The Store owns database connections, schema initialization, and the keyed
// fingerprint table. Rows pair an opaque digest (unique) with the canonical
// payload string that produced it; the store never interprets the payload.
// Every operation is individually atomic; composing lookups with writes safely
// is the matching engine's responsibility.
//
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package fingerprint
