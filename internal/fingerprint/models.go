package fingerprint

import "time"

// Fingerprint is the sole persisted entity: an opaque digest paired with the
// canonical payload string it was derived from.
type Fingerprint struct {
	ID        int64
	Hash      string
	Data      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DatabaseHealth reports diagnostics about the fingerprint database.
type DatabaseHealth struct {
	DBPath            string
	DatabaseExists    bool
	DatabaseReadable  bool
	SchemaVersion     string
	TableExists       bool
	IntegrityCheck    bool
	TotalFingerprints int
	Error             string
}
