package api

// FingerprintView is the administrative listing representation of a stored
// fingerprint. Data is truncated to a preview so large payloads do not bloat
// IPC responses; DataSize carries the full stored length.
type FingerprintView struct {
	Hash      string `json:"hash"`
	DataSize  int    `json:"data_size"`
	Preview   string `json:"preview"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// DatabaseHealth reports fingerprint database diagnostics for CLI display.
type DatabaseHealth struct {
	DBPath            string `json:"db_path"`
	DatabaseExists    bool   `json:"database_exists"`
	DatabaseReadable  bool   `json:"database_readable"`
	SchemaVersion     string `json:"schema_version"`
	TableExists       bool   `json:"table_exists"`
	IntegrityCheck    bool   `json:"integrity_check"`
	TotalFingerprints int    `json:"total_fingerprints"`
	Error             string `json:"error"`
}
