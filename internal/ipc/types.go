package ipc

import "imprint/internal/api"

// FingerprintView mirrors the shared DTO for IPC callers.
type FingerprintView = api.FingerprintView

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool   `json:"running"`
	ListenAddr   string `json:"listen_addr"`
	DBPath       string `json:"db_path"`
	LockPath     string `json:"lock_path"`
	Fingerprints int    `json:"fingerprints"`
	PID          int    `json:"pid"`
}

// FingerprintListRequest fetches all stored fingerprints.
type FingerprintListRequest struct{}

// FingerprintListResponse contains fingerprint summaries.
type FingerprintListResponse struct {
	Items []FingerprintView `json:"items"`
}

// FingerprintDescribeRequest fetches a single fingerprint by hash.
type FingerprintDescribeRequest struct {
	Hash string `json:"hash"`
}

// FingerprintDescribeResponse contains one fingerprint with its full payload.
type FingerprintDescribeResponse struct {
	Found bool            `json:"found"`
	Item  FingerprintView `json:"item"`
	Data  string          `json:"data"`
}

// FingerprintDeleteRequest removes a fingerprint by hash.
type FingerprintDeleteRequest struct {
	Hash string `json:"hash"`
}

// FingerprintDeleteResponse reports whether a row was removed.
type FingerprintDeleteResponse struct {
	Removed bool `json:"removed"`
}

// FingerprintClearRequest removes all stored fingerprints.
type FingerprintClearRequest struct{}

// FingerprintClearResponse reports number of removed rows.
type FingerprintClearResponse struct {
	Removed int64 `json:"removed"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath            string `json:"db_path"`
	DatabaseExists    bool   `json:"database_exists"`
	DatabaseReadable  bool   `json:"database_readable"`
	SchemaVersion     string `json:"schema_version"`
	TableExists       bool   `json:"table_exists"`
	IntegrityCheck    bool   `json:"integrity_check"`
	TotalFingerprints int    `json:"total_fingerprints"`
	Error             string `json:"error"`
}
