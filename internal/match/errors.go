package match

import (
	"errors"
	"fmt"
)

// Sentinel markers for submission failures. Callers classify with errors.Is;
// all of them are connection-scoped and recoverable.
var (
	// ErrPayload marks submissions whose payload could not be canonicalized.
	ErrPayload = errors.New("payload error")
	// ErrDigest marks submissions the digest function rejected.
	ErrDigest = errors.New("digest computation error")
	// ErrStore marks read or write failures in the fingerprint store.
	ErrStore = errors.New("fingerprint store error")
)

func wrap(marker error, operation string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, operation, err)
	}
	return fmt.Errorf("%w: %s", marker, operation)
}
