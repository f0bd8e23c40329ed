package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUploadNotFound is returned when an upload id has no log entry.
	ErrUploadNotFound = errors.New("upload not found")

	// ErrTableExists is returned when provisioning targets a name that is
	// already taken. Provisioning never writes into a pre-existing table.
	ErrTableExists = errors.New("table already exists")
)

// LoadError reports a bulk load that stopped partway through. Rows inserted
// before the failure remain in the table; the upload is not logged, so the
// partial table is never advertised by the read API.
type LoadError struct {
	Inserted int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load aborted after %d rows: %v", e.Inserted, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
