package service

import "fmt"

// StorageError wraps an unexpected store failure so transports can report
// "storage failed during X" without leaking driver internals to callers.
// The underlying cause stays available for server-side logs via Unwrap.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s", e.Op)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
