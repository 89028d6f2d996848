package ledger

import "fmt"

// StorageError wraps a database failure during a ledger operation. Callers
// treat it as fatal for the cycle but non-fatal for the process: the delta
// that triggered it has been rolled back in full.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
