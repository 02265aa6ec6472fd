package storage

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrConfiguration is returned when the storage client cannot be built from the
// supplied configuration (unknown connection name, malformed connection string,
// unsupported provider).
var ErrConfiguration = errors.New("storage configuration error")

// StorageError describes a failed call against the remote object store.
type StorageError struct {
	Op         string
	Container  string
	Blob       string
	StatusCode int
	Err        error
}

func (e *StorageError) Error() string {
	target := e.Container
	if e.Blob != "" {
		target += "/" + e.Blob
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, target, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err carries a 409 status code.
func IsConflict(err error) bool {
	var se *StorageError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusConflict
	}
	return false
}

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// normalize applies the conflict rule shared by every mutating call: a 409 becomes
// (false, nil), any other failure is returned as a *StorageError.
func normalize(op, container, blob string, err error, statusOf func(error) int) (bool, error) {
	if err == nil {
		return true, nil
	}
	status := statusOf(err)
	if status == http.StatusConflict {
		return false, nil
	}
	return false, &StorageError{
		Op:         op,
		Container:  container,
		Blob:       blob,
		StatusCode: status,
		Err:        err,
	}
}
