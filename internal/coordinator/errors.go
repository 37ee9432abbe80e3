package coordinator

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by operations that are part of the message
// set but have no defined behaviour yet.
var ErrNotImplemented = errors.New("not implemented")

// FileError reports a failed read or write of a document. The host can
// offer the user to retry the operation.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// Retryable reports whether err came from the filesystem.
func Retryable(err error) bool {
	var fe *FileError
	return errors.As(err, &fe)
}
