package remote

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers match with errors.Is.
var (
	// ErrUnavailable covers network failures and timeouts. Retrying later may succeed.
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrPermissionDenied means the credential may not read or write the document.
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("document not found")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// Error records the failed operation and the document it addressed.
type Error struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("remote %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	if e.Collection != "" {
		return fmt.Sprintf("remote %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("remote %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying on a later pass.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsPermission reports whether err is an authorization failure.
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
