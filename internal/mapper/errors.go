package mapper

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrFieldType    = errors.New("unexpected field type")
	ErrInvalidID    = errors.New("invalid id")
)

// MappingError reports a record that could not be converted between its
// local and remote shapes.
type MappingError struct {
	Collection string
	ID         string
	Field      string
	Err        error
}

func (e *MappingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("map %s/%s: %v", e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("map %s/%s field %q: %v", e.Collection, e.ID, e.Field, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
