// Package remote defines the contract of the remote document store: the
// Document shape, its typed wire encoding, the error taxonomy, the gRPC
// service both sides speak, and an in-process Store used in tests and
// offline demos.
//
// # Documents
//
// A Document is a flat set of named fields. Field values are restricted to
//
//	nil, string, int64, float64, bool, []string, *timestamppb.Timestamp
//
// The timestamp type is the remote store's native instant; converting local
// millisecond timestamps into it is the mapper's job.
package remote

import (
	"fmt"
	"slices"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Document is one record in a collection.
type Document struct {
	ID     string
	Fields map[string]any
}

// NewDocument returns an empty document with the given id.
func NewDocument(id string) Document {
	return Document{ID: id, Fields: make(map[string]any)}
}

// Set assigns a field and returns the document for chaining.
func (d Document) Set(name string, value any) Document {
	d.Fields[name] = value
	return d
}

// Clone returns a deep copy, so stores never share mutable state with callers.
func (d Document) Clone() Document {
	out := Document{ID: d.ID, Fields: make(map[string]any, len(d.Fields))}
	for k, v := range d.Fields {
		switch x := v.(type) {
		case []string:
			out.Fields[k] = slices.Clone(x)
		case *timestamppb.Timestamp:
			out.Fields[k] = proto.Clone(x).(*timestamppb.Timestamp)
		default:
			out.Fields[k] = v
		}
	}
	return out
}

// StringField returns the string value of name, or "" when it is missing or
// not a string. Used for parent lookups where absence means no match.
func (d Document) StringField(name string) string {
	s, _ := d.Fields[name].(string)
	return s
}

func checkValue(name string, v any) error {
	switch v.(type) {
	case nil, string, int64, float64, bool, []string, *timestamppb.Timestamp:
		return nil
	}
	return fmt.Errorf("%w: field %q has unsupported type %T", ErrInvalidArgument, name, v)
}

// Validate checks the id and every field value type.
func (d Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: empty document id", ErrInvalidArgument)
	}
	for k, v := range d.Fields {
		if err := checkValue(k, v); err != nil {
			return err
		}
	}
	return nil
}
