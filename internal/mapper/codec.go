// Package mapper converts journal entities between their local (SQLite) and
// remote (document) shapes.
//
// Every entity type has one Codec. ToRemote is deterministic and only fails
// on malformed local data. ToLocal is its inverse and normalizes sync state:
// a record read from the remote store is never dirty, and a remote Media
// record is always uploaded with no local file.
package mapper

import (
	"fmt"

	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
)

// Remote collection names.
const (
	CollectionUsers         = "users"
	CollectionChildren      = "children"
	CollectionDiaries       = "diaries"
	CollectionMedia         = "media"
	CollectionGrowthRecords = "growth_records"
	CollectionEvents        = "events"
	CollectionMilestones    = "milestones"
)

// Field names shared by several collections.
const (
	FieldChildID   = "childId"
	FieldUserID    = "userId"
	FieldFamilyID  = "familyId"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldMediaIDs  = "mediaIds"
)

// Codec maps one entity type.
type Codec[T any] struct {
	Entity     models.EntityType
	Collection string
	// ParentField is the remote field that scopes pulls of this type.
	ParentField string

	id     func(T) string
	parent func(T) string
	encode func(T, *fieldWriter)
	decode func(*fieldReader) T
	// check, when set, rejects records that are well formed field by field
	// but break a cross-field rule. It names the field to report.
	check func(T) (string, error)
}

func (c Codec[T]) validate(v T) error {
	if c.check == nil {
		return nil
	}
	if field, err := c.check(v); err != nil {
		return &MappingError{Collection: c.Collection, ID: c.id(v), Field: field, Err: err}
	}
	return nil
}

// ID returns the record id.
func (c Codec[T]) ID(v T) string { return c.id(v) }

// ParentID returns the local value of ParentField.
func (c Codec[T]) ParentID(v T) string { return c.parent(v) }

// ToRemote converts a local record into a document.
func (c Codec[T]) ToRemote(v T) (remote.Document, error) {
	id := c.id(v)
	if !ValidID(id) {
		return remote.Document{}, &MappingError{Collection: c.Collection, ID: id, Err: fmt.Errorf("%w: %q", ErrInvalidID, id)}
	}
	w := &fieldWriter{doc: remote.NewDocument(id), collection: c.Collection}
	c.encode(v, w)
	if w.err != nil {
		return remote.Document{}, w.err
	}
	if err := c.validate(v); err != nil {
		return remote.Document{}, err
	}
	return w.doc, nil
}

// ToLocal converts a document into a local record ready to upsert.
func (c Codec[T]) ToLocal(d remote.Document) (T, error) {
	var zero T
	if !ValidID(d.ID) {
		return zero, &MappingError{Collection: c.Collection, ID: d.ID, Err: fmt.Errorf("%w: %q", ErrInvalidID, d.ID)}
	}
	r := &fieldReader{doc: d, collection: c.Collection}
	v := c.decode(r)
	if r.err != nil {
		return zero, r.err
	}
	if err := c.validate(v); err != nil {
		return zero, err
	}
	return v, nil
}
