// Package models holds the server-side persistence types.
package models

import "time"

// Document is one stored row of the documents table. Data is the typed JSON
// encoding of remote.Document.
type Document struct {
	Collection string
	ID         string
	OwnerID    string
	FamilyID   string
	Data       []byte
	UpdatedAt  time.Time
}

// VisibleTo reports whether a caller with userID and familyID may read or
// write the document.
func (d *Document) VisibleTo(userID, familyID string) bool {
	if d.OwnerID == userID {
		return true
	}
	return d.FamilyID != "" && d.FamilyID == familyID
}
