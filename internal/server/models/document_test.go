package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_VisibleTo(t *testing.T) {
	d := &Document{OwnerID: "u1", FamilyID: "f1"}
	assert.True(t, d.VisibleTo("u1", ""))
	assert.True(t, d.VisibleTo("u2", "f1"))
	assert.False(t, d.VisibleTo("u2", "f2"))
	assert.False(t, d.VisibleTo("u2", ""))

	solo := &Document{OwnerID: "u1"}
	assert.False(t, solo.VisibleTo("u2", ""), "empty family ids never match")
}
