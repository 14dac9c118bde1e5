package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		enc  string
	}{
		{"empty", []string{}, ""},
		{"single", []string{"a"}, "a"},
		{"order and duplicates", []string{"b", "a", "b"}, "b,a,b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enc, EncodeIDs(tt.ids))
			assert.Equal(t, tt.ids, DecodeIDs(tt.enc))
		})
	}
}

func TestDecodeIDs_DropsEmptySegments(t *testing.T) {
	assert.Equal(t, []string{}, DecodeIDs(""))
	assert.NotNil(t, DecodeIDs(""))
	assert.Equal(t, []string{"a", "b"}, DecodeIDs(",a,,b,"))
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("3f2c-AB-09"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("a,b"))
	assert.False(t, ValidID("a b"))
	assert.False(t, ValidID("ü"))
}
