package mapper

import "strings"

// IDDelimiter separates media ids in their local TEXT form. Valid ids never
// contain it.
const IDDelimiter = ","

// ValidID reports whether id is non-empty and uses only ASCII letters,
// digits and hyphens.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

// EncodeIDs joins ids for local storage. Order and duplicates are kept.
func EncodeIDs(ids []string) string {
	return strings.Join(ids, IDDelimiter)
}

// DecodeIDs is the inverse of EncodeIDs. Empty segments are dropped, so ""
// yields an empty, non-nil list.
func DecodeIDs(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, IDDelimiter) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
