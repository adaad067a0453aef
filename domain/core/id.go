package core

import "fmt"

// ID represents an element identifier (the "pk" of the dump format)
type ID string

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// UIDPrefix tags the kind of element a display uid belongs to
type UIDPrefix string

const (
	PrefixDatatype    UIDPrefix = "DT"
	PrefixInteraction UIDPrefix = "IA"
	PrefixSubdivision UIDPrefix = "SD"
	PrefixTestCase    UIDPrefix = "TC"
)

// uidSuffixLength is the number of trailing id characters kept in a uid
const uidSuffixLength = 6

// UID derives the display uid of an element from its id: "iTB-<prefix>-<last 6 of id>".
func UID(prefix UIDPrefix, id ID) string {
	return fmt.Sprintf("iTB-%s-%s", prefix, Suffix(id))
}

// Suffix returns the fixed-length tail of an id used in uids.
func Suffix(id ID) string {
	s := string(id)
	if len(s) <= uidSuffixLength {
		return s
	}
	return s[len(s)-uidSuffixLength:]
}
