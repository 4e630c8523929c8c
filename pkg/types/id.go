package types

import (
	"fmt"
	"strings"
)

// idMarker separates the namespace from the hex index inside an identifier.
const idMarker = ":0x"

// ID is the structured form of a row identifier. Identifiers encode a single
// global sequence as "<namespace>:0x<index>", where index is the hex sequence
// number of the originating message. All construction and parsing goes
// through this codec; nothing else slices identifier strings.
type ID struct {
	Namespace string // e.g. "kiwi"
	Index     string // hex digits, without the "0x" prefix
}

// NewID builds an ID from a namespace and a hex index.
func NewID(namespace, index string) ID {
	return ID{Namespace: namespace, Index: index}
}

// ParseID parses "<namespace>:0x<index>" into its structured form. It rejects
// identifiers with a missing marker, an empty namespace, or an empty index.
func ParseID(s string) (ID, error) {
	i := strings.Index(s, idMarker)
	if i <= 0 {
		return ID{}, fmt.Errorf("malformed id %q: missing namespace or %q marker", s, idMarker)
	}

	index := s[i+len(idMarker):]
	if index == "" {
		return ID{}, fmt.Errorf("malformed id %q: empty index", s)
	}

	return ID{Namespace: s[:i], Index: index}, nil
}

// String renders the identifier in its persisted form.
func (id ID) String() string {
	return id.Namespace + idMarker + id.Index
}
