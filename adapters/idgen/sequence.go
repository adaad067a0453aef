package idgen

import (
	"fmt"

	"tcdump/domain/core"
)

// Sequence issues consecutive ids starting at a base; used where tests
// need to predict exact identifiers.
type Sequence struct {
	next      int64
	signature int
}

// NewSequence creates a generator whose first id is base
func NewSequence(base int64) *Sequence {
	return &Sequence{next: base}
}

// NewID returns the next id
func (s *Sequence) NewID() core.ID {
	id := core.ID(fmt.Sprintf("%d", s.next))
	s.next++
	return id
}

// NewSignature returns a deterministic uuid-shaped signature
func (s *Sequence) NewSignature() string {
	s.signature++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", s.signature)
}
