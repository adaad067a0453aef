package ports

import "tcdump/domain/core"

// IDGenerator issues element identifiers for one conversion run.
// Implementations must never issue the same ID twice within a run.
type IDGenerator interface {
	// NewID returns a fresh element id
	NewID() core.ID

	// NewSignature returns a fresh parameter signature uid
	NewSignature() string
}
