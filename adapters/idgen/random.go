// Package idgen provides the identifier generators used by conversions.
package idgen

import (
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"tcdump/domain/core"
)

const (
	minID  = int64(1e16)
	idSpan = int64(9e16) // ids fall in [1e16, 1e17)
)

// Random issues 17-digit decimal ids from a seeded source.
// The same seed reproduces the same id and signature sequence.
type Random struct {
	rng    *rand.Rand
	issued map[core.ID]struct{}
}

// NewRandom creates a generator seeded with seed
func NewRandom(seed int64) *Random {
	return &Random{
		rng:    rand.New(rand.NewSource(seed)),
		issued: make(map[core.ID]struct{}),
	}
}

// NewID returns an id never issued before by this generator
func (g *Random) NewID() core.ID {
	for {
		id := core.ID(strconv.FormatInt(minID+g.rng.Int63n(idSpan), 10))
		if _, dup := g.issued[id]; dup {
			continue
		}
		g.issued[id] = struct{}{}
		return id
	}
}

// NewSignature returns a version 4 UUID drawn from the seeded source
func (g *Random) NewSignature() string {
	u, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand reads never fail; keep the signature unique regardless
		return uuid.NewString()
	}
	return u.String()
}

// Issued returns how many ids were handed out
func (g *Random) Issued() int {
	return len(g.issued)
}
