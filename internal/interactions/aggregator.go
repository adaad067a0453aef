// Package interactions merges the calls of each operation name into a single
// interaction definition while keeping every call site.
//
// Aggregation is two-pass: Observe records call sites and tallies the
// categories seen at each argument position; Resolve runs once all rows are
// scanned and fixes every parameter's datatype from the global tally.
package interactions

import (
	"fmt"

	"tcdump/domain/core"
	"tcdump/domain/testmodel"
	"tcdump/internal"
	"tcdump/ports"
)

// DatatypeLookup finds a datatype by name
type DatatypeLookup interface {
	Lookup(name string) (*testmodel.Datatype, bool)
}

// tally is the pass-one state of one operation name
type tally struct {
	name         string
	positions    []map[testmodel.Category]bool
	phases       []testmodel.Phase
	firstSection testmodel.Section
	calls        int
}

func (t *tally) observe(section testmodel.Section, values []testmodel.ParameterValue) {
	t.calls++
	for len(t.positions) < len(values) {
		t.positions = append(t.positions, make(map[testmodel.Category]bool))
	}
	for idx, v := range values {
		t.positions[idx][v.Category] = true
	}
	phase := section.Phase()
	for _, p := range t.phases {
		if p == phase {
			return
		}
	}
	t.phases = append(t.phases, phase)
}

// Aggregator collects call sites for one conversion run
type Aggregator struct {
	logger   *internal.Logger
	order    []string
	tallies  map[string]*tally
	sites    []testmodel.CallSite
	resolved map[string]*testmodel.Interaction
}

// NewAggregator creates an empty aggregator
func NewAggregator(logger *internal.Logger) *Aggregator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Aggregator{
		logger:  logger,
		tallies: make(map[string]*tally),
	}
}

// Observe records one call of operation found in section of row.
// Operation names match exactly and case-sensitively.
func (a *Aggregator) Observe(operation string, section testmodel.Section, values []testmodel.ParameterValue, row int) testmodel.CallSite {
	t, ok := a.tallies[operation]
	if !ok {
		t = &tally{name: operation, firstSection: section}
		a.tallies[operation] = t
		a.order = append(a.order, operation)
	}
	t.observe(section, values)

	site := testmodel.CallSite{
		Operation: operation,
		Section:   section,
		Phase:     section.Phase(),
		Values:    append([]testmodel.ParameterValue(nil), values...),
		Row:       row,
		Order:     len(a.sites),
	}
	a.sites = append(a.sites, site)
	return site
}

// Resolve creates one interaction per observed operation name, in first-sighting
// order. A position that only ever held one category uses that category's
// datatype; a position that held several uses Text. Calling Resolve again
// returns the interactions created by the first call.
func (a *Aggregator) Resolve(lookup DatatypeLookup, ids ports.IDGenerator) ([]*testmodel.Interaction, error) {
	if a.resolved != nil {
		return a.Interactions(), nil
	}

	textType, ok := lookup.Lookup(string(testmodel.CategoryText))
	if !ok {
		return nil, fmt.Errorf("%w %q", core.ErrUnknownDatatype, testmodel.CategoryText)
	}
	emptyType, ok := lookup.Lookup(string(testmodel.CategoryEmpty))
	if !ok {
		return nil, fmt.Errorf("%w %q", core.ErrUnknownDatatype, testmodel.CategoryEmpty)
	}

	resolved := make(map[string]*testmodel.Interaction, len(a.order))
	for _, name := range a.order {
		t := a.tallies[name]
		id := ids.NewID()
		ia := &testmodel.Interaction{
			ID:             id,
			UID:            core.UID(core.PrefixInteraction, id),
			Name:           name,
			Phases:         append([]testmodel.Phase(nil), t.phases...),
			PrimarySection: t.firstSection,
		}

		for idx, categories := range t.positions {
			dt := textType
			if len(categories) == 1 {
				dt = emptyType
				for category := range categories {
					if found, ok := lookup.Lookup(string(category)); ok {
						dt = found
					}
				}
			}
			ia.Parameters = append(ia.Parameters, &testmodel.Parameter{
				ID:           ids.NewID(),
				Name:         fmt.Sprintf("Param%d", idx+1),
				Position:     idx,
				DatatypeID:   dt.ID,
				Datatype:     dt.Name,
				SignatureUID: ids.NewSignature(),
			})
		}

		a.logger.Debug("interaction %s: %d calls, arity %d, filed under %s",
			name, t.calls, ia.Arity(), ia.PrimarySection)
		resolved[name] = ia
	}
	a.resolved = resolved
	return a.Interactions(), nil
}

// Interactions returns the resolved interactions in first-sighting order
func (a *Aggregator) Interactions() []*testmodel.Interaction {
	interactions := make([]*testmodel.Interaction, 0, len(a.resolved))
	for _, name := range a.order {
		if ia, ok := a.resolved[name]; ok {
			interactions = append(interactions, ia)
		}
	}
	return interactions
}

// Interaction returns the resolved interaction for an operation name
func (a *Aggregator) Interaction(name string) (*testmodel.Interaction, bool) {
	ia, ok := a.resolved[name]
	return ia, ok
}

// CallSites returns every observed call site in discovery order
func (a *Aggregator) CallSites() []testmodel.CallSite {
	return a.sites
}

// Operations returns the observed operation names in first-sighting order
func (a *Aggregator) Operations() []string {
	return a.order
}

// CallCount returns how many call sites an operation has
func (a *Aggregator) CallCount(name string) int {
	if t, ok := a.tallies[name]; ok {
		return t.calls
	}
	return 0
}

// PaddedValues returns the values of site right-padded with empty bindings
// up to arity.
func PaddedValues(site testmodel.CallSite, arity int) []testmodel.ParameterValue {
	values := append([]testmodel.ParameterValue(nil), site.Values...)
	for len(values) < arity {
		values = append(values, testmodel.EmptyValue())
	}
	return values
}
