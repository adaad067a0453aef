// Package assembly builds the single test case of a run from the recorded
// call sites.
package assembly

import (
	"sort"

	"tcdump/domain/core"
	"tcdump/domain/testmodel"
	"tcdump/internal"
	"tcdump/internal/interactions"
	"tcdump/ports"
)

// TestCaseName is the name of the synthesized test case
const TestCaseName = "Generated Test Case"

// InteractionIndex finds the resolved interaction of an operation name
type InteractionIndex interface {
	Interaction(name string) (*testmodel.Interaction, bool)
}

// Resolver maps a bound value to a representative id
type Resolver interface {
	Resolve(category testmodel.Category, raw string) (core.ID, testmodel.Resolution)
}

// Stats counts how the bindings of a test case were resolved
type Stats struct {
	Calls          int `json:"calls"`
	Bindings       int `json:"bindings"`
	Exact          int `json:"exact"`
	EmptyFallbacks int `json:"empty_fallbacks"`
	Unregistered   int `json:"unregistered"`
}

func (s *Stats) record(r testmodel.Resolution) {
	s.Bindings++
	switch r {
	case testmodel.ResolvedExact:
		s.Exact++
	case testmodel.ResolvedEmptyFallback:
		s.EmptyFallbacks++
	default:
		s.Unregistered++
	}
}

// Assembler turns call sites into the ordered call sequence
type Assembler struct {
	ids    ports.IDGenerator
	logger *internal.Logger
}

// NewAssembler creates an assembler
func NewAssembler(ids ports.IDGenerator, logger *internal.Logger) *Assembler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Assembler{ids: ids, logger: logger}
}

// Assemble emits one test case holding every call site, ordered by phase and
// then by discovery order. Every parameter of the interaction gets a binding;
// positions the call site left out bind the empty value.
func (a *Assembler) Assemble(sites []testmodel.CallSite, index InteractionIndex, resolver Resolver, descriptions []string) (*testmodel.TestCase, Stats, error) {
	var stats Stats

	ordered := SortCallSites(sites)
	calls := make([]testmodel.Call, 0, len(ordered))
	for _, site := range ordered {
		ia, ok := index.Interaction(site.Operation)
		if !ok {
			return nil, stats, core.NewCallSiteError(core.ErrUnknownInteraction, site.Operation, site.Row, site.Section.Column())
		}

		call := testmodel.Call{
			InteractionID: ia.ID,
			Interaction:   ia.Name,
			Phase:         site.Phase,
			Row:           site.Row,
		}
		values := interactions.PaddedValues(site, ia.Arity())
		for idx, param := range ia.Parameters {
			value := values[idx]
			repID, resolution := resolver.Resolve(value.Category, value.Raw)
			if resolution == testmodel.ResolvedUnregistered {
				a.logger.Warn("%s binding %s of operation %q (row %d, column %s) references unregistered id %s",
					value.Category, param.Name, site.Operation, site.Row, site.Section.Column(), repID)
			}
			call.Bindings = append(call.Bindings, testmodel.Binding{
				ID:               a.ids.NewID(),
				ParameterID:      param.ID,
				RepresentativeID: repID,
				Value:            value,
				Resolution:       resolution,
			})
			stats.record(resolution)
		}
		if extra := len(values) - ia.Arity(); extra > 0 {
			a.logger.Warn("operation %q (row %d) has %d values beyond its %d parameters",
				site.Operation, site.Row, extra, ia.Arity())
		}
		calls = append(calls, call)
		stats.Calls++
	}

	id := a.ids.NewID()
	interactionID := a.ids.NewID()
	tc := &testmodel.TestCase{
		ID:                  id,
		UID:                 core.UID(core.PrefixTestCase, id),
		Name:                TestCaseName,
		SpecDetailsID:       a.ids.NewID(),
		InteractionID:       interactionID,
		InteractionUID:      core.UID(core.PrefixInteraction, interactionID),
		CombinationID:       a.ids.NewID(),
		AutomationDetailsID: a.ids.NewID(),
		Descriptions:        append([]string(nil), descriptions...),
		Calls:               calls,
	}

	a.logger.Info("assembled %s with %d calls (%d bindings, %d empty fallbacks, %d unregistered)",
		tc.UID, stats.Calls, stats.Bindings, stats.EmptyFallbacks, stats.Unregistered)
	return tc, stats, nil
}

// SortCallSites returns a copy of sites ordered by phase and then discovery order
func SortCallSites(sites []testmodel.CallSite) []testmodel.CallSite {
	ordered := append([]testmodel.CallSite(nil), sites...)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := ordered[i].Phase.Order(), ordered[j].Phase.Order()
		if pi != pj {
			return pi < pj
		}
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}
