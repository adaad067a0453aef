// Package synthesis builds the structural element tree: one subdivision for
// datatypes and one per section, holding the datatypes and interactions.
package synthesis

import (
	"fmt"

	"tcdump/domain/core"
	"tcdump/domain/testmodel"
	"tcdump/internal"
	"tcdump/ports"
)

// DatatypeSource lists the datatypes of a run
type DatatypeSource interface {
	Datatypes() []*testmodel.Datatype
}

// SubdivisionNames are the fixed subdivisions in emission order
var SubdivisionNames = []string{
	testmodel.SubdivisionDatatypes,
	string(testmodel.SectionPrecondition),
	string(testmodel.SectionAction),
	string(testmodel.SectionExpectedResult),
}

// Synthesizer emits the element graph
type Synthesizer struct {
	ids    ports.IDGenerator
	logger *internal.Logger
}

// NewSynthesizer creates a synthesizer drawing subdivision ids from ids
func NewSynthesizer(ids ports.IDGenerator, logger *internal.Logger) *Synthesizer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Synthesizer{ids: ids, logger: logger}
}

// Synthesize places every datatype under the Datatypes subdivision and every
// interaction under the subdivision of its primary section. Subdivision ids
// are issued here; datatype and interaction ids come from earlier stages.
func (s *Synthesizer) Synthesize(source DatatypeSource, interactions []*testmodel.Interaction) (*testmodel.Graph, error) {
	graph := &testmodel.Graph{}
	for _, name := range SubdivisionNames {
		id := s.ids.NewID()
		graph.Subdivisions = append(graph.Subdivisions, &testmodel.Subdivision{
			ID:        id,
			UID:       core.UID(core.PrefixSubdivision, id),
			HistoryID: s.ids.NewID(),
			Name:      name,
		})
	}

	datatypeFolder := graph.Subdivision(testmodel.SubdivisionDatatypes)
	seenDatatypes := make(map[string]bool)
	for _, dt := range source.Datatypes() {
		if seenDatatypes[dt.Name] {
			return nil, fmt.Errorf("%w: datatype %q", core.ErrDuplicateNode, dt.Name)
		}
		seenDatatypes[dt.Name] = true
		datatypeFolder.Datatypes = append(datatypeFolder.Datatypes, dt)
	}

	seenInteractions := make(map[string]bool)
	for _, ia := range interactions {
		if seenInteractions[ia.Name] {
			return nil, fmt.Errorf("%w: interaction %q", core.ErrDuplicateNode, ia.Name)
		}
		seenInteractions[ia.Name] = true

		folder := graph.Subdivision(string(ia.PrimarySection))
		if folder == nil || folder == datatypeFolder {
			return nil, fmt.Errorf("%w %q for interaction %q", core.ErrUnknownSection, ia.PrimarySection, ia.Name)
		}
		folder.Interactions = append(folder.Interactions, ia)
	}

	s.logger.Debug("synthesized %d datatypes and %d interactions", len(seenDatatypes), len(seenInteractions))
	return graph, nil
}
