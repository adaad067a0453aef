// Package testmodel holds the element graph a conversion produces:
// datatypes with their representatives, interactions with their parameters,
// recorded call sites and the single synthesized test case.
package testmodel

import (
	"strings"

	"tcdump/domain/core"
)

// Category classifies a parameter value
type Category string

const (
	CategoryText       Category = "Text"
	CategoryNumeric    Category = "Numeric"
	CategoryComparison Category = "Comparison"
	CategoryEmpty      Category = "Empty"
)

// ValueCategories lists the categories that collect representative values, in registry order
var ValueCategories = []Category{CategoryText, CategoryNumeric, CategoryComparison}

// ParameterValue is a trimmed raw argument and its category
type ParameterValue struct {
	Raw      string   `json:"value"`
	Category Category `json:"category"`
}

// EmptyValue is the binding used to pad argument lists
func EmptyValue() ParameterValue {
	return ParameterValue{Raw: "", Category: CategoryEmpty}
}

// DisplayName is the representative name a value resolves to
func (v ParameterValue) DisplayName() string {
	return DisplayName(v.Raw)
}

// DisplayName strips surrounding quotes and whitespace from a raw value
func DisplayName(raw string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"`))
}

// Phase is the lifecycle stage of a call
type Phase string

const (
	PhaseSetup    Phase = "Setup"
	PhaseTestStep Phase = "TestStep"
	PhaseTeardown Phase = "Teardown"
)

// Order returns the position of the phase in Setup < TestStep < Teardown
func (p Phase) Order() int {
	switch p {
	case PhaseSetup:
		return 0
	case PhaseTestStep:
		return 1
	case PhaseTeardown:
		return 2
	default:
		return 99
	}
}

// Section is a spreadsheet column family and the subdivision its interactions are filed under
type Section string

const (
	SectionPrecondition   Section = "Precondition"
	SectionAction         Section = "Action"
	SectionExpectedResult Section = "Expected_Result"
)

// Sections lists the scanned sections in row scan order
var Sections = []Section{SectionPrecondition, SectionAction, SectionExpectedResult}

// SubdivisionDatatypes names the subdivision holding every datatype
const SubdivisionDatatypes = "Datatypes"

// Column returns the spreadsheet header the section is read from
func (s Section) Column() string {
	if s == SectionExpectedResult {
		return "Expected Result"
	}
	return string(s)
}

// Phase returns the call phase of the section
func (s Section) Phase() Phase {
	switch s {
	case SectionPrecondition:
		return PhaseSetup
	case SectionAction:
		return PhaseTestStep
	default:
		return PhaseTeardown
	}
}

// Representative is one concrete value of a datatype's equivalence class
type Representative struct {
	ID        core.ID
	Name      string
	Ordering  int
	IsDefault bool
}

// Datatype is a named equivalence class of representatives
type Datatype struct {
	ID              core.ID
	UID             string
	ClassID         core.ID
	Name            string
	Representatives []*Representative
}

// Default returns the default representative, nil for a datatype without values
func (d *Datatype) Default() *Representative {
	for _, rep := range d.Representatives {
		if rep.IsDefault {
			return rep
		}
	}
	return nil
}

// Find returns the representative with the given display name
func (d *Datatype) Find(name string) *Representative {
	for _, rep := range d.Representatives {
		if rep.Name == name {
			return rep
		}
	}
	return nil
}

// Parameter is one positional slot of an interaction
type Parameter struct {
	ID           core.ID
	Name         string
	Position     int
	DatatypeID   core.ID
	Datatype     string
	SignatureUID string
}

// Interaction is a named operation definition merged from every call of that name
type Interaction struct {
	ID             core.ID
	UID            string
	Name           string
	Parameters     []*Parameter
	Phases         []Phase
	PrimarySection Section
}

// Arity returns the number of parameters
func (i *Interaction) Arity() int {
	return len(i.Parameters)
}

// HasPhase reports whether any call of the interaction runs in the phase
func (i *Interaction) HasPhase(phase Phase) bool {
	for _, p := range i.Phases {
		if p == phase {
			return true
		}
	}
	return false
}

// CallSite is one concrete invocation found while scanning rows
type CallSite struct {
	Operation string
	Section   Section
	Phase     Phase
	Values    []ParameterValue
	Row       int
	Order     int // discovery order across the whole run
}

// Resolution records how a bound value found its representative
type Resolution int

const (
	ResolvedExact Resolution = iota
	ResolvedEmptyFallback
	ResolvedUnregistered
)

func (r Resolution) String() string {
	switch r {
	case ResolvedExact:
		return "exact"
	case ResolvedEmptyFallback:
		return "empty-fallback"
	default:
		return "unregistered"
	}
}

// Binding ties one parameter of a call to a representative
type Binding struct {
	ID               core.ID
	ParameterID      core.ID
	RepresentativeID core.ID
	Value            ParameterValue
	Resolution       Resolution
}

// Call is one entry of the test case call sequence
type Call struct {
	InteractionID core.ID
	Interaction   string
	Phase         Phase
	Row           int
	Bindings      []Binding
}

// TestCase is the single synthesized test case of a run
type TestCase struct {
	ID                  core.ID
	UID                 string
	Name                string
	SpecDetailsID       core.ID
	InteractionID       core.ID
	InteractionUID      string
	CombinationID       core.ID
	AutomationDetailsID core.ID
	Descriptions        []string
	Calls               []Call
}

// Subdivision is a folder node of the element tree
type Subdivision struct {
	ID           core.ID
	UID          string
	HistoryID    core.ID
	Name         string
	Datatypes    []*Datatype
	Interactions []*Interaction
}

// Graph is the structural element tree
type Graph struct {
	Subdivisions []*Subdivision
}

// Subdivision returns the subdivision with the given name
func (g *Graph) Subdivision(name string) *Subdivision {
	for _, sd := range g.Subdivisions {
		if sd.Name == name {
			return sd
		}
	}
	return nil
}
