// Package xmldump writes the element graph and test case in the project dump
// format and splices them into an existing dump.
package xmldump

import "encoding/xml"

// Fixed field values of the project dump format
const (
	EmptyHTML          = "<html><body></body></html>"
	StatusReleased     = "3"
	StatusSpecified    = "2"
	StatusAutomated    = "6"
	NoIdenticalVersion = "-1"
	KindRegular        = "regular"
	CallTypeFlow       = "Flow"
	CallTypeFlowValue  = "0"
	DefinitionType     = "0"
	UseType            = "1"
	RepresentativeText = "text"
	OrderingStep       = 1024

	TypeSubdivision = "subdivision"
	TypeDatatype    = "datatype"
	TypeInteraction = "interaction"

	TestCaseInteractionName = "Generated Test Case Interaction"
)

// Empty marshals as an element without content
type Empty struct{}

// Ref is a reference to another element by pk
type Ref struct {
	PK string `xml:"pk,attr"`
}

// TestElements is the <test-elements> root
type TestElements struct {
	XMLName      xml.Name             `xml:"test-elements"`
	Subdivisions []SubdivisionElement `xml:"element"`
}

// SubdivisionElement is a folder holding datatypes or interactions
type SubdivisionElement struct {
	Type               string `xml:"type,attr"`
	PK                 string `xml:"pk"`
	Name               string `xml:"name"`
	UID                string `xml:"uid"`
	Locker             Empty  `xml:"locker"`
	Description        string `xml:"description"`
	HTMLDescription    string `xml:"html-description"`
	HistoryPK          string `xml:"historyPK"`
	IdenticalVersionPK string `xml:"identicalVersionPK"`
	References         Empty  `xml:"references"`
	OldVersions        Empty  `xml:"old-versions"`
	Children           []any  `xml:"element"` // *DatatypeElement or *InteractionElement
}

// DatatypeElement is an <element type="datatype">
type DatatypeElement struct {
	Type               string             `xml:"type,attr"`
	PK                 string             `xml:"pk"`
	Name               string             `xml:"name"`
	UID                string             `xml:"uid"`
	Locker             Empty              `xml:"locker"`
	Status             string             `xml:"status"`
	Description        string             `xml:"description"`
	HTMLDescription    string             `xml:"html-description"`
	HistoryPK          string             `xml:"historyPK"`
	IdenticalVersionPK string             `xml:"identicalVersionPK"`
	References         Empty              `xml:"references"`
	Kind               string             `xml:"kind"`
	Fields             Empty              `xml:"fields"`
	InstancesArrays    Empty              `xml:"instances-arrays"`
	EquivalenceClasses []EquivalenceClass `xml:"equivalence-classes>equivalence-class"`
	OldVersions        Empty              `xml:"old-versions"`
}

// EquivalenceClass groups the representatives of a datatype
type EquivalenceClass struct {
	PK                    string             `xml:"pk"`
	Name                  string             `xml:"name"`
	Description           string             `xml:"description"`
	Ordering              int                `xml:"ordering"`
	Representatives       RepresentativeList `xml:"representatives"`
	DefaultRepresentative *Ref               `xml:"default-representative-ref"`
}

// RepresentativeList wraps the representatives so an empty list still emits its element
type RepresentativeList struct {
	Items []RepresentativeElement `xml:"representative"`
}

// RepresentativeElement is one <representative>
type RepresentativeElement struct {
	PK       string `xml:"pk"`
	Name     string `xml:"name"`
	Ordering int    `xml:"ordering"`
	Type     string `xml:"type"`
	Values   Empty  `xml:"values"`
}

// InteractionElement is an <element type="interaction">, and the <interaction>
// of a test case specification when Type is empty.
type InteractionElement struct {
	Type               string          `xml:"type,attr,omitempty"`
	PK                 string          `xml:"pk"`
	Name               string          `xml:"name"`
	UID                string          `xml:"uid"`
	Locker             Empty           `xml:"locker"`
	Status             string          `xml:"status"`
	DefaultCallType    DefaultCallType `xml:"default-call-type"`
	Description        string          `xml:"description"`
	HTMLDescription    string          `xml:"html-description"`
	HistoryPK          string          `xml:"historyPK"`
	IdenticalVersionPK string          `xml:"identicalVersionPK"`
	References         Empty           `xml:"references"`
	Preconditions      Empty           `xml:"preconditions"`
	Postconditions     Empty           `xml:"postconditions"`
	Parameters         ParameterList   `xml:"parameters"`
	CallSequence       CallSequence    `xml:"call-sequence"`
	OldVersions        Empty           `xml:"old-versions"`
}

// DefaultCallType is the <default-call-type> of an interaction
type DefaultCallType struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ParameterList wraps the parameters of an interaction
type ParameterList struct {
	Items []ParameterElement `xml:"parameter"`
}

// ParameterElement is one <parameter> of an interaction
type ParameterElement struct {
	PK             string `xml:"pk"`
	Name           string `xml:"name"`
	DatatypeRef    Ref    `xml:"datatype-ref"`
	DefinitionType string `xml:"definition-type"`
	UseType        string `xml:"use-type"`
	SignatureUID   string `xml:"signature-uid"`
}

// CallSequence wraps the calls of an interaction
type CallSequence struct {
	Calls []InteractionCall `xml:"interaction-call"`
}

// InteractionCall is one step of a call sequence
type InteractionCall struct {
	InteractionRef  Ref             `xml:"interaction-ref"`
	Description     string          `xml:"description"`
	HTMLDescription string          `xml:"html-description"`
	Comment         string          `xml:"comment"`
	HTMLComment     string          `xml:"html-comment"`
	Type            string          `xml:"type"`
	Phase           string          `xml:"phase"`
	ParameterValues ParameterValues `xml:"parameter-values"`
	Marker          Empty           `xml:"marker"`
}

// ParameterValues wraps the call parameters of a call
type ParameterValues struct {
	Items []CallParameter `xml:"call-parameter"`
}

// CallParameter binds one parameter of a call to a representative
type CallParameter struct {
	DefaultValue      string `xml:"default_value,attr"`
	Type              string `xml:"type,attr"`
	PK                string `xml:"pk"`
	ParameterRef      Ref    `xml:"parameter-datatype-ref"`
	RepresentativeRef Ref    `xml:"representative-ref"`
}

// TestCaseElement is the <testcase> root
type TestCaseElement struct {
	XMLName         xml.Name      `xml:"testcase"`
	PK              string        `xml:"pk"`
	Name            string        `xml:"name"`
	OrderPos        int           `xml:"order-pos"`
	UID             string        `xml:"uid"`
	Specification   Specification `xml:"specification"`
	Automation      Automation    `xml:"automation"`
	ExecutionCycles Empty         `xml:"execution-cycles"`
}

// Details is the version block of a specification or automation
type Details struct {
	Version            Empty  `xml:"version"`
	PK                 string `xml:"pk"`
	IdenticalVersionPK string `xml:"identicalVersionPK"`
	Locker             Empty  `xml:"locker"`
	Responsible        Empty  `xml:"responsible"`
	Reviewer           Empty  `xml:"reviewer"`
	Priority           string `xml:"priority"`
	Status             string `xml:"status"`
	TargetDate         Empty  `xml:"target-date"`
	References         Empty  `xml:"references"`
}

// Specification is the <specification> of a test case
type Specification struct {
	Details               Details                `xml:"details"`
	Description           string                 `xml:"description"`
	HTMLDescription       string                 `xml:"html-description"`
	ReviewComments        Empty                  `xml:"review-comments"`
	HTMLReviewComments    string                 `xml:"html-review-comments"`
	Keywords              Empty                  `xml:"keywords"`
	EditedRequirements    Empty                  `xml:"edited-requirements"`
	NonEditedRequirements Empty                  `xml:"non-edited-requirements"`
	UserDefinedFields     Empty                  `xml:"userDefinedFields"`
	Interaction           InteractionElement     `xml:"interaction"`
	ParameterCombinations []ParameterCombination `xml:"parameter-combinations>parameter-combination"`
	OldVersions           Empty                  `xml:"old-versions"`
}

// ParameterCombination is the single parameter combination of a test case
type ParameterCombination struct {
	PK                    string `xml:"pk"`
	Comment               Empty  `xml:"comment"`
	HTMLComment           string `xml:"html-comment"`
	Ordering              int    `xml:"ordering"`
	UID                   string `xml:"uid"`
	Keywords              Empty  `xml:"keywords"`
	EditedRequirements    Empty  `xml:"edited-requirements"`
	NonEditedRequirements Empty  `xml:"non-edited-requirements"`
	UserDefinedFields     Empty  `xml:"userDefinedFields"`
	Values                Empty  `xml:"values"`
}

// Automation is the <automation> block of a test case
type Automation struct {
	Details        Details `xml:"details"`
	ScriptEditor   Empty   `xml:"script-editor"`
	ScriptTemplate Empty   `xml:"script-template"`
	OldVersions    Empty   `xml:"old-versions"`
}
