package xmldump

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tcdump/domain/core"
	"tcdump/domain/testmodel"
)

// BuildTestElements converts the element graph to its <test-elements> form
func BuildTestElements(graph *testmodel.Graph) *TestElements {
	root := &TestElements{}
	for _, sd := range graph.Subdivisions {
		folder := SubdivisionElement{
			Type:               TypeSubdivision,
			PK:                 sd.ID.String(),
			Name:               sd.Name,
			UID:                sd.UID,
			HTMLDescription:    EmptyHTML,
			HistoryPK:          sd.HistoryID.String(),
			IdenticalVersionPK: NoIdenticalVersion,
		}
		for _, dt := range sd.Datatypes {
			folder.Children = append(folder.Children, buildDatatype(dt))
		}
		for _, ia := range sd.Interactions {
			folder.Children = append(folder.Children, buildInteraction(ia))
		}
		root.Subdivisions = append(root.Subdivisions, folder)
	}
	return root
}

func buildDatatype(dt *testmodel.Datatype) *DatatypeElement {
	class := EquivalenceClass{
		PK:          dt.ClassID.String(),
		Name:        dt.Name,
		Description: dt.Name,
		Ordering:    OrderingStep,
	}
	for _, rep := range dt.Representatives {
		class.Representatives.Items = append(class.Representatives.Items, RepresentativeElement{
			PK:       rep.ID.String(),
			Name:     rep.Name,
			Ordering: rep.Ordering,
			Type:     RepresentativeText,
		})
	}
	if def := dt.Default(); def != nil {
		class.DefaultRepresentative = &Ref{PK: def.ID.String()}
	}

	return &DatatypeElement{
		Type:               TypeDatatype,
		PK:                 dt.ID.String(),
		Name:               dt.Name,
		UID:                dt.UID,
		Status:             StatusReleased,
		Description:        "Datatype for " + dt.Name,
		HTMLDescription:    EmptyHTML,
		HistoryPK:          dt.ID.String(),
		IdenticalVersionPK: NoIdenticalVersion,
		Kind:               KindRegular,
		EquivalenceClasses: []EquivalenceClass{class},
	}
}

func buildInteraction(ia *testmodel.Interaction) *InteractionElement {
	elem := newInteractionElement(ia.ID, ia.UID, ia.Name)
	elem.Type = TypeInteraction
	for _, p := range ia.Parameters {
		elem.Parameters.Items = append(elem.Parameters.Items, ParameterElement{
			PK:             p.ID.String(),
			Name:           p.Name,
			DatatypeRef:    Ref{PK: p.DatatypeID.String()},
			DefinitionType: DefinitionType,
			UseType:        UseType,
			SignatureUID:   p.SignatureUID,
		})
	}
	return elem
}

func newInteractionElement(id core.ID, uid, name string) *InteractionElement {
	return &InteractionElement{
		PK:                 id.String(),
		Name:               name,
		UID:                uid,
		Status:             StatusReleased,
		DefaultCallType:    DefaultCallType{Name: CallTypeFlow, Value: CallTypeFlowValue},
		HTMLDescription:    EmptyHTML,
		HistoryPK:          id.String(),
		IdenticalVersionPK: NoIdenticalVersion,
	}
}

// BuildTestCase converts the assembled test case to its <testcase> form
func BuildTestCase(tc *testmodel.TestCase) *TestCaseElement {
	interaction := newInteractionElement(tc.InteractionID, tc.InteractionUID, TestCaseInteractionName)
	for _, call := range tc.Calls {
		step := InteractionCall{
			InteractionRef:  Ref{PK: call.InteractionID.String()},
			HTMLDescription: EmptyHTML,
			HTMLComment:     EmptyHTML,
			Type:            CallTypeFlowValue,
			Phase:           string(call.Phase),
		}
		for _, b := range call.Bindings {
			step.ParameterValues.Items = append(step.ParameterValues.Items, CallParameter{
				DefaultValue:      "false",
				Type:              "representative",
				PK:                b.ID.String(),
				ParameterRef:      Ref{PK: b.ParameterID.String()},
				RepresentativeRef: Ref{PK: b.RepresentativeID.String()},
			})
		}
		interaction.CallSequence.Calls = append(interaction.CallSequence.Calls, step)
	}

	return &TestCaseElement{
		PK:       tc.ID.String(),
		Name:     tc.Name,
		OrderPos: OrderingStep,
		UID:      tc.UID,
		Specification: Specification{
			Details:            newDetails(tc.SpecDetailsID, StatusSpecified),
			Description:        strings.Join(tc.Descriptions, "\n"),
			HTMLDescription:    RenderDescription(tc.Descriptions),
			HTMLReviewComments: EmptyHTML,
			Interaction:        *interaction,
			ParameterCombinations: []ParameterCombination{{
				PK:          tc.CombinationID.String(),
				HTMLComment: EmptyHTML,
				Ordering:    OrderingStep,
				UID:         fmt.Sprintf("%s-PC-%s", tc.UID, core.Suffix(tc.CombinationID)),
			}},
		},
		Automation: Automation{
			Details: newDetails(tc.AutomationDetailsID, StatusAutomated),
		},
	}
}

func newDetails(id core.ID, status string) Details {
	return Details{
		PK:                 id.String(),
		IdenticalVersionPK: NoIdenticalVersion,
		Priority:           "0",
		Status:             status,
	}
}

// RenderDescription renders free-text descriptions as the html body of a
// description field, one paragraph per description.
func RenderDescription(descriptions []string) string {
	if len(descriptions) == 0 {
		return EmptyHTML
	}
	md := strings.Join(descriptions, "\n\n")
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := bytes.TrimSpace(markdown.ToHTML([]byte(md), p, renderer))
	return "<html><body>" + string(body) + "</body></html>"
}
