package xmldump

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcdump/adapters/idgen"
	"tcdump/app"
	"tcdump/domain/core"
	"tcdump/internal"
	"tcdump/ports"
)

func convert(t *testing.T) *app.Result {
	t.Helper()
	rows := []ports.Row{
		{
			"Precondition":    `[Lamp on] #op[Init]("TV_Ready")`,
			"Action":          `#op[Set_Signal](#p[1],"A2")`,
			"Expected Result": `#op[Check](#p[">="],"TV_X")`,
		},
	}
	result, err := app.NewConversionService(idgen.NewRandom(11), internal.NewNopLogger()).
		Convert(context.Background(), rows)
	require.NoError(t, err)
	return result
}

func encode(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, v))
	return buf.String()
}

func TestEncodeTestElements(t *testing.T) {
	result := convert(t)
	out := encode(t, BuildTestElements(result.Graph))

	assert.True(t, strings.HasPrefix(out, xml.Header+"<test-elements>\n  <element type=\"subdivision\">"))
	assert.Equal(t, 4, strings.Count(out, `<element type="subdivision">`))
	assert.Equal(t, 4, strings.Count(out, `<element type="datatype">`))
	assert.Equal(t, 3, strings.Count(out, `<element type="interaction">`))
	assert.Contains(t, out, "<description>Datatype for Comparison</description>")
	assert.Contains(t, out, "<html-description>&lt;html&gt;&lt;body&gt;&lt;/body&gt;&lt;/html&gt;</html-description>")
	assert.Contains(t, out, `<default-call-type name="Flow" value="0"></default-call-type>`)
	assert.Contains(t, out, "<name>TV_X</name>")
	assert.Contains(t, out, "<kind>regular</kind>")

	empty := result.Datatypes[0]
	require.Equal(t, "Empty", empty.Name)
	assert.Contains(t, out, `<default-representative-ref pk="`+empty.Representatives[0].ID.String()+`"></default-representative-ref>`)
}

func TestBuildTestElementsPlacesInteractions(t *testing.T) {
	result := convert(t)
	root := BuildTestElements(result.Graph)

	require.Len(t, root.Subdivisions, 4)
	assert.Equal(t, "Datatypes", root.Subdivisions[0].Name)
	for _, child := range root.Subdivisions[0].Children {
		assert.IsType(t, &DatatypeElement{}, child)
	}

	action := root.Subdivisions[2]
	require.Equal(t, "Action", action.Name)
	require.Len(t, action.Children, 1)
	ia := action.Children[0].(*InteractionElement)
	assert.Equal(t, "Set_Signal", ia.Name)
	assert.Equal(t, TypeInteraction, ia.Type)
	assert.Equal(t, ia.PK, ia.HistoryPK)
	require.Len(t, ia.Parameters.Items, 5)
	assert.Equal(t, "Param1", ia.Parameters.Items[0].Name)
	assert.Equal(t, DefinitionType, ia.Parameters.Items[0].DefinitionType)
	assert.Equal(t, UseType, ia.Parameters.Items[0].UseType)
	assert.Empty(t, ia.CallSequence.Calls)
}

func TestBuildTestCase(t *testing.T) {
	result := convert(t)
	tc := BuildTestCase(result.TestCase)

	assert.Equal(t, "Generated Test Case", tc.Name)
	assert.Equal(t, 1024, tc.OrderPos)
	assert.True(t, strings.HasPrefix(tc.UID, "iTB-TC-"))
	require.Len(t, tc.Specification.ParameterCombinations, 1)
	assert.True(t, strings.HasPrefix(tc.Specification.ParameterCombinations[0].UID, tc.UID+"-PC-"))
	assert.Equal(t, StatusSpecified, tc.Specification.Details.Status)
	assert.Equal(t, StatusAutomated, tc.Automation.Details.Status)
	assert.Equal(t, "Lamp on", tc.Specification.Description)
	assert.Equal(t, "<html><body><p>Lamp on</p></body></html>", tc.Specification.HTMLDescription)

	interaction := tc.Specification.Interaction
	assert.Empty(t, interaction.Type)
	assert.Equal(t, TestCaseInteractionName, interaction.Name)
	assert.Empty(t, interaction.Parameters.Items)

	var phases []string
	for _, call := range interaction.CallSequence.Calls {
		phases = append(phases, call.Phase)
		assert.Len(t, call.ParameterValues.Items, 5)
	}
	assert.Equal(t, []string{"Setup", "TestStep", "Teardown"}, phases)

	out := encode(t, tc)
	assert.Contains(t, out, "<interaction>\n")
	assert.Contains(t, out, `<call-parameter default_value="false" type="representative">`)
	assert.Contains(t, out, "<phase>TestStep</phase>")
}

func TestRenderDescription(t *testing.T) {
	assert.Equal(t, EmptyHTML, RenderDescription(nil))
	got := RenderDescription([]string{"First step", "Second *step*"})
	assert.Equal(t, "<html><body><p>First step</p>\n\n<p>Second <em>step</em></p></body></html>", got)
}

const sampleDump = `<?xml version="1.0" encoding="UTF-8"?>
<project-dump version="5">
  <settings><name>Demo</name></settings>
  <test-elements>
    <element type="subdivision"><pk>1</pk><name>Old</name></element>
  </test-elements>
  <testcases>
    <children><testcase><pk>2</pk></testcase></children>
  </testcases>
  <test-elements><element type="subdivision"><pk>3</pk></element></test-elements>
</project-dump>
`

func splice(t *testing.T, dump string) (string, *SpliceReport, error) {
	t.Helper()
	result := convert(t)
	var out bytes.Buffer
	report, err := Splice(strings.NewReader(dump), BuildTestElements(result.Graph), BuildTestCase(result.TestCase), &out)
	return out.String(), report, err
}

func TestSpliceReplacesSections(t *testing.T) {
	out, report, err := splice(t, sampleDump)
	require.NoError(t, err)

	assert.Equal(t, 2, report.ReplacedTestElements)
	assert.True(t, report.ChildrenReplaced)
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"+`<project-dump version="5">`))
	assert.Contains(t, out, "<settings><name>Demo</name></settings>")
	assert.NotContains(t, out, "<name>Old</name>")
	assert.NotContains(t, out, "<pk>2</pk>")
	assert.NotContains(t, out, "<pk>3</pk>")
	assert.Equal(t, 1, strings.Count(out, "<test-elements>"))
	assert.Equal(t, 1, strings.Count(out, "<testcase>"))

	check, err := Check(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1, check.TestElements)
	assert.NotZero(t, check.References)
	assert.Empty(t, check.Dangling)
}

func TestSpliceSelfClosingChildren(t *testing.T) {
	dump := `<project><test-elements/><folder><children kind="tests" /></folder></project>`
	out, _, err := splice(t, dump)
	require.NoError(t, err)

	assert.Contains(t, out, `<children kind="tests">`+"\n<testcase>")
	assert.True(t, strings.HasSuffix(out, "</testcase>\n</children></folder></project>"))
	_, err = Check(strings.NewReader(out))
	assert.NoError(t, err)
}

func TestSpliceMissingInsertionPoints(t *testing.T) {
	var buf bytes.Buffer
	_, err := Splice(strings.NewReader(`<project><test-elements/></project>`), &TestElements{}, &TestCaseElement{}, &buf)
	assert.ErrorIs(t, err, core.ErrMissingInsertionPoint)
	assert.Contains(t, err.Error(), "<children>")
	assert.Zero(t, buf.Len(), "nothing is written on failure")

	_, err = Splice(strings.NewReader(`<project><children/></project>`), &TestElements{}, &TestCaseElement{}, &buf)
	assert.ErrorIs(t, err, core.ErrMissingInsertionPoint)
	assert.Contains(t, err.Error(), "<test-elements>")

	_, err = Splice(strings.NewReader(`<project><children></project>`), &TestElements{}, &TestCaseElement{}, &buf)
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
}

func TestCheckReportsDanglingReferences(t *testing.T) {
	doc := `<root><test-elements><element><pk>10</pk></element></test-elements>
<call><interaction-ref pk="10"/><representative-ref pk="99"/></call></root>`

	report, err := Check(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, report.References)
	assert.Equal(t, []DanglingRef{{Element: "representative-ref", PK: "99"}}, report.Dangling)
}

func TestCheckRejectsWrongTestElementCount(t *testing.T) {
	_, err := Check(strings.NewReader(`<root/>`))
	assert.ErrorIs(t, err, core.ErrMalformedDocument)

	_, err = Check(strings.NewReader(`<root><test-elements/><test-elements/></root>`))
	assert.ErrorIs(t, err, core.ErrMalformedDocument)

	_, err = Check(strings.NewReader(`<root><test-elements>`))
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
}
