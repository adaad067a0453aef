package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tcdump/domain/testmodel"
	"tcdump/internal"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		value    string
		expected testmodel.Category
	}{
		{"123", testmodel.CategoryNumeric},
		{"45.67", testmodel.CategoryNumeric},
		{"0", testmodel.CategoryNumeric},
		{`"A2"`, testmodel.CategoryText},
		{`"TV_Signal1"`, testmodel.CategoryText},
		{"10 sec", testmodel.CategoryText},
		{"3 min", testmodel.CategoryText},
		{`"=="`, testmodel.CategoryComparison},
		{`"!="`, testmodel.CategoryComparison},
		{`">="`, testmodel.CategoryComparison},
		{`"<="`, testmodel.CategoryComparison},
		{`">"`, testmodel.CategoryComparison},
		{`"<"`, testmodel.CategoryComparison},
		{"", testmodel.CategoryEmpty},
		{"   ", testmodel.CategoryEmpty},
		{`"free text"`, testmodel.CategoryText},
		{"-1", testmodel.CategoryText},
		{">=", testmodel.CategoryText},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Categorize(test.value), "value %q", test.value)
	}
}

func TestClassifyReportsFallback(t *testing.T) {
	_, recognized := Classify(`"A2"`)
	assert.True(t, recognized)

	category, recognized := Classify("whatever")
	assert.Equal(t, testmodel.CategoryText, category)
	assert.False(t, recognized)
}

func TestParseCellExtractsOperationsAndDescriptions(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())
	inv := NewInventory()

	result := parser.ParseCell(Location{Row: 0, Column: "Precondition"},
		"#op[Set_Step_Precondition](#p[1]) [Testvorbedingung] [Betriebszustand]", inv)

	assert.Equal(t, []string{"Testvorbedingung", "Betriebszustand"}, result.Descriptions)
	require.Len(t, result.Calls, 1)
	assert.Equal(t, "Set_Step_Precondition", result.Calls[0].Operation)
	assert.Equal(t, []string{"1"}, result.Parameters)
	assert.True(t, inv.Contains(testmodel.CategoryNumeric, "1"))
}

func TestParseCellPadsToMinArity(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())
	inv := NewInventory()

	result := parser.ParseCell(Location{Row: 2, Column: "Action"}, `#op[Set_Signal](#p[1],"A2")`, inv)

	require.Len(t, result.Calls, 1)
	values := result.Calls[0].Values
	require.Len(t, values, MinArity)
	assert.Equal(t, testmodel.ParameterValue{Raw: "1", Category: testmodel.CategoryNumeric}, values[0])
	assert.Equal(t, testmodel.ParameterValue{Raw: `"A2"`, Category: testmodel.CategoryText}, values[1])
	for _, v := range values[2:] {
		assert.Equal(t, testmodel.EmptyValue(), v)
	}
	assert.Empty(t, result.Descriptions)
}

func TestParseCellKeepsLongArgumentLists(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())

	result := parser.ParseCell(Location{}, "#op[Many](1, 2, 3, 4, 5, 6, 7)", NewInventory())

	require.Len(t, result.Calls, 1)
	assert.Len(t, result.Calls[0].Values, 7)
}

func TestParseCellEmptyArguments(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())
	inv := NewInventory()

	result := parser.ParseCell(Location{}, `#op[Start]() then #op[Wait](, "TV_Wait")`, inv)

	require.Len(t, result.Calls, 2)
	assert.Equal(t, "Start", result.Calls[0].Operation)
	for _, v := range result.Calls[0].Values {
		assert.Equal(t, testmodel.CategoryEmpty, v.Category)
	}
	assert.Equal(t, testmodel.CategoryEmpty, result.Calls[1].Values[0].Category)
	assert.Equal(t, testmodel.CategoryText, result.Calls[1].Values[1].Category)
	assert.Equal(t, 1, inv.Len())
}

func TestParseCellQuotedBlankArgumentsAreEmpty(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())
	inv := NewInventory()

	result := parser.ParseCell(Location{}, `#op[X]("", "A2") #op[Y](")")`, inv)

	require.Len(t, result.Calls, 2)
	assert.Equal(t, testmodel.EmptyValue(), result.Calls[0].Values[0])
	assert.Equal(t, testmodel.CategoryText, result.Calls[0].Values[1].Category)
	assert.Equal(t, testmodel.EmptyValue(), result.Calls[1].Values[0])
	assert.Equal(t, []string{`"A2"`}, inv.Values(testmodel.CategoryText))
	assert.Equal(t, 1, inv.Len())
}

func TestParseCellBlankInput(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())
	inv := NewInventory()

	for _, text := range []string{"", "   ", "\n\t"} {
		result := parser.ParseCell(Location{}, text, inv)
		assert.True(t, result.IsEmpty(), "text %q", text)
	}
	assert.Zero(t, inv.Len())
}

func TestParseCellDropsShortAndMarkerDescriptions(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())

	result := parser.ParseCell(Location{}, "[x] #p[Speed] [Speed limit] #op[Go](#p[Speed])", NewInventory())

	assert.Equal(t, []string{"Speed limit"}, result.Descriptions)
	assert.Equal(t, []string{"Speed", "Speed"}, result.Parameters)
}

func TestParseCellCountsDescriptionLengthInCharacters(t *testing.T) {
	parser := NewParser(internal.NewNopLogger())

	result := parser.ParseCell(Location{}, "[ü] [°] [€] [x] [ab] [Öl]", NewInventory())

	assert.Equal(t, []string{"ab", "Öl"}, result.Descriptions)
}

func TestParseCellWarnsOnUnrecognizedValue(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	parser := NewParser(internal.NewLoggerWithCore(internal.LogLevelWarn, core))
	inv := NewInventory()

	result := parser.ParseCell(Location{Row: 4, Column: "Action"}, `#op[Say]("hello world")`, inv)

	require.Len(t, result.Calls, 1)
	assert.Equal(t, testmodel.CategoryText, result.Calls[0].Values[0].Category)
	assert.True(t, inv.Contains(testmodel.CategoryText, `"hello world"`))

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).AllUntimed()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, `"Say"`)
	assert.Contains(t, warnings[0].Message, "row 4, column Action")
}

func TestInventoryDeduplicates(t *testing.T) {
	inv := NewInventory()

	assert.True(t, inv.Add(testmodel.ParameterValue{Raw: `"A2"`, Category: testmodel.CategoryText}))
	assert.False(t, inv.Add(testmodel.ParameterValue{Raw: `"A2"`, Category: testmodel.CategoryText}))
	assert.True(t, inv.Add(testmodel.ParameterValue{Raw: "1", Category: testmodel.CategoryNumeric}))
	assert.False(t, inv.Add(testmodel.EmptyValue()))

	assert.Equal(t, []string{`"A2"`}, inv.Values(testmodel.CategoryText))
	assert.Equal(t, []testmodel.Category{testmodel.CategoryText, testmodel.CategoryNumeric}, inv.Categories())
	assert.Equal(t, 2, inv.Len())
}
