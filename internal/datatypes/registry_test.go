package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tcdump/adapters/idgen"
	"tcdump/domain/core"
	"tcdump/domain/testmodel"
	"tcdump/internal"
	"tcdump/internal/markup"
)

// MockIDGenerator hands out scripted ids
type MockIDGenerator struct {
	mock.Mock
}

func (m *MockIDGenerator) NewID() core.ID {
	args := m.Called()
	return args.Get(0).(core.ID)
}

func (m *MockIDGenerator) NewSignature() string {
	args := m.Called()
	return args.String(0)
}

func newTestRegistry() *Registry {
	return NewRegistry(idgen.NewSequence(1000), internal.NewNopLogger())
}

func TestBuiltinDatatypes(t *testing.T) {
	reg := newTestRegistry()

	names := []string{}
	for _, dt := range reg.Datatypes() {
		names = append(names, dt.Name)
	}
	assert.Equal(t, []string{"Empty", "Text", "Numeric", "Comparison"}, names)

	empty, ok := reg.Lookup("Empty")
	require.True(t, ok)
	require.Len(t, empty.Representatives, 1)
	assert.Equal(t, "", empty.Representatives[0].Name)
	assert.True(t, empty.Representatives[0].IsDefault)

	text, _ := reg.Lookup("Text")
	assert.Equal(t, AutoTextRepresentative, text.Default().Name)

	numeric, _ := reg.Lookup("Numeric")
	assert.Equal(t, AutoNumericRepresentative, numeric.Default().Name)

	comparison, _ := reg.Lookup("Comparison")
	require.Len(t, comparison.Representatives, 6)
	for i, op := range ComparisonOperators {
		rep := comparison.Representatives[i]
		assert.Equal(t, op, rep.Name)
		assert.Equal(t, (i+1)*1024, rep.Ordering)
		assert.Equal(t, i == 0, rep.IsDefault)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	reg := newTestRegistry()

	first := reg.Register("Signal", `"A2"`, "A2", ` "A2" `)
	second := reg.Register("Signal", `"A2"`)

	assert.Same(t, first, second)
	require.Len(t, first.Representatives, 1)
	assert.Equal(t, "A2", first.Representatives[0].Name)
	assert.Equal(t, 1024, first.Representatives[0].Ordering)

	reg.Register("Signal", `"A3"`)
	require.Len(t, first.Representatives, 2)
	assert.Equal(t, 2048, first.Representatives[1].Ordering)
	assert.False(t, first.Representatives[1].IsDefault)
	assert.Equal(t, first.Representatives[0], first.Default())
}

func TestRegisterDerivesUIDFromID(t *testing.T) {
	ids := new(MockIDGenerator)
	ids.On("NewID").Return(core.ID("12345678901234567")).Once()
	ids.On("NewID").Return(core.ID("12345678901234568")).Once()
	ids.On("NewID").Return(core.ID("12345678901234569")).Once()

	reg := newBareRegistry(ids, internal.NewNopLogger())
	dt := reg.Register("Text", "only")

	assert.Equal(t, core.ID("12345678901234567"), dt.ID)
	assert.Equal(t, "iTB-DT-234567", dt.UID)
	assert.Equal(t, core.ID("12345678901234568"), dt.ClassID)
	assert.Equal(t, core.ID("12345678901234569"), dt.Representatives[0].ID)
	ids.AssertExpectations(t)
}

func TestRegisterInventory(t *testing.T) {
	reg := newTestRegistry()
	inv := markup.NewInventory()
	inv.Add(testmodel.ParameterValue{Raw: "1", Category: testmodel.CategoryNumeric})
	inv.Add(testmodel.ParameterValue{Raw: `"A2"`, Category: testmodel.CategoryText})
	inv.Add(testmodel.ParameterValue{Raw: `"TV_X"`, Category: testmodel.CategoryText})
	inv.Add(testmodel.ParameterValue{Raw: `">="`, Category: testmodel.CategoryComparison})

	reg.RegisterInventory(inv)

	text, _ := reg.Lookup("Text")
	assert.Equal(t, []string{AutoTextRepresentative, "A2", "TV_X"}, repNames(text))
	numeric, _ := reg.Lookup("Numeric")
	assert.Equal(t, []string{AutoNumericRepresentative, "1"}, repNames(numeric))
	comparison, _ := reg.Lookup("Comparison")
	assert.Len(t, comparison.Representatives, 6)
	assert.Len(t, reg.Datatypes(), 4)
	assert.Equal(t, 1+3+2+6, reg.Representatives())
}

func TestRegisterSkipsEmptyNamesOutsideEmpty(t *testing.T) {
	reg := newTestRegistry()
	inv := markup.NewInventory()
	inv.Add(testmodel.ParameterValue{Raw: `""`, Category: testmodel.CategoryText})
	inv.Add(testmodel.ParameterValue{Raw: `"`, Category: testmodel.CategoryText})
	inv.Add(testmodel.ParameterValue{Raw: `"A2"`, Category: testmodel.CategoryText})

	reg.RegisterInventory(inv)

	text, _ := reg.Lookup("Text")
	assert.Equal(t, []string{AutoTextRepresentative, "A2"}, repNames(text))
	empty, _ := reg.Lookup("Empty")
	assert.Equal(t, []string{""}, repNames(empty))

	id, resolution := reg.Resolve(testmodel.CategoryText, `""`)
	assert.Equal(t, empty.Representatives[0].ID, id)
	assert.Equal(t, testmodel.ResolvedEmptyFallback, resolution)
}

func TestResolve(t *testing.T) {
	reg := newTestRegistry()
	reg.Register("Text", `"A2"`)
	text, _ := reg.Lookup("Text")
	empty, _ := reg.Lookup("Empty")
	comparison, _ := reg.Lookup("Comparison")

	id, res := reg.Resolve(testmodel.CategoryText, `"A2"`)
	assert.Equal(t, text.Find("A2").ID, id)
	assert.Equal(t, testmodel.ResolvedExact, res)

	id, res = reg.Resolve(testmodel.CategoryComparison, `">="`)
	assert.Equal(t, comparison.Find(">=").ID, id)
	assert.Equal(t, testmodel.ResolvedExact, res)

	id, res = reg.Resolve(testmodel.CategoryEmpty, "")
	assert.Equal(t, empty.Representatives[0].ID, id)
	assert.Equal(t, testmodel.ResolvedExact, res)

	id, res = reg.Resolve(testmodel.CategoryText, `"never seen"`)
	assert.Equal(t, empty.Representatives[0].ID, id)
	assert.Equal(t, testmodel.ResolvedEmptyFallback, res)
	assert.Zero(t, reg.Unregistered())
}

func TestResolveWithoutEmptyDatatypeIssuesUnregisteredID(t *testing.T) {
	reg := newBareRegistry(idgen.NewSequence(1), internal.NewNopLogger())
	reg.Register("Text", "known")

	id, res := reg.Resolve(testmodel.CategoryNumeric, "7")

	assert.Equal(t, testmodel.ResolvedUnregistered, res)
	assert.False(t, id.IsEmpty())
	for _, dt := range reg.Datatypes() {
		assert.NotEqual(t, id, dt.ID)
		for _, rep := range dt.Representatives {
			assert.NotEqual(t, id, rep.ID)
		}
	}
	assert.Equal(t, 1, reg.Unregistered())
}

func repNames(dt *testmodel.Datatype) []string {
	names := make([]string, 0, len(dt.Representatives))
	for _, rep := range dt.Representatives {
		names = append(names, rep.Name)
	}
	return names
}
