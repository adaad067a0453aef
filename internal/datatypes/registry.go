// Package datatypes keeps the canonical datatype of every parameter category
// and the representatives each datatype collected during a run.
package datatypes

import (
	"tcdump/domain/core"
	"tcdump/domain/testmodel"
	"tcdump/internal"
	"tcdump/internal/markup"
	"tcdump/ports"
)

const (
	// AutoTextRepresentative is the default representative of the Text datatype
	AutoTextRepresentative = "Auto_Param_Text"
	// AutoNumericRepresentative is the default representative of the Numeric datatype
	AutoNumericRepresentative = "Auto_Param_Numeric"

	orderingStep = 1024
)

// ComparisonOperators are the fixed representatives of the Comparison datatype
var ComparisonOperators = []string{"==", "!=", ">=", "<=", ">", "<"}

// Registry holds one datatype per name. It is owned by a single conversion run.
type Registry struct {
	ids    ports.IDGenerator
	logger *internal.Logger
	order  []string
	byName map[string]*testmodel.Datatype

	unregistered int
}

// NewRegistry creates a registry seeded with the built-in datatypes
// Empty, Text, Numeric and Comparison.
func NewRegistry(ids ports.IDGenerator, logger *internal.Logger) *Registry {
	r := newBareRegistry(ids, logger)
	r.Register(string(testmodel.CategoryEmpty), "")
	r.Register(string(testmodel.CategoryText), AutoTextRepresentative)
	r.Register(string(testmodel.CategoryNumeric), AutoNumericRepresentative)
	r.Register(string(testmodel.CategoryComparison), ComparisonOperators...)
	return r
}

func newBareRegistry(ids ports.IDGenerator, logger *internal.Logger) *Registry {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Registry{
		ids:    ids,
		logger: logger,
		byName: make(map[string]*testmodel.Datatype),
	}
}

// Register returns the datatype called name, creating it on first use, and
// adds every value not yet present as a representative. Values are compared
// by display name (quotes and surrounding whitespace removed). Only Empty
// takes a representative with an empty display name.
func (r *Registry) Register(name string, values ...string) *testmodel.Datatype {
	dt, ok := r.byName[name]
	if !ok {
		id := r.ids.NewID()
		dt = &testmodel.Datatype{
			ID:      id,
			UID:     core.UID(core.PrefixDatatype, id),
			ClassID: r.ids.NewID(),
			Name:    name,
		}
		r.byName[name] = dt
		r.order = append(r.order, name)
		r.logger.Debug("registered datatype %s (%s)", name, id)
	}

	for _, raw := range values {
		repName := testmodel.DisplayName(raw)
		if repName == "" && name != string(testmodel.CategoryEmpty) {
			r.logger.Debug("skipping empty representative for %s", name)
			continue
		}
		if dt.Find(repName) != nil {
			continue
		}
		position := len(dt.Representatives) + 1
		dt.Representatives = append(dt.Representatives, &testmodel.Representative{
			ID:        r.ids.NewID(),
			Name:      repName,
			Ordering:  position * orderingStep,
			IsDefault: position == 1,
		})
	}
	return dt
}

// RegisterInventory adds every categorized value of inv to its category's datatype
func (r *Registry) RegisterInventory(inv *markup.Inventory) {
	for _, category := range inv.Categories() {
		r.Register(string(category), inv.Values(category)...)
	}
}

// Lookup returns the datatype called name
func (r *Registry) Lookup(name string) (*testmodel.Datatype, bool) {
	dt, ok := r.byName[name]
	return dt, ok
}

// Datatypes returns every datatype in registration order
func (r *Registry) Datatypes() []*testmodel.Datatype {
	datatypes := make([]*testmodel.Datatype, 0, len(r.order))
	for _, name := range r.order {
		datatypes = append(datatypes, r.byName[name])
	}
	return datatypes
}

// Representatives returns the number of representatives across all datatypes
func (r *Registry) Representatives() int {
	total := 0
	for _, dt := range r.byName {
		total += len(dt.Representatives)
	}
	return total
}

// Resolve maps a bound value to a representative id. A value missing from its
// category's datatype falls back to the empty representative of Empty. When that
// is missing too a fresh id is issued that no registered element carries; the
// document stays well-formed but the reference dangles.
func (r *Registry) Resolve(category testmodel.Category, raw string) (core.ID, testmodel.Resolution) {
	name := testmodel.DisplayName(raw)
	if dt, ok := r.byName[string(category)]; ok {
		if rep := dt.Find(name); rep != nil {
			return rep.ID, testmodel.ResolvedExact
		}
	}

	if empty, ok := r.byName[string(testmodel.CategoryEmpty)]; ok {
		if rep := empty.Find(""); rep != nil {
			if category != testmodel.CategoryEmpty {
				r.logger.Debug("no %s representative %q, using the empty representative", category, name)
			}
			return rep.ID, testmodel.ResolvedEmptyFallback
		}
	}

	r.unregistered++
	id := r.ids.NewID()
	r.logger.Warn("no representative for %s value %q and no empty representative; issuing unregistered id %s",
		category, name, id)
	return id, testmodel.ResolvedUnregistered
}

// Unregistered returns how many unregistered ids Resolve issued
func (r *Registry) Unregistered() int {
	return r.unregistered
}
