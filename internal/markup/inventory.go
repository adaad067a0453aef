package markup

import "tcdump/domain/testmodel"

// Inventory accumulates the distinct non-empty values seen per category
// across every scanned cell of a run.
type Inventory struct {
	values map[testmodel.Category][]string
	seen   map[testmodel.Category]map[string]bool
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{
		values: make(map[testmodel.Category][]string),
		seen:   make(map[testmodel.Category]map[string]bool),
	}
}

// Add records a value; empty values and repeats are ignored.
// It reports whether the value was new.
func (inv *Inventory) Add(v testmodel.ParameterValue) bool {
	if v.Category == testmodel.CategoryEmpty || v.Raw == "" {
		return false
	}
	seen, ok := inv.seen[v.Category]
	if !ok {
		seen = make(map[string]bool)
		inv.seen[v.Category] = seen
	}
	if seen[v.Raw] {
		return false
	}
	seen[v.Raw] = true
	inv.values[v.Category] = append(inv.values[v.Category], v.Raw)
	return true
}

// Values returns the raw values of a category in first-seen order
func (inv *Inventory) Values(category testmodel.Category) []string {
	return inv.values[category]
}

// Contains reports whether a raw value was recorded under the category
func (inv *Inventory) Contains(category testmodel.Category, raw string) bool {
	return inv.seen[category][raw]
}

// Categories returns the value categories holding at least one value
func (inv *Inventory) Categories() []testmodel.Category {
	if inv == nil {
		return nil
	}
	var categories []testmodel.Category
	for _, c := range testmodel.ValueCategories {
		if len(inv.values[c]) > 0 {
			categories = append(categories, c)
		}
	}
	return categories
}

// Len returns the number of recorded values across all categories
func (inv *Inventory) Len() int {
	total := 0
	for _, values := range inv.values {
		total += len(values)
	}
	return total
}
