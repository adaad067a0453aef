// Package inventory writes the per-row extraction inventory of a conversion
// run as JSON: one "Row_<n>" entry per spreadsheet row followed by the
// distinct values of every category under "Generated_Parameters".
package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tcdump/domain/testmodel"
	"tcdump/internal"
)

// GeneratedParametersKey names the category inventory entry
const GeneratedParametersKey = "Generated_Parameters"

// ValueInventory lists the distinct values seen per category
type ValueInventory interface {
	Categories() []testmodel.Category
	Values(category testmodel.Category) []string
}

// field is one member of an ordered JSON object
type field struct {
	key   string
	value any
}

// object marshals its fields in insertion order
type object []field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(f.key)
		if err != nil {
			return nil, err
		}
		value, err := marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without escaping markup characters such as < and >
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Build arranges rows and the value inventory in output order
func Build(rows []testmodel.RowRecord, inv ValueInventory) any {
	doc := make(object, 0, len(rows)+1)
	for _, row := range rows {
		sections := object{}
		for _, section := range testmodel.Sections {
			cell, ok := row.Sections[section]
			if !ok {
				continue
			}
			descriptions := cell.Descriptions
			if descriptions == nil {
				descriptions = []string{}
			}
			calls := cell.Calls
			if calls == nil {
				calls = []testmodel.OperationCall{}
			}
			sections = append(sections, field{string(section), object{
				{"Descriptions", descriptions},
				{"Operations", calls},
			}})
		}
		calls := row.Calls
		if calls == nil {
			calls = []testmodel.OperationCall{}
		}
		doc = append(doc, field{fmt.Sprintf("Row_%d", row.Index), object{
			{"test-elements", sections},
			{"testcase", calls},
		}})
	}

	params := object{}
	if inv != nil {
		for _, category := range inv.Categories() {
			params = append(params, field{string(category), inv.Values(category)})
		}
	}
	return append(doc, field{GeneratedParametersKey, params})
}

// Write encodes the inventory with four-space indentation
func Write(w io.Writer, rows []testmodel.RowRecord, inv ValueInventory) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(Build(rows, inv)); err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	return nil
}

// WriteFile writes the inventory of a conversion run to path
func WriteFile(path string, rows []testmodel.RowRecord, inv ValueInventory, logger *internal.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := Write(f, rows, inv); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	logger.Info("JSON inventory saved at: %s", path)
	return nil
}
