// Package markup extracts operation calls, parameters and free-text
// descriptions from the markup written into test case cells:
//
//	#op[Name](arg, arg, ...)   operation call
//	#p[text]                   parameter marker
//	[text]                     free-text description
package markup

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"tcdump/domain/testmodel"
	"tcdump/internal"
)

// MinArity is the width every call's argument list is padded to
const MinArity = 5

var (
	opPattern          = regexp.MustCompile(`#op\[(.*?)\]\((.*?)\)`)
	paramPattern       = regexp.MustCompile(`#p\[(.*?)\]`)
	descriptionPattern = regexp.MustCompile(`\[(.*?)\]`)
	argSeparator       = regexp.MustCompile(`,\s*`)
)

// Location identifies the cell being parsed, for log context
type Location struct {
	Row    int
	Column string
}

func (l Location) String() string {
	return fmt.Sprintf("row %d, column %s", l.Row, l.Column)
}

// Parser extracts calls from cell text
type Parser struct {
	logger *internal.Logger
}

// NewParser creates a parser logging unrecognized values to logger
func NewParser(logger *internal.Logger) *Parser {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Parser{logger: logger}
}

// ParseCell extracts descriptions and calls from text and records every
// categorized non-empty argument in inv. Blank text yields an empty result.
func (p *Parser) ParseCell(loc Location, text string, inv *Inventory) testmodel.CellMarkup {
	var result testmodel.CellMarkup
	if strings.TrimSpace(text) == "" {
		return result
	}

	for _, m := range paramPattern.FindAllStringSubmatch(text, -1) {
		result.Parameters = append(result.Parameters, m[1])
	}

	for _, m := range descriptionPattern.FindAllStringSubmatch(text, -1) {
		inner := m[1]
		if utf8.RuneCountInString(inner) <= 1 {
			continue
		}
		if strings.Contains(text, "#op["+inner+"]") || strings.Contains(text, "#p["+inner+"]") {
			continue
		}
		result.Descriptions = append(result.Descriptions, inner)
	}

	for _, m := range opPattern.FindAllStringSubmatch(text, -1) {
		result.Calls = append(result.Calls, p.parseCall(loc, m[1], m[2], inv))
	}

	p.logger.Trace("%s: %d calls, %d descriptions", loc, len(result.Calls), len(result.Descriptions))
	return result
}

func (p *Parser) parseCall(loc Location, operation, args string, inv *Inventory) testmodel.OperationCall {
	unwrapped := paramPattern.ReplaceAllString(args, "$1")

	call := testmodel.OperationCall{Operation: operation}
	for _, arg := range argSeparator.Split(unwrapped, -1) {
		arg = strings.TrimSpace(arg)
		if testmodel.DisplayName(arg) == "" {
			call.Values = append(call.Values, testmodel.EmptyValue())
			continue
		}
		category, recognized := Classify(arg)
		if !recognized {
			p.logger.Warn("unrecognized parameter value %q in operation %q (%s), using %s",
				arg, operation, loc, category)
		}
		v := testmodel.ParameterValue{Raw: arg, Category: category}
		if inv != nil {
			inv.Add(v)
		}
		call.Values = append(call.Values, v)
	}

	for len(call.Values) < MinArity {
		call.Values = append(call.Values, testmodel.EmptyValue())
	}
	return call
}
