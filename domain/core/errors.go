package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lookup errors
	ErrNotFound           = errors.New("resource not found")
	ErrUnknownInteraction = fmt.Errorf("%w: interaction", ErrNotFound)
	ErrUnknownSection     = fmt.Errorf("%w: section", ErrNotFound)
	ErrUnknownDatatype    = fmt.Errorf("%w: datatype", ErrNotFound)

	// Structural errors
	ErrDuplicateNode         = errors.New("duplicate element node")
	ErrMissingInsertionPoint = errors.New("missing insertion point in project dump")
	ErrMalformedDocument     = errors.New("malformed document")

	// Input errors
	ErrEmptySheet       = errors.New("spreadsheet has no header row")
	ErrUnsupportedInput = errors.New("unsupported input file type")
)

// Error constructors with context
func NewNotFoundError(resource string, name string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, name)
}

// NewCallSiteError attaches call-site context to an error
func NewCallSiteError(err error, operation string, row int, column string) error {
	return fmt.Errorf("%w: operation %q (row %d, column %s)", err, operation, row, column)
}

func NewInsertionPointError(element string) error {
	return fmt.Errorf("%w: no <%s> element", ErrMissingInsertionPoint, element)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsStructureError(err error) bool {
	return errors.Is(err, ErrDuplicateNode) ||
		errors.Is(err, ErrMissingInsertionPoint) ||
		errors.Is(err, ErrMalformedDocument)
}
