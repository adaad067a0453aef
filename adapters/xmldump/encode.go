package xmldump

import (
	"encoding/xml"
	"fmt"
	"io"
)

const indent = "  "

// Encode writes v as an indented XML document with a declaration
func Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %T: %w", v, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// marshalFragment renders v as an indented fragment without declaration
func marshalFragment(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return out, nil
}
