package xmldump

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"tcdump/domain/core"
)

// DanglingRef is a reference whose pk no element in the document defines
type DanglingRef struct {
	Element string
	PK      string
}

// CheckReport summarizes a structural check of a project dump
type CheckReport struct {
	TestElements int
	Elements     int // <pk> definitions
	References   int
	Dangling     []DanglingRef
}

// Check re-parses a project dump and verifies it holds exactly one
// <test-elements> node. References (elements named *-ref) whose pk is not
// defined anywhere are reported, not rejected.
func Check(r io.Reader) (*CheckReport, error) {
	report := &CheckReport{}
	defined := make(map[string]bool)
	var refs []DanglingRef

	dec := xml.NewDecoder(r)
	var inPK bool
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == testElementsTag:
				report.TestElements++
			case t.Name.Local == "pk":
				inPK = true
				text.Reset()
			case strings.HasSuffix(t.Name.Local, "-ref"):
				for _, attr := range t.Attr {
					if attr.Name.Local == "pk" {
						refs = append(refs, DanglingRef{Element: t.Name.Local, PK: attr.Value})
					}
				}
			}
		case xml.CharData:
			if inPK {
				text.Write(t)
			}
		case xml.EndElement:
			if inPK && t.Name.Local == "pk" {
				defined[strings.TrimSpace(text.String())] = true
				report.Elements++
				inPK = false
			}
		}
	}

	if report.TestElements != 1 {
		return report, fmt.Errorf("%w: expected one <%s>, found %d",
			core.ErrMalformedDocument, testElementsTag, report.TestElements)
	}

	report.References = len(refs)
	for _, ref := range refs {
		if !defined[ref.PK] {
			report.Dangling = append(report.Dangling, ref)
		}
	}
	return report, nil
}
