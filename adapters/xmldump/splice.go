package xmldump

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"

	"tcdump/domain/core"
)

const (
	testElementsTag = "test-elements"
	childrenTag     = "children"
)

// edit replaces data[start:end] with text
type edit struct {
	start, end int64
	text       []byte
}

// SpliceReport describes what Splice changed
type SpliceReport struct {
	ReplacedTestElements int // <test-elements> subtrees found, the first replaced and the rest dropped
	ChildrenReplaced     bool
}

// Splice copies the project dump from dump to w, replacing the first
// <test-elements> subtree with elements, dropping any further <test-elements>
// and replacing the content of the first <children> node with testcase.
// Everything else is copied byte for byte. A dump without either insertion
// point is rejected and nothing is written.
func Splice(dump io.Reader, elements *TestElements, testcase *TestCaseElement, w io.Writer) (*SpliceReport, error) {
	data, err := io.ReadAll(dump)
	if err != nil {
		return nil, fmt.Errorf("failed to read project dump: %w", err)
	}

	elementsXML, err := marshalFragment(elements)
	if err != nil {
		return nil, err
	}
	testcaseXML, err := marshalFragment(testcase)
	if err != nil {
		return nil, err
	}

	edits, report, err := planEdits(data, elementsXML, testcaseXML)
	if err != nil {
		return nil, err
	}

	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var pos int64
	for _, e := range edits {
		if _, err := w.Write(data[pos:e.start]); err != nil {
			return nil, err
		}
		if _, err := w.Write(e.text); err != nil {
			return nil, err
		}
		pos = e.end
	}
	if _, err := w.Write(data[pos:]); err != nil {
		return nil, err
	}
	return report, nil
}

func planEdits(data, elementsXML, testcaseXML []byte) ([]edit, *SpliceReport, error) {
	report := &SpliceReport{}
	var edits []edit

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		after := dec.InputOffset()

		switch start.Name.Local {
		case testElementsTag:
			if err := dec.Skip(); err != nil {
				return nil, nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
			}
			text := []byte{}
			if report.ReplacedTestElements == 0 {
				text = elementsXML
			}
			edits = append(edits, edit{start: before, end: dec.InputOffset(), text: text})
			report.ReplacedTestElements++

		case childrenTag:
			if report.ChildrenReplaced {
				continue
			}
			e, err := childrenEdit(dec, data, before, after, testcaseXML)
			if err != nil {
				return nil, nil, err
			}
			edits = append(edits, e)
			report.ChildrenReplaced = true
		}
	}

	if report.ReplacedTestElements == 0 {
		return nil, nil, core.NewInsertionPointError(testElementsTag)
	}
	if !report.ChildrenReplaced {
		return nil, nil, core.NewInsertionPointError(childrenTag)
	}
	return edits, report, nil
}

// childrenEdit replaces the content of a <children> node, expanding a
// self-closing tag so its attributes survive.
func childrenEdit(dec *xml.Decoder, data []byte, before, after int64, content []byte) (edit, error) {
	startTag := data[before:after]
	if err := dec.Skip(); err != nil {
		return edit{}, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
	}
	end := dec.InputOffset()

	if bytes.HasSuffix(startTag, []byte("/>")) {
		open := bytes.TrimRight(startTag[:len(startTag)-2], " \t\r\n")
		var text bytes.Buffer
		text.Write(open)
		text.WriteString(">\n")
		text.Write(content)
		text.WriteString("\n</" + childrenTag + ">")
		return edit{start: before, end: end, text: text.Bytes()}, nil
	}

	closing := bytes.LastIndex(data[after:end], []byte("</"))
	if closing < 0 {
		return edit{}, fmt.Errorf("%w: unterminated <%s>", core.ErrMalformedDocument, childrenTag)
	}
	text := append(append([]byte("\n"), content...), '\n')
	return edit{start: after, end: after + int64(closing), text: text}, nil
}
