// Package xmltree turns markup elements into value trees. It intentionally
// preserves the source format's cardinality ambiguity: a tag appearing once
// becomes a single nested value, a tag appearing twice becomes a list. Later
// pipeline stages are responsible for making that shape uniform.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/leafbio/consist/pkg/value"
)

// Sentinel errors for missing root metadata. Both attributes are required
// before any record is processed because they name the output artifacts.
var (
	ErrMissingVersion    = errors.New("root element is missing the version attribute")
	ErrMissingExportDate = errors.New("root element is missing the exported-on attribute")
)

// Attr is one attribute of a source element.
type Attr struct {
	Name  string
	Value string
}

// Element is a namespace-stripped view of one markup element.
type Element struct {
	// Name is the tag's local name, possibly still containing hyphens.
	Name string
	// Attrs in source order.
	Attrs []Attr
	// Text is the direct text content before the first child element.
	Text string
	// Children in source document order.
	Children []*Element
}

// Document is a parsed export file: the root metadata plus one value tree
// per record element.
type Document struct {
	Version    string
	ExportedOn string
	Records    []value.Value
}

// NormalizeName strips any namespace prefix and replaces hyphens with
// underscores so the same logical field never appears under two spellings.
func NormalizeName(name string) string {
	if i := strings.LastIndex(name, "}"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Build converts one element into a Value:
//
//   - non-whitespace text with no attributes and no children -> Scalar
//   - otherwise a Map of text (when attributes or children are also present),
//     attributes, and children grouped by normalized tag; a tag with more
//     than one occurrence becomes a List, a single occurrence stays unwrapped
//   - a fully empty element -> Null
//
// The single-occurrence rule is deliberate: it mirrors the ambiguity of the
// source format and must not be corrected here.
func Build(el *Element) value.Value {
	text := strings.TrimSpace(el.Text)
	if text != "" && len(el.Attrs) == 0 && len(el.Children) == 0 {
		return value.Str(text)
	}

	m := value.NewMap()
	if text != "" {
		m.Set("text", value.Str(text))
	}
	for _, attr := range el.Attrs {
		m.Set(NormalizeName(attr.Name), value.Str(attr.Value))
	}

	grouped := value.NewMap()
	for _, child := range el.Children {
		key := NormalizeName(child.Name)
		built := Build(child)
		if existing, ok := grouped.Get(key); ok {
			grouped.Set(key, append(existing.(value.List), built))
		} else {
			grouped.Set(key, value.List{built})
		}
	}
	for _, key := range grouped.Keys() {
		group, _ := grouped.Get(key)
		list := group.(value.List)
		if len(list) > 1 {
			m.Set(key, list)
		} else {
			m.Set(key, list[0])
		}
	}

	if m.Len() == 0 {
		return value.Null{}
	}
	return m
}

// ParseDocument reads a full export from r, building one value tree per
// element named recordTag directly under the root. The root's version and
// exported-on attributes are validated before any record is touched.
func ParseDocument(r io.Reader, recordTag string) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{}
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading document: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			sawRoot = true
			for _, attr := range start.Attr {
				switch attr.Name.Local {
				case "version":
					doc.Version = attr.Value
				case "exported-on":
					doc.ExportedOn = attr.Value
				}
			}
			if doc.Version == "" {
				return nil, ErrMissingVersion
			}
			if doc.ExportedOn == "" {
				return nil, ErrMissingExportDate
			}
			continue
		}

		if NormalizeName(start.Name.Local) != NormalizeName(recordTag) {
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("skipping %s element: %w", start.Name.Local, err)
			}
			continue
		}

		el, err := readElement(dec, start)
		if err != nil {
			return nil, fmt.Errorf("reading %s element %d: %w", recordTag, len(doc.Records)+1, err)
		}
		doc.Records = append(doc.Records, Build(el))
	}

	if !sawRoot {
		return nil, fmt.Errorf("document has no root element")
	}
	return doc, nil
}

// readElement consumes the subtree opened by start and returns it as an
// Element tree. Only text before the first child is kept as direct text,
// matching how the value model treats mixed content.
func readElement(dec *xml.Decoder, start xml.StartElement) (*Element, error) {
	el := &Element{Name: start.Name.Local}
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		el.Attrs = append(el.Attrs, Attr{Name: attr.Name.Local, Value: attr.Value})
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := readElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case xml.CharData:
			if len(el.Children) == 0 {
				el.Text += string(t)
			}
		case xml.EndElement:
			return el, nil
		}
	}
}
