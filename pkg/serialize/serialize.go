// Package serialize emits a normalized record list as an aggregate JSON
// document, a line-delimited JSON stream, or a delimited-text table with
// composite-value literal encoding.
package serialize

import (
	"fmt"
	"io"
	"strings"

	"github.com/leafbio/consist/pkg/value"
)

// Format selects an output encoding.
type Format string

const (
	// FormatJSON is one indented JSON array holding every record.
	FormatJSON Format = "json"
	// FormatJSONL is one compact, self-contained JSON object per line.
	FormatJSONL Format = "jsonl"
	// FormatTSV is a tab-separated table over the common-field intersection.
	FormatTSV Format = "tsv"
)

// ParseFormat validates a format selector.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatJSONL:
		return FormatJSONL, nil
	case FormatTSV:
		return FormatTSV, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, jsonl, or tsv)", s)
}

// Ext returns the file extension for the format, with leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Write emits records to w in the selected format.
func Write(w io.Writer, records []value.Value, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatJSONL:
		return WriteJSONL(w, records)
	case FormatTSV:
		return WriteTSV(w, records)
	}
	return fmt.Errorf("unknown output format %q", f)
}

// WriteJSON emits the full record list as one indented JSON array.
func WriteJSON(w io.Writer, records []value.Value) error {
	list := make(value.List, len(records))
	copy(list, records)
	data, err := value.EncodeJSONIndent(list, "    ")
	if err != nil {
		return fmt.Errorf("encoding record list: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// WriteJSONL emits one compact JSON object per line. Each line is
// independently parseable, so the stream is lazily consumable and
// restartable mid-stream.
func WriteJSONL(w io.Writer, records []value.Value) error {
	for i, rec := range records {
		data, err := value.EncodeJSON(rec)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}
