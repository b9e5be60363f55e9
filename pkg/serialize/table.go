package serialize

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/leafbio/consist/pkg/value"
)

// WriteTSV emits records as a tab-separated table over the intersection of
// field keys present in every record. Fields missing from any record are
// silently excluded; callers that need every field must use the JSON or
// JSONL format instead. Column order follows the first record's key order.
//
// Rows are written verbatim: the cell encoding already escapes every
// character that could collide with the delimiter or line terminator, so
// no csv-style quoting layer is added on top.
func WriteTSV(w io.Writer, records []value.Value) error {
	columns, err := commonFields(records)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(columns, "\t") + "\n"); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for i, rec := range records {
		m := rec.(*value.Map)
		for j, col := range columns {
			entry, _ := m.Get(col)
			cell, err := FormatCell(entry)
			if err != nil {
				return fmt.Errorf("record %d field %s: %w", i, col, err)
			}
			row[j] = cell
		}
		if _, err := bw.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// commonFields returns the keys present in every record, ordered as they
// appear in the first record.
func commonFields(records []value.Value) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	first, ok := records[0].(*value.Map)
	if !ok {
		return nil, fmt.Errorf("record 0 is not a map")
	}
	columns := make([]string, 0, first.Len())
	for _, key := range first.Keys() {
		inAll := true
		for _, rec := range records[1:] {
			m, ok := rec.(*value.Map)
			if !ok {
				return nil, fmt.Errorf("record is not a map")
			}
			if !m.Has(key) {
				inAll = false
				break
			}
		}
		if inAll {
			columns = append(columns, key)
		}
	}
	return columns, nil
}

// FormatCell encodes one value as a table cell: strings are double-quoted
// with backslash, newline, carriage-return, and tab escaped; lists become
// brace-delimited comma-joined literals of their encoded elements; maps
// become embedded compact JSON documents; null is the empty cell.
func FormatCell(v value.Value) (string, error) {
	switch t := v.(type) {
	case nil, value.Null:
		return "", nil
	case value.Scalar:
		if t.Type != value.TypeString {
			return t.Raw, nil
		}
		return `"` + escapeCell(t.Raw) + `"`, nil
	case value.List:
		parts := make([]string, len(t))
		for i, elem := range t {
			cell, err := FormatCell(elem)
			if err != nil {
				return "", err
			}
			parts[i] = cell
		}
		return "{" + strings.Join(parts, ",") + "}", nil
	case *value.Map:
		data, err := value.EncodeJSON(t)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unknown value kind %v", v.Kind())
}

var cellEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\n", "\\n",
	"\r", "\\r",
	"\t", "\\t",
)

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
