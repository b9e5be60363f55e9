package value

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
)

// EncodeJSON renders v as compact JSON. Map keys are written in insertion
// order, so encoding is deterministic.
func EncodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJSONIndent renders v with the given indent unit, matching the
// aggregate-document output format.
func EncodeJSONIndent(v Value, indent string) ([]byte, error) {
	compact, err := EncodeJSON(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case Null:
		buf.WriteString("null")
	case Scalar:
		if t.Type == TypeString {
			quoted, err := json.Marshal(t.Raw)
			if err != nil {
				return err
			}
			buf.Write(quoted)
		} else {
			// Numbers and booleans carry their JSON literal in Raw.
			buf.WriteString(t.Raw)
		}
	case List:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		buf.WriteByte('{')
		for i, key := range t.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			quoted, err := json.Marshal(key)
			if err != nil {
				return err
			}
			buf.Write(quoted)
			buf.WriteByte(':')
			entry, _ := t.Get(key)
			if err := writeJSON(buf, entry); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case nil:
		return fmt.Errorf("cannot encode nil Value")
	default:
		return fmt.Errorf("cannot encode unknown value kind %v", v.Kind())
	}
	return nil
}

// DecodeJSON parses a JSON document into a Value. Object key order is
// preserved as it appears in the document; numbers keep their literal text.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	// Trailing garbage after the document is an error.
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON document")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case string:
		return Str(t), nil
	case bool:
		if t {
			return Scalar{Raw: "true", Type: TypeBool}, nil
		}
		return Scalar{Raw: "false", Type: TypeBool}, nil
	case json.Number:
		raw := t.String()
		if strings.ContainsAny(raw, ".eE") {
			return Scalar{Raw: raw, Type: TypeFloat}, nil
		}
		return Scalar{Raw: raw, Type: TypeInt}, nil
	case json.Delim:
		switch t {
		case '[':
			list := List{}
			for dec.More() {
				elem, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, elem)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return list, nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				entry, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, entry)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}
