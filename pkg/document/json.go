package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/confctl/confctl/pkg/errors"
)

// DecodeJSON parses a JSON document into a Value. It walks the token stream
// rather than unmarshalling into map[string]any, so object key order is
// preserved and numbers keep their integer/float distinction.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return Value{}, errors.ParseError("json document", err)
	}
	if dec.More() {
		return Value{}, errors.ParseError("json document",
			fmt.Errorf("trailing content after top-level value"))
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return jsonNumberToValue(t)
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (Value, error) {
	m := NewMapping()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
		}
		if m.Has(key) {
			return Value{}, fmt.Errorf("duplicate object key %q", key)
		}
		val, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		m.Set(key, val)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Map(m), nil
}

func decodeJSONArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		val, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, val)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Seq(elems...), nil
}

func jsonNumberToValue(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}

// EncodeJSON serializes a Value as compact JSON with object keys in mapping
// order. The output round-trips through DecodeJSON to an Equal value.
func EncodeJSON(v Value) ([]byte, error) {
	return encodeJSON(v, false)
}

// EncodeJSONIndent serializes a Value as 2-space-indented JSON.
func EncodeJSONIndent(v Value) ([]byte, error) {
	return encodeJSON(v, true)
}

func encodeJSON(v Value, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONValue(&buf, v, indent, 0); err != nil {
		return nil, errors.SerializeError("json", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v Value, indent bool, depth int) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.AsBool()))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case KindFloat:
		return writeJSONFloat(buf, v.AsFloat())
	case KindString:
		return writeJSONString(buf, v.AsString())
	case KindSequence:
		return writeJSONSequence(buf, v.Sequence(), indent, depth)
	case KindMapping:
		return writeJSONMapping(buf, v.AsMapping(), indent, depth)
	}
	return nil
}

func writeJSONFloat(buf *bytes.Buffer, f float64) error {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, "IN") {
		// JSON has no representation for Inf or NaN.
		return fmt.Errorf("cannot encode %s as JSON", s)
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	buf.WriteString(s)
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	quoted, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(quoted)
	return nil
}

func writeJSONSequence(buf *bytes.Buffer, elems []Value, indent bool, depth int) error {
	if len(elems) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteByte('[')
	for i, elem := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONNewline(buf, indent, depth+1)
		if err := writeJSONValue(buf, elem, indent, depth+1); err != nil {
			return err
		}
	}
	writeJSONNewline(buf, indent, depth)
	buf.WriteByte(']')
	return nil
}

func writeJSONMapping(buf *bytes.Buffer, m *Mapping, indent bool, depth int) error {
	if m.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for i, entry := range m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeJSONNewline(buf, indent, depth+1)
		if err := writeJSONString(buf, entry.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if indent {
			buf.WriteByte(' ')
		}
		if err := writeJSONValue(buf, entry.Value, indent, depth+1); err != nil {
			return err
		}
	}
	writeJSONNewline(buf, indent, depth)
	buf.WriteByte('}')
	return nil
}

func writeJSONNewline(buf *bytes.Buffer, indent bool, depth int) {
	if !indent {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
