package document

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/confctl/confctl/pkg/errors"
)

// DecodeYAML parses a YAML document into a Value, preserving mapping key
// order and the integer/float distinction of the source text. Duplicate
// mapping keys are rejected. An empty document decodes to null.
func DecodeYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, errors.ParseError("yaml document", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return Null(), nil
	}
	v, err := yamlNodeToValue(root.Content[0])
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func yamlNodeToValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return yamlNodeToValue(node.Alias)

	case yaml.MappingNode:
		m := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, errors.ParseError("yaml document",
					fmt.Errorf("line %d: non-scalar mapping key", keyNode.Line))
			}
			key := keyNode.Value
			if m.Has(key) {
				return Value{}, errors.ParseError("yaml document",
					fmt.Errorf("line %d: duplicate mapping key %q", keyNode.Line, key))
			}
			val, err := yamlNodeToValue(valNode)
			if err != nil {
				return Value{}, err
			}
			m.Set(key, val)
		}
		return Map(m), nil

	case yaml.SequenceNode:
		elems := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			val, err := yamlNodeToValue(child)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, val)
		}
		return Seq(elems...), nil

	case yaml.ScalarNode:
		return yamlScalarToValue(node)

	default:
		return Value{}, errors.ParseError("yaml document",
			fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind))
	}
}

func yamlScalarToValue(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case "!!null", "":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, errors.ParseError("yaml document", err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Value{}, errors.ParseError("yaml document", err)
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, errors.ParseError("yaml document", err)
		}
		return Float(f), nil
	default:
		// Strings, timestamps, and any custom-tagged scalar keep their
		// literal text.
		return String(node.Value), nil
	}
}

// EncodeYAML serializes a Value as a YAML document with 2-space indentation.
// The output round-trips through DecodeYAML to an Equal value.
func EncodeYAML(v Value) ([]byte, error) {
	node := valueToYAMLNode(v)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, errors.SerializeError("yaml", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.SerializeError("yaml", err)
	}
	return buf.Bytes(), nil
}

func valueToYAMLNode(v Value) *yaml.Node {
	switch v.Kind() {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.AsBool())}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.AsInt(), 10)}
	case KindFloat:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatYAMLFloat(v.AsFloat())}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.AsString()}
	case KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v.Sequence() {
			node.Content = append(node.Content, valueToYAMLNode(elem))
		}
		return node
	case KindMapping:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, entry := range v.AsMapping().Entries() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Key},
				valueToYAMLNode(entry.Value))
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// formatYAMLFloat renders a float so that re-parsing resolves it back to
// !!float rather than !!int.
func formatYAMLFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
