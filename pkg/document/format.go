package document

import (
	"fmt"
	"path"
	"strings"

	"github.com/confctl/confctl/pkg/errors"
)

// Format identifies a document serialization format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatEnv  Format = "env"
	FormatHCL  Format = "hcl"
)

// DetectFormat maps a source reference to a format by its file extension.
// Any query string is stripped first, so URLs like
// "https://host/config.json?v=2" detect as JSON.
func DetectFormat(ref string) (Format, error) {
	trimmed := ref
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	ext := strings.ToLower(path.Ext(trimmed))
	switch ext {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".env":
		return FormatEnv, nil
	case ".hcl", ".tf":
		return FormatHCL, nil
	default:
		return "", errors.ParseError(ref,
			fmt.Errorf("unsupported document extension %q", ext))
	}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "env":
		return FormatEnv, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return "", errors.ValidationError(
			fmt.Sprintf("unknown format %q (expected yaml, json, env, or hcl)", name),
			map[string]interface{}{"format": name})
	}
}

// Decode parses data in the given format.
func Decode(data []byte, format Format, source string) (Value, error) {
	switch format {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatJSON:
		return DecodeJSON(data)
	case FormatEnv:
		return DecodeEnv(data)
	case FormatHCL:
		return DecodeHCL(data, source)
	default:
		return Value{}, errors.ValidationError(
			fmt.Sprintf("unknown format %q", format),
			map[string]interface{}{"format": string(format)})
	}
}

// Encode serializes a Value in the given output format. HCL is input-only.
func Encode(v Value, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return EncodeYAML(v)
	case FormatJSON:
		return EncodeJSONIndent(v)
	case FormatEnv:
		return EncodeEnv(v)
	default:
		return nil, errors.SerializeError(string(format),
			fmt.Errorf("no encoder for format %q", format))
	}
}
