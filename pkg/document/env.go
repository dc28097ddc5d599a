package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/confctl/confctl/pkg/errors"
)

// DecodeEnv parses dotenv-style KEY=value text into a flat mapping of
// strings. Blank lines and lines starting with '#' are skipped, an optional
// "export " prefix is stripped, and single or double quotes around a value
// are removed. Lines without '=' are ignored.
func DecodeEnv(data []byte) (Value, error) {
	m := NewMapping()
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		m.Set(key, String(unquoteEnvValue(strings.TrimSpace(value))))
	}
	return Map(m), nil
}

func unquoteEnvValue(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// EncodeEnv serializes a flat mapping of scalars as KEY=value lines. The
// document root must be a mapping and every value must be a scalar; nested
// structure has no dotenv representation.
func EncodeEnv(v Value) ([]byte, error) {
	if v.Kind() != KindMapping {
		return nil, errors.SerializeError("env",
			fmt.Errorf("document root is %s, env output requires a mapping", v.Kind()))
	}

	var buf bytes.Buffer
	for _, entry := range v.AsMapping().Entries() {
		s, err := envScalarString(entry.Value)
		if err != nil {
			return nil, errors.SerializeError("env",
				fmt.Errorf("key %q: %w", entry.Key, err))
		}
		buf.WriteString(entry.Key)
		buf.WriteByte('=')
		buf.WriteString(s)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func envScalarString(v Value) (string, error) {
	switch v.Kind() {
	case KindNull:
		return "", nil
	case KindBool:
		return strconv.FormatBool(v.AsBool()), nil
	case KindInt:
		return strconv.FormatInt(v.AsInt(), 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.AsFloat(), 'g', -1, 64), nil
	case KindString:
		s := v.AsString()
		if strings.ContainsAny(s, " \t\n#\"'") {
			return strconv.Quote(s), nil
		}
		return s, nil
	default:
		return "", fmt.Errorf("%s values cannot be written to an env file", v.Kind())
	}
}
