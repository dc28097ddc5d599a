package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		ref  string
		want Format
	}{
		{"config.yml", FormatYAML},
		{"config.yaml", FormatYAML},
		{"/etc/app/config.JSON", FormatJSON},
		{".env", FormatEnv},
		{"main.tf", FormatHCL},
		{"vars.hcl", FormatHCL},
		{"https://host/path/config.json?v=2", FormatJSON},
	}

	for _, tt := range tests {
		got, err := DetectFormat(tt.ref)
		require.NoError(t, err, tt.ref)
		assert.Equal(t, tt.want, got, tt.ref)
	}
}

func TestDetectFormat_UnknownExtension(t *testing.T) {
	_, err := DetectFormat("config.toml")
	assert.Error(t, err)

	_, err = DetectFormat("no-extension")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"yaml": FormatYAML,
		"yml":  FormatYAML,
		"YAML": FormatYAML,
		"json": FormatJSON,
		"env":  FormatEnv,
		"hcl":  FormatHCL,
	} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseFormat("toml")
	assert.Error(t, err)
}

func TestDecode_DispatchesByFormat(t *testing.T) {
	v, err := Decode([]byte("a: 1"), FormatYAML, "inline")
	require.NoError(t, err)
	assert.Equal(t, KindMapping, v.Kind())

	v, err = Decode([]byte(`{"a": 1}`), FormatJSON, "inline")
	require.NoError(t, err)
	assert.Equal(t, KindMapping, v.Kind())

	v, err = Decode([]byte("A=1"), FormatEnv, "inline")
	require.NoError(t, err)
	assert.Equal(t, KindMapping, v.Kind())

	_, err = Decode([]byte("a: 1"), Format("toml"), "inline")
	assert.Error(t, err)
}

func TestEncode_HCLUnsupported(t *testing.T) {
	_, err := Encode(Map(NewMapping()), FormatHCL)
	assert.Error(t, err)
}
