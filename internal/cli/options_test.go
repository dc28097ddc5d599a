package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confctl/confctl/pkg/document"
)

func sampleDoc(t *testing.T) document.Value {
	t.Helper()
	v, err := document.DecodeJSON([]byte(`{"name": "api", "port": 8080}`))
	require.NoError(t, err)
	return v
}

func TestWriteDocument_FormatFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")

	require.NoError(t, writeDocument(&cobra.Command{}, sampleDoc(t), path, "auto"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: api\nport: 8080\n", string(data))
}

func TestWriteDocument_UnknownExtensionDefaultsToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.conf")

	require.NoError(t, writeDocument(&cobra.Command{}, sampleDoc(t), path, "auto"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"api\",\n  \"port\": 8080\n}\n", string(data))
}

func TestWriteDocument_ExplicitFormatWinsOverExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yml")

	require.NoError(t, writeDocument(&cobra.Command{}, sampleDoc(t), path, "json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"api\",\n  \"port\": 8080\n}\n", string(data))
}

func TestWriteDocument_UnknownFormatRejected(t *testing.T) {
	err := writeDocument(&cobra.Command{}, sampleDoc(t), "", "toml")
	assert.Error(t, err)
}
