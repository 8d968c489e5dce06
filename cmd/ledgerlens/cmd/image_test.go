package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCommand_RequiresArgument(t *testing.T) {
	_, err := executeCommand(t, "image")
	require.Error(t, err)
}

func TestImageCommand_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	_, err := executeCommand(t, "image", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input file")
}

func TestImageCommand_UnsupportedLanguage(t *testing.T) {
	_, err := executeCommand(t, "image", "receipt.png", "--language", "klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestServeCommand_Registered(t *testing.T) {
	assert.NotNil(t, serveCmd)
	assert.Equal(t, "serve", serveCmd.Use)

	flags := []string{"host", "port", "cors-origin", "max-upload-size", "backend-url", "model-path"}
	for _, name := range flags {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}
