package build

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecompressor(t *testing.T) {
	fsys := afero.NewMemMapFs()
	p := NewPrecompressor(fsys)
	data := []byte(strings.Repeat("body{margin:0}", 100))

	size, err := p.Compress("build/styles/main.css", data)
	require.NoError(t, err)
	assert.Less(t, size, int64(len(data)))

	compressed, err := afero.ReadFile(fsys, "build/styles/main.css.br")
	require.NoError(t, err)
	assert.Equal(t, int64(len(compressed)), size)

	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(compressed)))
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestPrecompressorSkipsEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()

	size, err := NewPrecompressor(fsys).Compress("build/empty.html", nil)
	require.NoError(t, err)
	assert.Zero(t, size)

	exists, err := afero.Exists(fsys, "build/empty.html.br")
	require.NoError(t, err)
	assert.False(t, exists)
}
