package ocr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestCheckImage(t *testing.T) {
	contentType, err := CheckImage(pngHeader, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = CheckImage(nil, 0)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = CheckImage([]byte("Alice 4 5 3"), 0)
	assert.ErrorContains(t, err, "unsupported image type")

	_, err = CheckImage(pngHeader, 4)
	assert.ErrorContains(t, err, "image too large")
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "card.png")
	require.NoError(t, os.WriteFile(good, pngHeader, 0o600))

	data, err := LoadImage(good, 1024)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	_, err = LoadImage(good, 4)
	assert.ErrorContains(t, err, "image too large")

	text := filepath.Join(dir, "card.txt")
	require.NoError(t, os.WriteFile(text, []byte("not an image"), 0o600))
	_, err = LoadImage(text, 1024)
	assert.ErrorContains(t, err, "unsupported image type")

	_, err = LoadImage(filepath.Join(dir, "missing.png"), 1024)
	assert.Error(t, err)
}
