package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "xray.PNG")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	noext := filepath.Join(dir, "scan")
	require.NoError(t, os.WriteFile(noext, []byte("GIF89a"), 0o600))

	imgs, err := LoadImages([]string{png, "/uploads/a.jpg", noext, "https://cdn/x.png"})
	require.NoError(t, err)
	require.Len(t, imgs, 4)

	assert.Equal(t, "xray.PNG", imgs[0].Name)
	assert.Equal(t, "image/png", imgs[0].ContentType)
	assert.NotEmpty(t, imgs[0].Data)

	assert.Equal(t, "/uploads/a.jpg", imgs[1].URL)
	assert.Empty(t, imgs[1].Data)

	assert.Equal(t, "image/gif", imgs[2].ContentType)
	assert.Equal(t, "https://cdn/x.png", imgs[3].URL)

	_, err = LoadImages([]string{filepath.Join(dir, "missing.png")})
	assert.Error(t, err)
}
