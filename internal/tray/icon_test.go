package tray

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDefaultIcon(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(DefaultIcon()))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	r, g, b, a := img.At(10, 10).RGBA()
	assert.Equal(t, []uint32{0, 0, 0xffff, 0xffff}, []uint32{r, g, b, a})
}

func TestLoadIcon_FirstExisting(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.png")
	third := filepath.Join(dir, "third.png")
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o644))
	require.NoError(t, os.WriteFile(third, []byte("three"), 0o644))

	data, path := LoadIcon([]string{filepath.Join(dir, "missing.png"), second, third}, zaptest.NewLogger(t))
	assert.Equal(t, []byte("two"), data)
	assert.Equal(t, second, path)
}

func TestLoadIcon_Fallback(t *testing.T) {
	data, path := LoadIcon([]string{filepath.Join(t.TempDir(), "nope.png")}, zaptest.NewLogger(t))
	assert.Empty(t, path)
	assert.Equal(t, DefaultIcon(), data)
}

func TestIconCandidates(t *testing.T) {
	t.Setenv("SNAP", "/snap/x/1")
	paths := IconCandidates("/etc/netswitch/icon.png")

	require.NotEmpty(t, paths)
	assert.Equal(t, "/etc/netswitch/icon.png", paths[0])
	assert.Equal(t, "/usr/share/pixmaps/network-switcher.png", paths[1])
	assert.Contains(t, paths, "/snap/x/1/bin/network_icon.png")
	assert.Contains(t, paths, "/snap/network-switcher/current/bin/network_icon.png")

	t.Setenv("SNAP", "")
	assert.NotContains(t, IconCandidates(""), "/snap/x/1/bin/network_icon.png")
	assert.Equal(t, "/usr/share/pixmaps/network-switcher.png", IconCandidates("")[0])
}
