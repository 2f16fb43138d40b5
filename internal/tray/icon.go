package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const iconFile = "network_icon.png"

// IconCandidates lists the paths searched for the tray icon, configured
// first, then the system, local, snap and per-user install locations.
func IconCandidates(configured string) []string {
	var paths []string
	if configured != "" {
		paths = append(paths, configured)
	}
	paths = append(paths, "/usr/share/pixmaps/network-switcher.png")
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), iconFile))
	}
	if snap := os.Getenv("SNAP"); snap != "" {
		paths = append(paths, filepath.Join(snap, "bin", iconFile))
	}
	paths = append(paths, "/snap/network-switcher/current/bin/"+iconFile)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "share", "network-switcher", iconFile))
	}
	return paths
}

// LoadIcon returns the first readable candidate.  When none exists it
// returns DefaultIcon and an empty path.
func LoadIcon(candidates []string, logger *zap.Logger) ([]byte, string) {
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil || len(data) == 0 {
			continue
		}
		logger.Debug("tray icon found", zap.String("path", p))
		return data, p
	}
	logger.Warn("tray icon not found, using generated icon", zap.Strings("searched", candidates))
	return DefaultIcon(), ""
}

// DefaultIcon is a 64x64 solid blue PNG.
func DefaultIcon() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	blue := color.RGBA{B: 0xff, A: 0xff}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, blue)
		}
	}
	var buf bytes.Buffer
	// Encoding an in-memory RGBA image cannot fail.
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
