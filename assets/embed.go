package assets

import (
	"embed"
	"fmt"
	"image"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
)

// Frames holds the frame overlays (overlays/{id}_transparent.png, 533x1600 with
// transparent photo windows) and the picker thumbnails (thumbnails/{n}.png).
//
//go:embed overlays/*.png thumbnails/*.png
var Frames embed.FS

// FS returns the asset filesystem. A non-empty dir replaces the embedded
// assets with an on-disk tree of the same layout.
func FS(dir string) fs.FS {
	if dir == "" {
		return Frames
	}
	return os.DirFS(dir)
}

// LoadImage decodes the named asset from fsys.
func LoadImage(fsys fs.FS, name string) (image.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("assets: empty asset name")
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	return img, nil
}
