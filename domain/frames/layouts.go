package frames

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Layout is a per-frame override read from a layouts file.
type Layout struct {
	MaxPhotos int    `yaml:"max_photos"`
	Overlay   string `yaml:"overlay"`
	Slots     []Slot `yaml:"slots"`
}

type layoutsFile struct {
	Frames map[int]Layout `yaml:"frames"`
}

func (l Layout) validate() error {
	if l.MaxPhotos != 0 && l.MaxPhotos != 3 && l.MaxPhotos != 4 {
		return fmt.Errorf("max_photos must be 3 or 4, got %d", l.MaxPhotos)
	}
	for i, s := range l.Slots {
		if s.Width <= 0 || s.Height <= 0 {
			return fmt.Errorf("slot %d: non-positive size %dx%d", i, s.Width, s.Height)
		}
		if s.X >= CanvasWidth || s.Y >= CanvasHeight || s.X+s.Width <= 0 || s.Y+s.Height <= 0 {
			return fmt.Errorf("slot %d: outside the %dx%d canvas", i, CanvasWidth, CanvasHeight)
		}
	}
	return nil
}

// LoadLayouts parses a YAML layouts document:
//
//	frames:
//	  3:
//	    max_photos: 4
//	    slots:
//	      - {x: 5, y: 75, width: 533, height: 315}
func LoadLayouts(r io.Reader) (map[int]Layout, error) {
	var doc layoutsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[int]Layout{}, nil
		}
		return nil, fmt.Errorf("frames: parse layouts: %w", err)
	}
	if doc.Frames == nil {
		doc.Frames = map[int]Layout{}
	}
	return doc.Frames, nil
}

// LoadLayoutsFile reads layouts from path. An empty path yields no overrides.
func LoadLayoutsFile(path string) (map[int]Layout, error) {
	if path == "" {
		return map[int]Layout{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("frames: open layouts: %w", err)
	}
	defer f.Close()
	return LoadLayouts(f)
}
