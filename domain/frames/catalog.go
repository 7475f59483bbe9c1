package frames

import (
	"fmt"
	"image"
	"sort"
)

// Canonical output canvas size. Slot coordinates live in this space.
const (
	CanvasWidth  = 533
	CanvasHeight = 1600
)

// Slot is one photo position on the canonical canvas.
type Slot struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect returns the slot as an image.Rectangle.
func (s Slot) Rect() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height)
}

// FrameDefinition describes one decorative frame.
type FrameDefinition struct {
	ID             int
	Name           string
	MaxPhotos      int
	Slots          []Slot // ordered top-to-bottom, matching capture order
	ThumbnailAsset string
	OverlayAsset   string // empty for frames without a composite layout
}

// Compositable reports whether the frame has a slot layout and an overlay.
func (f FrameDefinition) Compositable() bool {
	return len(f.Slots) > 0 && f.OverlayAsset != ""
}

// Catalog is an immutable lookup table of frame definitions.
type Catalog struct {
	defs  map[int]FrameDefinition
	order []int
}

// threePhotoFrames lists the frames that take three photos; every other frame takes four.
var threePhotoFrames = map[int]bool{1: true, 8: true}

// pickerOrder is the display order of the frame picker.
var pickerOrder = []int{2, 1, 5, 3, 4, 6, 9, 7, 8, 10}

var frameNames = map[int]string{
	1:  "Pink leopard",
	2:  "Pink aesthetic",
	3:  "Vintage postal",
	4:  "Exclusive postal",
	5:  "Classic postal",
	6:  "Cinema theater",
	7:  "Browser window",
	8:  "Modern browser",
	9:  "Theater marquee",
	10: "Movie theater",
}

func slotColumn(ys ...int) []Slot {
	out := make([]Slot, len(ys))
	for i, y := range ys {
		out[i] = Slot{X: 5, Y: y, Width: 533, Height: 315}
	}
	return out
}

// defaultSlots holds the tuned layouts of the compositable frames.
// Frames 3-6 share a provisional layout until their artwork is measured.
var defaultSlots = map[int][]Slot{
	1: slotColumn(135, 520, 870),
	2: slotColumn(55, 390, 730, 1070),
	3: slotColumn(75, 423, 750, 1090),
	4: slotColumn(75, 423, 750, 1090),
	5: slotColumn(75, 423, 750, 1090),
	6: slotColumn(75, 423, 750, 1090),
}

// DefaultCatalog returns the built-in frame table.
func DefaultCatalog() *Catalog {
	c := &Catalog{defs: make(map[int]FrameDefinition, len(pickerOrder)), order: append([]int(nil), pickerOrder...)}
	for _, id := range pickerOrder {
		def := FrameDefinition{
			ID:             id,
			Name:           frameNames[id],
			MaxPhotos:      4,
			ThumbnailAsset: fmt.Sprintf("thumbnails/%d.png", id),
		}
		if threePhotoFrames[id] {
			def.MaxPhotos = 3
		}
		if slots, ok := defaultSlots[id]; ok {
			def.Slots = append([]Slot(nil), slots...)
			def.OverlayAsset = fmt.Sprintf("overlays/%d_transparent.png", id)
		}
		c.defs[id] = def
	}
	return c
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id int) (FrameDefinition, bool) {
	if c == nil {
		return FrameDefinition{}, false
	}
	def, ok := c.defs[id]
	if !ok {
		return FrameDefinition{}, false
	}
	def.Slots = append([]Slot(nil), def.Slots...)
	return def, true
}

// MaxPhotos returns the photo cap for id, or 0 for unknown frames.
func (c *Catalog) MaxPhotos(id int) int {
	if c == nil {
		return 0
	}
	return c.defs[id].MaxPhotos
}

// All returns every definition in picker order.
func (c *Catalog) All() []FrameDefinition {
	if c == nil {
		return nil
	}
	out := make([]FrameDefinition, 0, len(c.order))
	for _, id := range c.order {
		def, _ := c.Lookup(id)
		out = append(out, def)
	}
	return out
}

// WithLayouts returns a copy of the catalog with per-frame layout overrides applied.
func (c *Catalog) WithLayouts(layouts map[int]Layout) (*Catalog, error) {
	out := &Catalog{defs: make(map[int]FrameDefinition, len(c.defs)), order: append([]int(nil), c.order...)}
	for id, def := range c.defs {
		out.defs[id] = def
	}
	ids := make([]int, 0, len(layouts))
	for id := range layouts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		l := layouts[id]
		def, ok := out.defs[id]
		if !ok {
			return nil, fmt.Errorf("frames: layout for unknown frame %d", id)
		}
		if err := l.validate(); err != nil {
			return nil, fmt.Errorf("frames: frame %d: %w", id, err)
		}
		if l.MaxPhotos != 0 {
			def.MaxPhotos = l.MaxPhotos
		}
		if len(l.Slots) > 0 {
			def.Slots = append([]Slot(nil), l.Slots...)
			if l.Overlay != "" {
				def.OverlayAsset = l.Overlay
			} else if def.OverlayAsset == "" {
				def.OverlayAsset = fmt.Sprintf("overlays/%d_transparent.png", id)
			}
		}
		out.defs[id] = def
	}
	return out, nil
}
