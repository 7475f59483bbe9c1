package frames

import (
	"strings"
	"testing"
)

func TestDefaultCatalog_MaxPhotosTable(t *testing.T) {
	c := DefaultCatalog()
	cases := map[int]int{1: 3, 2: 4, 3: 4, 4: 4, 5: 4, 6: 4, 7: 4, 8: 3, 9: 4, 10: 4, 42: 0}
	for id, want := range cases {
		if got := c.MaxPhotos(id); got != want {
			t.Fatalf("frame %d: expected max %d got %d", id, want, got)
		}
	}
}

func TestDefaultCatalog_CompositableSubset(t *testing.T) {
	c := DefaultCatalog()
	for _, def := range c.All() {
		want := def.ID >= 1 && def.ID <= 6
		if def.Compositable() != want {
			t.Fatalf("frame %d: compositable=%v", def.ID, def.Compositable())
		}
		if want && len(def.Slots) != def.MaxPhotos {
			t.Fatalf("frame %d: %d slots for max %d", def.ID, len(def.Slots), def.MaxPhotos)
		}
	}
}

func TestDefaultCatalog_Frame2Slots(t *testing.T) {
	def, ok := DefaultCatalog().Lookup(2)
	if !ok {
		t.Fatalf("frame 2 missing")
	}
	ys := []int{55, 390, 730, 1070}
	for i, s := range def.Slots {
		if s.Y != ys[i] || s.Width != 533 || s.Height != 315 {
			t.Fatalf("slot %d unexpected: %+v", i, s)
		}
	}
	if def.OverlayAsset != "overlays/2_transparent.png" {
		t.Fatalf("unexpected overlay %q", def.OverlayAsset)
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := DefaultCatalog()
	def, _ := c.Lookup(2)
	def.Slots[0].Y = 999
	again, _ := c.Lookup(2)
	if again.Slots[0].Y != 55 {
		t.Fatalf("catalog mutated through Lookup result")
	}
}

func TestAll_PickerOrder(t *testing.T) {
	all := DefaultCatalog().All()
	want := []int{2, 1, 5, 3, 4, 6, 9, 7, 8, 10}
	if len(all) != len(want) {
		t.Fatalf("expected %d frames got %d", len(want), len(all))
	}
	for i, def := range all {
		if def.ID != want[i] {
			t.Fatalf("position %d: expected %d got %d", i, want[i], def.ID)
		}
	}
}

func TestWithLayouts_OverridesAndValidates(t *testing.T) {
	doc := `
frames:
  3:
    slots:
      - {x: 10, y: 80, width: 500, height: 300}
      - {x: 10, y: 420, width: 500, height: 300}
      - {x: 10, y: 760, width: 500, height: 300}
      - {x: 10, y: 1100, width: 500, height: 300}
  7:
    max_photos: 3
    slots:
      - {x: 5, y: 100, width: 520, height: 320}
`
	layouts, err := LoadLayouts(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	base := DefaultCatalog()
	c, err := base.WithLayouts(layouts)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	def3, _ := c.Lookup(3)
	if def3.Slots[0].X != 10 || def3.Slots[0].Width != 500 {
		t.Fatalf("override not applied: %+v", def3.Slots[0])
	}
	def7, _ := c.Lookup(7)
	if !def7.Compositable() || def7.MaxPhotos != 3 || def7.OverlayAsset != "overlays/7_transparent.png" {
		t.Fatalf("frame 7 override unexpected: %+v", def7)
	}
	orig3, _ := base.Lookup(3)
	if orig3.Slots[0].X != 5 {
		t.Fatalf("base catalog mutated")
	}
}

func TestWithLayouts_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		layouts map[int]Layout
	}{
		{"unknown frame", map[int]Layout{77: {MaxPhotos: 4}}},
		{"bad max", map[int]Layout{2: {MaxPhotos: 5}}},
		{"zero slot", map[int]Layout{2: {Slots: []Slot{{X: 0, Y: 0, Width: 0, Height: 10}}}}},
		{"off canvas", map[int]Layout{2: {Slots: []Slot{{X: 0, Y: 1700, Width: 10, Height: 10}}}}},
	}
	for _, tc := range cases {
		if _, err := DefaultCatalog().WithLayouts(tc.layouts); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadLayouts_EmptyAndUnknownField(t *testing.T) {
	got, err := LoadLayouts(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Fatalf("empty doc: got %v err %v", got, err)
	}
	if _, err := LoadLayouts(strings.NewReader("frames:\n  2:\n    colour: red\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
