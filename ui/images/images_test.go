package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestScaleToFit(t *testing.T) {
	src := solid(1280, 720, color.RGBA{10, 20, 30, 255})
	out := ScaleToFit(src, 400, 400)
	if b := out.Bounds(); b.Dx() != 400 || b.Dy() != 225 {
		t.Fatalf("unexpected size %v", b)
	}
	small := solid(10, 10, color.RGBA{})
	if ScaleToFit(small, 100, 100) != image.Image(small) {
		t.Fatalf("expected source returned when it already fits")
	}
	if ScaleToFit(nil, 1, 1) != nil {
		t.Fatalf("nil in, nil out")
	}
}

func TestFitSize(t *testing.T) {
	cases := []struct{ sw, sh, mw, mh, w, h int }{
		{533, 1600, 300, 600, 200, 600},
		{1280, 720, 640, 640, 640, 360},
		{10, 10, 0, 0, 1, 1},
	}
	for _, c := range cases {
		w, h := FitSize(c.sw, c.sh, c.mw, c.mh)
		if w != c.w || h != c.h {
			t.Fatalf("FitSize(%d,%d,%d,%d) = %d,%d want %d,%d", c.sw, c.sh, c.mw, c.mh, w, h, c.w, c.h)
		}
	}
}

func TestEncodePNG(t *testing.T) {
	data := EncodePNG(solid(3, 2, color.RGBA{255, 0, 0, 255}))
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width != 3 || cfg.Height != 2 {
		t.Fatalf("bad png: %+v %v", cfg, err)
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
}

func TestCard(t *testing.T) {
	img := solid(120, 360, color.RGBA{0, 200, 0, 255})
	card := Card(img, "Pink aesthetic - 4 photos", 150, 260, false)
	if b := card.Bounds(); b.Dx() != 150 || b.Dy() != 260 {
		t.Fatalf("unexpected card size %v", b)
	}
	if c := card.RGBAAt(75, 120); c.G < 150 || c.R > 50 {
		t.Fatalf("thumbnail not drawn at centre, got %v", c)
	}
	if c := card.RGBAAt(0, 0); c != cardBorder {
		t.Fatalf("expected border colour, got %v", c)
	}
	sel := Card(img, "x", 150, 260, true)
	if c := sel.RGBAAt(2, 2); c != cardSelected {
		t.Fatalf("expected thick selected border, got %v", c)
	}
	// caption strip contains some text pixels
	found := false
	for y := 260 - captionHeight; y < 260 && !found; y++ {
		for x := 0; x < 150; x++ {
			if card.RGBAAt(x, y) == captionColor {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("caption not rendered")
	}
	if Card(nil, "", 1, 1, false) == nil {
		t.Fatalf("expected empty tile")
	}
}

func TestGrid(t *testing.T) {
	imgs := []image.Image{solid(40, 30, color.RGBA{255, 0, 0, 255}), solid(30, 40, color.RGBA{0, 0, 255, 255}), nil}
	g := Grid(imgs, 2, 100, 60)
	if b := g.Bounds(); b.Dx() != 2*100+3*8 || b.Dy() != 2*60+3*8 {
		t.Fatalf("unexpected grid size %v", b)
	}
	if c := g.RGBAAt(8+50, 8+30); c.R < 200 || c.B > 50 {
		t.Fatalf("first cell not red: %v", c)
	}
	if c := g.RGBAAt(8+100+8+50, 8+30); c.B < 200 || c.R > 50 {
		t.Fatalf("second cell not blue: %v", c)
	}
	if c := g.RGBAAt(2, 2); c != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("gap not white: %v", c)
	}
}
