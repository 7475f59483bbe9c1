package filter

import (
	"image"
	"image/color"
	"testing"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(200 - x*40), uint8(60 + x*30), 90, 255})
		}
	}
	return img
}

func TestApply_MonoIsGray(t *testing.T) {
	out := Apply(testImage(), Mono, false)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := out.At(x, y).RGBA()
			if r != g || g != bl {
				t.Fatalf("pixel (%d,%d) not gray: %d %d %d", x, y, r, g, bl)
			}
		}
	}
}

func TestApply_MirrorFlipsColumns(t *testing.T) {
	src := testImage()
	out := Apply(src, None, true)
	b := out.Bounds()
	if b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("unexpected bounds %v", b)
	}
	want := color.NRGBAModel.Convert(src.At(3, 0)).(color.NRGBA)
	got := color.NRGBAModel.Convert(out.At(b.Min.X, b.Min.Y)).(color.NRGBA)
	if got != want {
		t.Fatalf("mirror mismatch: got %v want %v", got, want)
	}
}

func TestApply_NoneReturnsSource(t *testing.T) {
	src := testImage()
	if out := Apply(src, None, false); out != image.Image(src) {
		t.Fatalf("expected source image back for no-op filter")
	}
	if Apply(nil, Warm, true) != nil {
		t.Fatalf("nil input should yield nil")
	}
}

func TestApply_PresetsKeepSizeAndAlpha(t *testing.T) {
	for _, f := range All {
		out := Apply(testImage(), f, false)
		if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
			t.Fatalf("%s: size changed to %v", f, b)
		}
		_, _, _, a := out.At(out.Bounds().Min.X, out.Bounds().Min.Y).RGBA()
		if a != 0xffff {
			t.Fatalf("%s: alpha changed to %d", f, a)
		}
	}
}

func TestApply_WarmShiftsTowardsRed(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{100, 100, 100, 255})
	r, _, b, _ := Apply(src, Warm, false).At(0, 0).RGBA()
	if r <= b {
		t.Fatalf("expected warm tint (r > b), got r=%d b=%d", r>>8, b>>8)
	}
}

func TestParse(t *testing.T) {
	cases := map[string]Filter{"": None, "none": None, "Warm": Warm, "b&w": Mono, "contrast": Contrast, " vibrant ": Vibrant}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil || got != want {
			t.Fatalf("Parse(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := Parse("glitter"); err == nil {
		t.Fatalf("expected error for unknown preset")
	}
	for _, f := range All {
		back, err := Parse(f.String())
		if err != nil || back != f {
			t.Fatalf("round trip %v failed: %v %v", f, back, err)
		}
	}
}
