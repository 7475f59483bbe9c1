package filter

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Filter enumerates the colour presets offered at capture time.
type Filter int

const (
	None Filter = iota
	Warm
	Mono
	Contrast
	Vibrant
)

// All lists the presets in display order.
var All = []Filter{None, Warm, Mono, Contrast, Vibrant}

func (f Filter) String() string {
	switch f {
	case None:
		return "none"
	case Warm:
		return "warm"
	case Mono:
		return "mono"
	case Contrast:
		return "contrast"
	case Vibrant:
		return "vibrant"
	default:
		return "unknown"
	}
}

// Label is the short caption shown on filter buttons.
func (f Filter) Label() string {
	switch f {
	case Warm:
		return "Warm"
	case Mono:
		return "B&W"
	case Contrast:
		return "Contrast"
	case Vibrant:
		return "Vibrant"
	default:
		return "Original"
	}
}

// Parse maps a config name to a Filter.
func Parse(name string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "original":
		return None, nil
	case "warm", "vintage", "sepia":
		return Warm, nil
	case "mono", "bw", "b&w", "grayscale":
		return Mono, nil
	case "contrast":
		return Contrast, nil
	case "vibrant":
		return Vibrant, nil
	}
	return None, fmt.Errorf("filter: unknown preset %q", name)
}

// Apply returns img with the preset applied, mirrored horizontally when mirror is set.
// The source is never modified.
func Apply(img image.Image, f Filter, mirror bool) image.Image {
	if img == nil {
		return nil
	}
	out := img
	switch f {
	case Warm: // sepia(50%) saturate(150%)
		out = imaging.AdjustFunc(out, sepia(0.5))
		out = imaging.AdjustSaturation(out, 50)
	case Mono: // grayscale(100%)
		out = imaging.Grayscale(out)
	case Contrast: // contrast(120%) brightness(90%)
		out = imaging.AdjustContrast(out, 20)
		out = imaging.AdjustFunc(out, brightness(0.9))
	case Vibrant: // saturate(200%) hue-rotate(20deg)
		out = imaging.AdjustSaturation(out, 100)
		out = imaging.AdjustFunc(out, hueRotate(20))
	}
	if mirror {
		out = imaging.FlipH(out)
	}
	return out
}

type matrix [3][3]float64

func (m matrix) apply(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.NRGBA{
		R: clamp8(m[0][0]*r + m[0][1]*g + m[0][2]*b),
		G: clamp8(m[1][0]*r + m[1][1]*g + m[1][2]*b),
		B: clamp8(m[2][0]*r + m[2][1]*g + m[2][2]*b),
		A: c.A,
	}
}

// sepia follows the CSS Filter Effects sepia() matrix.
func sepia(amount float64) func(color.NRGBA) color.NRGBA {
	k := 1 - amount
	m := matrix{
		{0.393 + 0.607*k, 0.769 - 0.769*k, 0.189 - 0.189*k},
		{0.349 - 0.349*k, 0.686 + 0.314*k, 0.168 - 0.168*k},
		{0.272 - 0.272*k, 0.534 - 0.534*k, 0.131 + 0.869*k},
	}
	return m.apply
}

// hueRotate follows the CSS Filter Effects hue-rotate() matrix.
func hueRotate(deg float64) func(color.NRGBA) color.NRGBA {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	m := matrix{
		{0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928},
		{0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283},
		{0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072},
	}
	return m.apply
}

func brightness(factor float64) func(color.NRGBA) color.NRGBA {
	return func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clamp8(float64(c.R) * factor),
			G: clamp8(float64(c.G) * factor),
			B: clamp8(float64(c.B) * factor),
			A: c.A,
		}
	}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
