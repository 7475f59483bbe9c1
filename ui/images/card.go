package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const captionHeight = 18

var (
	cardBackground = color.RGBA{0xFD, 0xF2, 0xF8, 0xff}
	cardBorder     = color.RGBA{0xA0, 0x83, 0xF7, 0xff}
	cardSelected   = color.RGBA{0x27, 0x00, 0x9D, 0xff}
	captionColor   = color.RGBA{0x27, 0x00, 0x9D, 0xff}
)

// Card renders img fitted into a w x h tile with a caption strip underneath.
// Selected cards get a thicker border. A nil img yields an empty tile.
func Card(img image.Image, caption string, w, h int, selected bool) *image.RGBA {
	w, h = max(w, 8), max(h, captionHeight+8)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)

	border, width := cardBorder, 1
	if selected {
		border, width = cardSelected, 3
	}
	strokeRect(dst, dst.Bounds(), width, border)

	area := image.Rect(width+2, width+2, w-width-2, h-captionHeight-width)
	if img != nil && !area.Empty() {
		fitted := ScaleToFit(img, area.Dx(), area.Dy())
		fb := fitted.Bounds()
		at := image.Pt(area.Min.X+(area.Dx()-fb.Dx())/2, area.Min.Y+(area.Dy()-fb.Dy())/2)
		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(fb.Size())}, fitted, fb.Min, draw.Over)
	}
	drawCaption(dst, caption, h-captionHeight-width+1)
	return dst
}

// drawCaption centres text on the strip starting at y, truncating it to fit.
func drawCaption(dst *image.RGBA, text string, y int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(captionColor), Face: basicfont.Face7x13}
	maxW := fixed.I(dst.Bounds().Dx() - 6)
	runes := []rune(text)
	for len(runes) > 0 && d.MeasureString(string(runes)) > maxW {
		runes = runes[:len(runes)-1]
	}
	text = string(runes)
	x := (fixed.I(dst.Bounds().Dx()) - d.MeasureString(text)) / 2
	d.Dot = fixed.Point26_6{X: x, Y: fixed.I(y + 13)}
	d.DrawString(text)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, width int, c color.Color) {
	src := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

// Grid lays imgs out in rows of cols cells, each cropped to cellW x cellH.
// It is the fallback preview for frames without a composite layout.
func Grid(imgs []image.Image, cols, cellW, cellH int) *image.RGBA {
	const gap = 8
	cols = max(cols, 1)
	rows := max((len(imgs)+cols-1)/cols, 1)
	w := cols*cellW + (cols+1)*gap
	h := rows*cellH + (rows+1)*gap
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for i, img := range imgs {
		if img == nil {
			continue
		}
		cell := imaging.Fill(img, cellW, cellH, imaging.Center, imaging.Linear)
		x := gap + (i%cols)*(cellW+gap)
		y := gap + (i/cols)*(cellH+gap)
		draw.Draw(dst, image.Rect(x, y, x+cellW, y+cellH), cell, image.Point{}, draw.Src)
	}
	return dst
}
