package view

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/soocke/photobooth-go/ui/images"
	"github.com/soocke/photobooth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	feedW = 560
	feedH = 315
)

// feedPreview owns the live feed label and the feed time labels below it.
// The previous Tk photo is deleted before a new one is shown so off-screen
// pixel data does not pile up at the feed rate.
type feedPreview struct {
	label      *LabelWidget
	photo      *Img
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
}

func newFeedPreview(parent *FrameWidget, row int) *feedPreview {
	v := &feedPreview{}
	v.photo = NewPhoto(Data(placeholderPNG()))
	v.label = parent.Label(Image(v.photo), Borderwidth(2), Relief("sunken"), Background(theme.ColorBorder))
	Grid(v.label, Row(row), Column(0), Columnspan(2), Sticky("nwe"), Padx("0.4m"), Pady("0.4m"))
	v.sessionLbl = parent.Label(Width(16), Txt("Feed: 00:00"), Background(theme.ColorBg), Foreground(theme.ColorTextMuted))
	Grid(v.sessionLbl, Row(row+1), Column(0), Sticky("w"), Padx("0.4m"))
	v.totalLbl = parent.Label(Width(16), Txt("Total: 00:00"), Background(theme.ColorBg), Foreground(theme.ColorTextMuted))
	Grid(v.totalLbl, Row(row+1), Column(1), Sticky("w"), Padx("0.4m"))
	return v
}

func (v *feedPreview) show(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	v.replace(images.EncodePNG(images.ScaleToFit(img, feedW, feedH)))
}

func (v *feedPreview) reset() {
	if v == nil || v.label == nil {
		return
	}
	v.replace(placeholderPNG())
}

func (v *feedPreview) replace(pngBytes []byte) {
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.photo))
}

func (v *feedPreview) setTimes(session, total time.Duration) {
	if v == nil || v.sessionLbl == nil {
		return
	}
	v.sessionLbl.Configure(Txt("Feed: " + clock(session)))
	v.totalLbl.Configure(Txt("Total: " + clock(total)))
}

// release drops the Tk photo; the label goes away with its parent frame.
func (v *feedPreview) release() {
	if v != nil && v.photo != nil {
		v.photo.Delete()
		v.photo = nil
	}
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func placeholderPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, feedW, feedH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{0xE9, 0xD5, 0xFF, 0xff}}, image.Point{}, draw.Src)
	return images.EncodePNG(img)
}
