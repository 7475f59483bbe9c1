package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io/fs"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"github.com/soocke/photobooth-go/assets"
	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/frames"
)

// ErrNotCompositable is returned for frames without a slot layout.
var ErrNotCompositable = errors.New("compositor: frame has no slot layout")

// AssetLoadError reports a missing or undecodable overlay.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("compositor: load overlay %q: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// Result is a finished composite.
type Result struct {
	Image   *image.RGBA
	PNG     []byte
	Skipped []int // photo indices left out because they failed to decode
}

// Compositor renders photos into a frame's slots and lays the overlay on top.
type Compositor struct {
	assets fs.FS
	logger *slog.Logger
	scaler xdraw.Interpolator
}

// New returns a compositor loading overlays from assetsFS.
func New(assetsFS fs.FS, logger *slog.Logger) *Compositor {
	return &Compositor{assets: assetsFS, logger: logger, scaler: xdraw.CatmullRom}
}

// Composite draws photos into def's slots in order. Extra photos are ignored,
// missing photos leave their slot white.
func (c *Compositor) Composite(ctx context.Context, photos []booth.Photo, def frames.FrameDefinition) (Result, error) {
	if !def.Compositable() {
		return Result{}, ErrNotCompositable
	}
	canvas := image.NewRGBA(image.Rect(0, 0, frames.CanvasWidth, frames.CanvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var res Result
	n := min(len(photos), len(def.Slots))
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		img, err := photos[i].Decode()
		if err != nil {
			res.Skipped = append(res.Skipped, i)
			if c.logger != nil {
				c.logger.Warn("composite photo skipped", "index", i, "frame", def.ID, "error", err)
			}
			continue
		}
		c.drawSlot(canvas, img, def.Slots[i].Rect())
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	overlay, err := assets.LoadImage(c.assets, def.OverlayAsset)
	if err != nil {
		return Result{}, &AssetLoadError{Path: def.OverlayAsset, Err: err}
	}
	c.scaler.Scale(canvas, canvas.Bounds(), overlay, overlay.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return Result{}, fmt.Errorf("compositor: encode: %w", err)
	}
	res.Image = canvas
	res.PNG = buf.Bytes()
	if c.logger != nil {
		c.logger.Info("composite rendered", "frame", def.ID, "photos", n, "skipped", len(res.Skipped), "bytes", len(res.PNG))
	}
	return res, nil
}

// drawSlot scales img to cover slot and clips it to the slot rectangle.
func (c *Compositor) drawSlot(canvas *image.RGBA, img image.Image, slot image.Rectangle) {
	b := img.Bounds()
	if b.Empty() || slot.Empty() {
		return
	}
	dst, ok := canvas.SubImage(slot).(*image.RGBA)
	if !ok || dst.Bounds().Empty() {
		return
	}
	cover := CoverRect(b.Dx(), b.Dy(), slot)
	c.scaler.Scale(dst, cover, img, b, xdraw.Over, nil)
}

// CoverRect returns the destination rectangle for a srcW x srcH image scaled
// to cover slot while keeping its aspect ratio, centred on the slot. The
// overflow on the cropped axis is split evenly between both sides.
func CoverRect(srcW, srcH int, slot image.Rectangle) image.Rectangle {
	sw, sh := slot.Dx(), slot.Dy()
	if srcW <= 0 || srcH <= 0 || sw <= 0 || sh <= 0 {
		return slot
	}
	imgAspect := float64(srcW) / float64(srcH)
	slotAspect := float64(sw) / float64(sh)
	x0, y0 := float64(slot.Min.X), float64(slot.Min.Y)
	var w, h float64
	if imgAspect > slotAspect {
		// wider than the slot: fit height, crop the sides
		h = float64(sh)
		w = h * imgAspect
		x0 -= (w - float64(sw)) / 2
	} else {
		// taller or equal: fit width, crop top and bottom
		w = float64(sw)
		h = w / imgAspect
		y0 -= (h - float64(sh)) / 2
	}
	return image.Rect(
		int(math.Floor(x0)),
		int(math.Floor(y0)),
		int(math.Ceil(x0+w)),
		int(math.Ceil(y0+h)),
	)
}
