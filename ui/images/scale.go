package images

import (
	"bytes"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

var previewEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = previewEncoder.Encode(&buf, img)
	return buf.Bytes()
}

// ScaleToFit scales src so that it fits within maxW x maxH preserving aspect
// ratio. If the source already fits, the original is returned.
func ScaleToFit(src image.Image, maxW, maxH int) image.Image {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	newW, newH := FitSize(w, h, maxW, maxH)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// FitSize returns the largest w x h with the aspect of srcW x srcH inside maxW x maxH.
func FitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	if srcW < 1 || srcH < 1 {
		return maxW, maxH
	}
	ratio := min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	newW := max(int(float64(srcW)*ratio+0.5), 1)
	newH := max(int(float64(srcH)*ratio+0.5), 1)
	return newW, newH
}
