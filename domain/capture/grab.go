package capture

import (
	"fmt"
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures region clipped to the primary screen.
func ScreenGrabber(region image.Rectangle) (*image.RGBA, error) {
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, err
	}
	r := region.Intersect(screen)
	if r.Empty() {
		return nil, fmt.Errorf("capture: region %v outside screen %v", region, screen)
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}
