package capture

import (
	"image"
	"time"
)

// FrameSource provides read-only access to the live feed.
// LatestFrame returns the freshest snapshot while Running reports activity.
type FrameSource interface {
	LatestFrame() FrameSnapshot
	Running() bool
}

// Grabber captures the given screen region.
type Grabber func(region image.Rectangle) (*image.RGBA, error)

// DefaultRegion is used when no feed region is selected. It matches the
// 1280x720 resolution hint of a typical webcam stream.
var DefaultRegion = image.Rect(0, 0, 1280, 720)

// FrameSnapshot is one feed frame. Image is never written after it is
// published, so readers may keep it without copying.
type FrameSnapshot struct {
	Image      *image.RGBA
	Region     image.Rectangle // screen rectangle the frame was grabbed from
	CapturedAt time.Time
	Sequence   uint64
}

// CaptureStats describes the feed loop since the service was created.
type CaptureStats struct {
	Running        bool
	Captures       uint64
	FailedGrabs    uint64
	AvgGrab        time.Duration
	LastCapture    time.Time
	LatestFrameAge time.Duration
	Sequence       uint64
}
