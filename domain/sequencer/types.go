package sequencer

import (
	"errors"
	"time"

	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/filter"
)

// State enumerates the sequencer states.
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

var (
	ErrRunning           = errors.New("sequencer: capture sequence running")
	ErrInvalidInterval   = errors.New("sequencer: interval must be 3 or 10 seconds")
	ErrCameraUnavailable = errors.New("sequencer: camera unavailable")
	ErrNoFrame           = errors.New("sequencer: no frame selected")
	ErrNoRetakePending   = errors.New("sequencer: no retake pending")
	ErrUnknownFilter     = errors.New("sequencer: unknown filter")
	ErrClosed            = errors.New("sequencer: closed")
)

// AllowedIntervals are the countdown lengths offered to the user.
var AllowedIntervals = []int{3, 10}

// ValidInterval reports whether sec is one of AllowedIntervals.
func ValidInterval(sec int) bool {
	for _, v := range AllowedIntervals {
		if v == sec {
			return true
		}
	}
	return false
}

// Event names what changed in a listener notification.
type Event int

const (
	EventStarted Event = iota
	EventCountdown
	EventCaptured
	EventCaptureFailed
	EventFinished
	EventCancelled
	EventUploaded
	EventRemoved
	EventSettingsChanged
	EventRetakeRequested
	EventRetakeDismissed
)

func (e Event) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventCountdown:
		return "countdown"
	case EventCaptured:
		return "captured"
	case EventCaptureFailed:
		return "capture_failed"
	case EventFinished:
		return "finished"
	case EventCancelled:
		return "cancelled"
	case EventUploaded:
		return "uploaded"
	case EventRemoved:
		return "removed"
	case EventSettingsChanged:
		return "settings"
	case EventRetakeRequested:
		return "retake_requested"
	case EventRetakeDismissed:
		return "retake_dismissed"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent view of the sequencer and the photo list.
type Snapshot struct {
	State         State
	Countdown     int // seconds until the next capture, 0 when idle
	Remaining     int // captures left in the running sequence
	Interval      int
	Filter        filter.Filter
	Mirror        bool
	Photos        []booth.Photo
	MaxPhotos     int
	RetakePending bool
}

// Full reports whether every slot holds a photo.
func (s Snapshot) Full() bool { return s.MaxPhotos > 0 && len(s.Photos) >= s.MaxPhotos }

// Listener is notified on the sequencer goroutine after every change. It must
// not call back into the sequencer.
type Listener func(Event, Snapshot)

// UploadResult summarises an Upload call.
type UploadResult struct {
	Added   int
	Dropped int   // files beyond the free slots, never decoded
	Failed  []int // indices of files that could not be decoded
}

// Ticker paces the countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker { return timeTicker{t: time.NewTicker(d)} }

// Controller is the contract consumed by presenters.
type Controller interface {
	Start() error
	Cancel()
	Tick(now time.Time)
	RequestRetake() (bool, error)
	ConfirmRetake() error
	DismissRetake()
	Upload(files [][]byte) (UploadResult, error)
	Remove(i int) error
	SetInterval(sec int) error
	SetFilter(f filter.Filter) error
	ToggleMirror() bool
	Snapshot() Snapshot
	AddListener(Listener)
	Close()
}
