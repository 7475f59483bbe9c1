package presenter

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/capture"
	"github.com/soocke/photobooth-go/domain/filter"
	"github.com/soocke/photobooth-go/domain/sequencer"
	"github.com/soocke/photobooth-go/ui/images"
	"github.com/soocke/photobooth-go/ui/model"
)

const (
	feedPreviewW = 560
	feedPreviewH = 315
	thumbW       = 160
	thumbH       = 90
)

// Camera narrows what the presenter needs from the capture layer.
type Camera interface {
	Start() error
	Stop()
	LatestFrame() capture.FrameSnapshot
	Running() bool
}

// CaptureView is the capture screen as seen by the presenter.
type CaptureView interface {
	SetCameraError(msg string) // empty clears the error
	SetCaptureEnabled(enabled bool)
	ShowFeed(img image.Image)
	ResetFeed()
	ShowStatus(text string)
	ShowPhotos(thumbs []image.Image, max int, removable bool)
	SetRunning(running bool)
	SetSettings(interval int, f filter.Filter, mirror bool)
	SetDoneEnabled(enabled bool)
	SetFeedTime(session, total time.Duration)
	ShowNotice(text string)
	ConfirmRetake() bool
	ChooseUploadFiles() []string
}

// thumbKey identifies a photo by content; uploads from one batch share
// CapturedAt.
type thumbKey [sha256.Size]byte

// CapturePresenter owns the capture screen: it acquires the feed on Enter,
// releases it on Leave, and relays user actions to the sequencer.
// Sequencer notifications are queued and flushed on the UI tick.
type CapturePresenter struct {
	seq      sequencer.Controller
	camera   Camera
	model    *model.CameraModel
	session  *model.FeedSession
	view     CaptureView
	nav      func(Route) Route
	readFile func(string) ([]byte, error)
	logger   *slog.Logger

	mu      sync.Mutex
	pending *sequencer.Snapshot
	failed  bool

	// Tk thread only
	active   bool
	snap     sequencer.Snapshot
	frameSeq uint64
	thumbs   map[thumbKey]image.Image
}

func NewCapturePresenter(seq sequencer.Controller, camera Camera, cam *model.CameraModel, session *model.FeedSession, view CaptureView, nav func(Route) Route, logger *slog.Logger) *CapturePresenter {
	p := &CapturePresenter{
		seq:      seq,
		camera:   camera,
		model:    cam,
		session:  session,
		view:     view,
		nav:      nav,
		readFile: os.ReadFile,
		logger:   logger,
		thumbs:   make(map[thumbKey]image.Image),
	}
	if seq != nil {
		seq.AddListener(p.OnSequence)
	}
	return p
}

// OnSequence queues a sequencer notification. Called on the sequencer goroutine.
func (p *CapturePresenter) OnSequence(ev sequencer.Event, snap sequencer.Snapshot) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = &snap
	if ev == sequencer.EventCaptureFailed {
		p.failed = true
	}
	p.mu.Unlock()
}

// Enter acquires the feed. A failure is shown persistently and disables the
// capture controls; uploads stay available.
func (p *CapturePresenter) Enter() {
	if p == nil || p.view == nil {
		return
	}
	p.active = true
	p.frameSeq = 0
	p.view.ShowNotice("")
	if err := p.camera.Start(); err != nil {
		msg := cameraErrorMessage(err)
		p.model.SetError(msg)
		p.view.SetCameraError(msg)
		p.view.ResetFeed()
		if p.logger != nil {
			p.logger.Warn("camera unavailable", "error", err)
		}
	} else {
		p.model.SetLive(true)
		p.view.SetCameraError("")
	}
	p.render(p.seq.Snapshot())
}

// Leave cancels any running sequence and releases the feed.
func (p *CapturePresenter) Leave() {
	if p == nil {
		return
	}
	p.active = false
	p.seq.Cancel()
	p.seq.DismissRetake()
	p.camera.Stop()
	p.model.SetLive(false)
	p.session.OnTick(false, time.Now())
	p.mu.Lock()
	p.pending, p.failed = nil, false
	p.mu.Unlock()
	if p.view != nil {
		p.view.ResetFeed()
	}
}

// Tick flushes queued notifications and refreshes the live feed while the
// capture screen is shown.
func (p *CapturePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil || !p.active {
		return
	}
	p.flush()
	if p.camera.Running() {
		frame := p.camera.LatestFrame()
		if frame.Image != nil && frame.Sequence != p.frameSeq {
			p.frameSeq = frame.Sequence
			scaled := images.ScaleToFit(frame.Image, feedPreviewW, feedPreviewH)
			p.view.ShowFeed(filter.Apply(scaled, p.snap.Filter, p.snap.Mirror))
		}
	}
	p.session.OnTick(p.model.Live(), now)
	s, t := p.session.Values()
	p.view.SetFeedTime(s, t)
}

func (p *CapturePresenter) flush() {
	p.mu.Lock()
	pending, failed := p.pending, p.failed
	p.pending, p.failed = nil, false
	p.mu.Unlock()
	if failed {
		p.view.ShowNotice("Capture skipped: no camera frame available.")
	}
	if pending != nil {
		p.render(*pending)
	}
}

func (p *CapturePresenter) render(snap sequencer.Snapshot) {
	p.snap = snap
	running := snap.State == sequencer.StateRunning
	p.view.SetRunning(running)
	p.view.SetSettings(snap.Interval, snap.Filter, snap.Mirror)
	p.view.SetCaptureEnabled(p.model.Live() && !running)
	p.view.SetDoneEnabled(!running && len(snap.Photos) > 0)
	p.view.ShowStatus(statusText(snap))
	p.view.ShowPhotos(p.thumbnails(snap.Photos), snap.MaxPhotos, !running)
}

func (p *CapturePresenter) thumbnails(photos []booth.Photo) []image.Image {
	out := make([]image.Image, len(photos))
	keep := make(map[thumbKey]image.Image, len(photos))
	for i, ph := range photos {
		k := thumbKey(sha256.Sum256(ph.Data))
		img, ok := p.thumbs[k]
		if !ok {
			full, err := ph.Decode()
			if err != nil {
				continue
			}
			img = images.ScaleToFit(full, thumbW, thumbH)
		}
		keep[k] = img
		out[i] = img
	}
	p.thumbs = keep
	return out
}

func statusText(s sequencer.Snapshot) string {
	switch {
	case s.State == sequencer.StateRunning:
		return fmt.Sprintf("Next photo in %d... (%d left)", s.Countdown, s.Remaining)
	case s.MaxPhotos == 0:
		return "Choose a frame to start."
	case s.Full():
		return fmt.Sprintf("All %d photos taken. Press Done to see your strip.", s.MaxPhotos)
	default:
		return fmt.Sprintf("%d of %d photos", len(s.Photos), s.MaxPhotos)
	}
}

func cameraErrorMessage(err error) string {
	if errors.Is(err, capture.ErrCameraUnavailable) {
		return "Camera unavailable. Check screen capture permission or the feed region, then reopen this screen. You can still upload photos."
	}
	return "Camera error: " + err.Error()
}

func actionErrorText(err error) string {
	switch {
	case errors.Is(err, sequencer.ErrCameraUnavailable):
		return "The camera is not available."
	case errors.Is(err, sequencer.ErrNoFrame):
		return "Choose a frame first."
	case errors.Is(err, sequencer.ErrRunning):
		return "Wait for the countdown to finish or cancel it."
	case errors.Is(err, sequencer.ErrInvalidInterval):
		return "The timer can be 3 or 10 seconds."
	default:
		return err.Error()
	}
}

func (p *CapturePresenter) report(action string, err error) {
	if err == nil {
		return
	}
	if p.logger != nil {
		p.logger.Info("capture action rejected", "action", action, "error", err)
	}
	p.view.ShowNotice(actionErrorText(err))
}

// Start begins a capture sequence.
func (p *CapturePresenter) Start() {
	p.view.ShowNotice("")
	p.report("start", p.seq.Start())
	p.flush()
}

// Cancel stops the running sequence.
func (p *CapturePresenter) Cancel() {
	p.seq.Cancel()
	p.flush()
}

// Retake restarts the sequence, asking first when photos would be discarded.
func (p *CapturePresenter) Retake() {
	confirm, err := p.seq.RequestRetake()
	if err != nil {
		p.report("retake", err)
		p.flush()
		return
	}
	if confirm {
		if p.view.ConfirmRetake() {
			p.report("retake", p.seq.ConfirmRetake())
		} else {
			p.seq.DismissRetake()
		}
	}
	p.flush()
}

// Upload adds user-chosen files to the free slots.
func (p *CapturePresenter) Upload() {
	paths := p.view.ChooseUploadFiles()
	if len(paths) == 0 {
		return
	}
	files := make([][]byte, 0, len(paths))
	unreadable := 0
	for _, path := range paths {
		data, err := p.readFile(path)
		if err != nil {
			unreadable++
			if p.logger != nil {
				p.logger.Warn("upload read failed", "path", path, "error", err)
			}
			continue
		}
		files = append(files, data)
	}
	res, err := p.seq.Upload(files)
	if err != nil {
		p.report("upload", err)
		p.flush()
		return
	}
	p.view.ShowNotice(uploadSummary(res, unreadable))
	p.flush()
}

func uploadSummary(res sequencer.UploadResult, unreadable int) string {
	parts := []string{fmt.Sprintf("Added %d photo(s)", res.Added)}
	if res.Dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d over the limit", res.Dropped))
	}
	if n := len(res.Failed) + unreadable; n > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable", n))
	}
	return strings.Join(parts, ", ") + "."
}

// Remove deletes the photo in slot i.
func (p *CapturePresenter) Remove(i int) {
	p.report("remove", p.seq.Remove(i))
	p.flush()
}

func (p *CapturePresenter) SetInterval(sec int) {
	p.report("interval", p.seq.SetInterval(sec))
	p.flush()
}

func (p *CapturePresenter) SelectFilter(f filter.Filter) {
	p.report("filter", p.seq.SetFilter(f))
	p.frameSeq = 0 // redraw the feed with the new look
	p.flush()
}

func (p *CapturePresenter) ToggleMirror() {
	p.seq.ToggleMirror()
	p.frameSeq = 0
	p.flush()
}

// Done shows the preview; the route guard keeps the user here without photos.
func (p *CapturePresenter) Done() {
	if p.nav != nil {
		p.nav(RoutePreview)
	}
}

// ChangeFrame returns to the picker.
func (p *CapturePresenter) ChangeFrame() {
	if p.nav != nil {
		p.nav(RoutePicker)
	}
}
