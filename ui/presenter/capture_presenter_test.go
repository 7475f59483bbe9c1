package presenter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	cap "github.com/soocke/photobooth-go/domain/capture"
	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/filter"
	"github.com/soocke/photobooth-go/domain/frames"
	"github.com/soocke/photobooth-go/domain/sequencer"
	"github.com/soocke/photobooth-go/ui/model"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// mockCamera satisfies Camera and the sequencer's frame source.
type mockCamera struct {
	mu       sync.Mutex
	startErr error
	running  bool
	started  int
	stopped  int
	seq      uint64
}

func (c *mockCamera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started++
	if c.startErr != nil {
		return c.startErr
	}
	c.running = true
	return nil
}

func (c *mockCamera) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped++
	c.running = false
}

func (c *mockCamera) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *mockCamera) LatestFrame() cap.FrameSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return cap.FrameSnapshot{}
	}
	return cap.FrameSnapshot{Image: image.NewRGBA(image.Rect(0, 0, 64, 36)), CapturedAt: time.Now(), Sequence: c.seq}
}

func (c *mockCamera) advance() {
	c.mu.Lock()
	c.seq++
	c.mu.Unlock()
}

var _ Camera = (*mockCamera)(nil)
var _ cap.FrameSource = (*mockCamera)(nil)

type mockCaptureView struct {
	cameraErr      string
	captureEnabled bool
	feeds          int
	resets         int
	status         string
	thumbs         []image.Image
	max            int
	removable      bool
	running        bool
	interval       int
	filter         filter.Filter
	mirror         bool
	doneEnabled    bool
	notice         string
	confirm        bool
	confirmAsked   int
	files          []string
}

func (v *mockCaptureView) SetCameraError(msg string)    { v.cameraErr = msg }
func (v *mockCaptureView) SetCaptureEnabled(b bool)     { v.captureEnabled = b }
func (v *mockCaptureView) ShowFeed(image.Image)         { v.feeds++ }
func (v *mockCaptureView) ResetFeed()                   { v.resets++ }
func (v *mockCaptureView) ShowStatus(text string)       { v.status = text }
func (v *mockCaptureView) SetRunning(b bool)            { v.running = b }
func (v *mockCaptureView) SetDoneEnabled(b bool)        { v.doneEnabled = b }
func (v *mockCaptureView) SetFeedTime(_, _ time.Duration) {}
func (v *mockCaptureView) ShowNotice(text string)       { v.notice = text }
func (v *mockCaptureView) ChooseUploadFiles() []string  { return v.files }
func (v *mockCaptureView) ConfirmRetake() bool {
	v.confirmAsked++
	return v.confirm
}
func (v *mockCaptureView) ShowPhotos(thumbs []image.Image, max int, removable bool) {
	v.thumbs, v.max, v.removable = thumbs, max, removable
}
func (v *mockCaptureView) SetSettings(interval int, f filter.Filter, mirror bool) {
	v.interval, v.filter, v.mirror = interval, f, mirror
}

var _ CaptureView = (*mockCaptureView)(nil)

type captureFixture struct {
	p      *CapturePresenter
	seq    *sequencer.Sequencer
	state  *booth.State
	camera *mockCamera
	view   *mockCaptureView
	model  *model.CameraModel
	routes []Route
}

func newCaptureFixture(t *testing.T, frameID int) *captureFixture {
	t.Helper()
	f := &captureFixture{camera: &mockCamera{seq: 1}, view: &mockCaptureView{}, model: &model.CameraModel{}}
	f.state = booth.NewState(frames.DefaultCatalog(), nil, discardLogger)
	if err := f.state.SetFrame(context.Background(), frameID); err != nil {
		t.Fatalf("set frame: %v", err)
	}
	f.seq = sequencer.New(discardLogger, f.state, f.camera, sequencer.Options{
		Interval:  3,
		NewTicker: func(time.Duration) sequencer.Ticker { return idleTicker{} },
	})
	t.Cleanup(f.seq.Close)
	nav := func(r Route) Route { f.routes = append(f.routes, r); return r }
	f.p = NewCapturePresenter(f.seq, f.camera, f.model, model.NewFeedSession(), f.view, nav, discardLogger)
	return f
}

type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop()               {}

func pngFile(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestCapturePresenter_CameraFailureDisablesCapture(t *testing.T) {
	f := newCaptureFixture(t, 2)
	f.camera.startErr = &cap.PermissionError{Err: errors.New("denied")}
	f.p.Enter()
	if f.view.cameraErr == "" || f.model.Error() == "" {
		t.Fatalf("expected persistent camera error")
	}
	if f.view.captureEnabled {
		t.Fatalf("capture controls should be disabled")
	}
	f.p.Start()
	if !strings.Contains(f.view.notice, "camera") {
		t.Fatalf("expected camera notice, got %q", f.view.notice)
	}
	if f.seq.Snapshot().State != sequencer.StateIdle {
		t.Fatalf("sequence must not start without a camera")
	}
}

func TestCapturePresenter_SequenceRendersOnTick(t *testing.T) {
	f := newCaptureFixture(t, 2)
	f.p.Enter()
	if !f.view.captureEnabled || f.view.max != 4 {
		t.Fatalf("unexpected initial render: %+v", f.view)
	}
	f.p.Start()
	if !f.view.running || f.view.captureEnabled || f.view.removable {
		t.Fatalf("running state not rendered: %+v", f.view)
	}
	now := time.Now()
	for i := 1; i <= 3; i++ {
		f.seq.Tick(now.Add(time.Duration(i) * time.Second))
	}
	f.p.Tick(now.Add(3 * time.Second))
	if len(f.view.thumbs) != 1 || f.view.thumbs[0] == nil {
		t.Fatalf("expected one thumbnail, got %d", len(f.view.thumbs))
	}
	if !strings.Contains(f.view.status, "3 left") {
		t.Fatalf("unexpected status %q", f.view.status)
	}
}

func TestCapturePresenter_LeaveCancelsAndReleases(t *testing.T) {
	f := newCaptureFixture(t, 2)
	f.p.Enter()
	f.p.Start()
	f.p.Leave()
	if f.camera.stopped != 1 || f.camera.Running() {
		t.Fatalf("camera not released on leave")
	}
	if f.seq.Snapshot().State != sequencer.StateIdle {
		t.Fatalf("sequence not cancelled on leave")
	}
	if f.model.Live() {
		t.Fatalf("model still live")
	}
	feeds := f.view.feeds
	f.camera.advance()
	f.p.Tick(time.Now())
	if f.view.feeds != feeds {
		t.Fatalf("inactive presenter must not draw the feed")
	}
}

func TestCapturePresenter_FeedRefreshesOnNewFrames(t *testing.T) {
	f := newCaptureFixture(t, 1)
	f.p.Enter()
	f.p.Tick(time.Now())
	f.p.Tick(time.Now())
	if f.view.feeds != 1 {
		t.Fatalf("expected a single draw for one frame, got %d", f.view.feeds)
	}
	f.camera.advance()
	f.p.Tick(time.Now())
	if f.view.feeds != 2 {
		t.Fatalf("expected redraw on new frame, got %d", f.view.feeds)
	}
	f.p.SelectFilter(filter.Mono)
	f.p.Tick(time.Now())
	if f.view.feeds != 3 || f.view.filter != filter.Mono {
		t.Fatalf("filter change should redraw the feed")
	}
}

func TestCapturePresenter_RetakeConfirmation(t *testing.T) {
	f := newCaptureFixture(t, 2)
	f.p.readFile = func(string) ([]byte, error) { return pngFile(t), nil }
	f.view.files = []string{"a.png"}
	f.p.Enter()
	f.p.Upload()
	if f.state.PhotoCount() != 1 {
		t.Fatalf("upload not applied")
	}
	f.view.confirm = false
	f.p.Retake()
	if f.view.confirmAsked != 1 || f.state.PhotoCount() != 1 || f.seq.Snapshot().RetakePending {
		t.Fatalf("declined retake must keep photos")
	}
	f.view.confirm = true
	f.p.Retake()
	if f.state.PhotoCount() != 0 || f.seq.Snapshot().State != sequencer.StateRunning {
		t.Fatalf("confirmed retake should clear and start")
	}
}

func TestCapturePresenter_UploadSummary(t *testing.T) {
	f := newCaptureFixture(t, 1)
	good := pngFile(t)
	f.p.readFile = func(path string) ([]byte, error) {
		switch path {
		case "missing.png":
			return nil, errors.New("not found")
		case "bad.png":
			return []byte("nope"), nil
		}
		return good, nil
	}
	f.view.files = []string{"1.png", "missing.png", "bad.png", "2.png", "3.png", "4.png"}
	f.p.Enter()
	f.p.Upload()
	if f.state.PhotoCount() != 3 {
		t.Fatalf("expected frame filled to 3, got %d", f.state.PhotoCount())
	}
	want := "Added 3 photo(s), 1 over the limit, 2 unreadable."
	if f.view.notice != want {
		t.Fatalf("notice = %q want %q", f.view.notice, want)
	}
	if !f.view.doneEnabled {
		t.Fatalf("done should be enabled with photos")
	}
}

func TestCapturePresenter_NavigationActions(t *testing.T) {
	f := newCaptureFixture(t, 1)
	f.p.Done()
	f.p.ChangeFrame()
	if len(f.routes) != 2 || f.routes[0] != RoutePreview || f.routes[1] != RoutePicker {
		t.Fatalf("unexpected routes %v", f.routes)
	}
}

func TestCapturePresenter_ThumbnailsDistinguishSameBatchUploads(t *testing.T) {
	f := newCaptureFixture(t, 2)
	at := time.Unix(100, 0)
	solidUpload := func(c color.RGBA) booth.Photo {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode: %v", err)
		}
		ph, err := booth.NewUpload(buf.Bytes(), at)
		if err != nil {
			t.Fatalf("upload: %v", err)
		}
		return ph
	}
	red := solidUpload(color.RGBA{255, 0, 0, 255})
	blue := solidUpload(color.RGBA{0, 0, 255, 255})

	thumbs := f.p.thumbnails([]booth.Photo{red, blue})
	if len(thumbs) != 2 || thumbs[0] == nil || thumbs[1] == nil {
		t.Fatalf("expected two thumbnails, got %v", thumbs)
	}
	r0, _, b0, _ := thumbs[0].At(0, 0).RGBA()
	r1, _, b1, _ := thumbs[1].At(0, 0).RGBA()
	if r0 == 0 || b0 != 0 || r1 != 0 || b1 == 0 {
		t.Fatalf("thumbnails mixed up: first %d/%d second %d/%d", r0, b0, r1, b1)
	}
	// cached on the second pass, still per photo
	thumbs = f.p.thumbnails([]booth.Photo{blue, red})
	if r, _, _, _ := thumbs[0].At(0, 0).RGBA(); r != 0 {
		t.Fatalf("cached thumbnail bound to the wrong photo")
	}
}
