package presenter

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/compositor"
	"github.com/soocke/photobooth-go/domain/frames"
)

type photoSourceMock struct {
	photos []booth.Photo
	def    frames.FrameDefinition
	ok     bool
}

func (s *photoSourceMock) Photos() []booth.Photo                      { return s.photos }
func (s *photoSourceMock) Definition() (frames.FrameDefinition, bool) { return s.def, s.ok }

type compositorMock struct {
	res   compositor.Result
	err   error
	calls int
	ctx   context.Context
}

func (c *compositorMock) Composite(ctx context.Context, _ []booth.Photo, _ frames.FrameDefinition) (compositor.Result, error) {
	c.calls++
	c.ctx = ctx
	return c.res, c.err
}

type exporterMock struct {
	saved   [][]byte
	frameID int
	err     error
}

func (e *exporterMock) Save(_ context.Context, png []byte, frameID, _ int) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.saved = append(e.saved, png)
	e.frameID = frameID
	return "photos/photobooth-1.png", nil
}

type previewViewMock struct {
	loading   int
	composite []byte
	grid      []byte
	note      string
	saved     string
	err       string
}

func (v *previewViewMock) ShowLoading()                    { v.loading++ }
func (v *previewViewMock) ShowComposite(png []byte)        { v.composite = png }
func (v *previewViewMock) ShowGrid(png []byte, note string) { v.grid, v.note = png, note }
func (v *previewViewMock) ShowSaved(path string)           { v.saved = path }
func (v *previewViewMock) ShowError(msg string)            { v.err = msg }

// deferredRunner holds background work until the test releases it.
type deferredRunner struct{ fns []func() }

func (r *deferredRunner) run(fn func()) { r.fns = append(r.fns, fn) }
func (r *deferredRunner) drain() {
	for _, fn := range r.fns {
		fn()
	}
	r.fns = nil
}

func uploadPhoto(t *testing.T) booth.Photo {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 9))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	p, err := booth.NewUpload(buf.Bytes(), time.Unix(1, 0))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return p
}

func newPreviewFixture(t *testing.T, frameID int, comp *compositorMock) (*PreviewPresenter, *previewViewMock, *exporterMock, *deferredRunner) {
	t.Helper()
	def, _ := frames.DefaultCatalog().Lookup(frameID)
	src := &photoSourceMock{photos: []booth.Photo{uploadPhoto(t), uploadPhoto(t)}, def: def, ok: true}
	view := &previewViewMock{}
	exp := &exporterMock{}
	r := &deferredRunner{}
	p := NewPreviewPresenter(src, comp, exp, view, nil, discardLogger)
	p.run = r.run
	return p, view, exp, r
}

func TestPreviewPresenter_ShowsCompositeOnTick(t *testing.T) {
	comp := &compositorMock{res: compositor.Result{PNG: []byte("png")}}
	p, view, exp, r := newPreviewFixture(t, 2, comp)
	p.Enter()
	if view.loading != 1 {
		t.Fatalf("expected loading state")
	}
	p.Tick()
	if view.composite != nil {
		t.Fatalf("composite shown before it finished")
	}
	r.drain()
	p.Tick()
	if string(view.composite) != "png" {
		t.Fatalf("composite not shown")
	}
	p.Save()
	if len(exp.saved) != 1 || exp.frameID != 2 || view.saved == "" {
		t.Fatalf("save not delegated: %+v", exp)
	}
}

func TestPreviewPresenter_GridFallbackForPlainFrames(t *testing.T) {
	comp := &compositorMock{err: compositor.ErrNotCompositable}
	p, view, _, r := newPreviewFixture(t, 9, comp)
	p.Enter()
	r.drain()
	p.Tick()
	if view.grid == nil || view.note == "" || view.composite != nil {
		t.Fatalf("expected grid fallback, got %+v", view)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(view.grid)); err != nil {
		t.Fatalf("grid is not a png: %v", err)
	}
	if !p.Ready() {
		t.Fatalf("grid should be saveable")
	}
}

func TestPreviewPresenter_CompositeFailureFallsBack(t *testing.T) {
	comp := &compositorMock{err: &compositor.AssetLoadError{Path: "overlays/2_transparent.png", Err: errors.New("missing")}}
	p, view, _, r := newPreviewFixture(t, 2, comp)
	p.Enter()
	r.drain()
	p.Tick()
	if view.grid == nil {
		t.Fatalf("expected grid after composite failure")
	}
}

func TestPreviewPresenter_LeaveDiscardsInFlight(t *testing.T) {
	comp := &compositorMock{res: compositor.Result{PNG: []byte("png")}}
	p, view, _, r := newPreviewFixture(t, 2, comp)
	p.Enter()
	p.Leave()
	r.drain()
	p.Tick()
	if view.composite != nil {
		t.Fatalf("stale composite shown after leave")
	}
	if comp.ctx == nil || comp.ctx.Err() == nil {
		t.Fatalf("composite context should be cancelled on leave")
	}
	p.Save()
	if view.err == "" {
		t.Fatalf("save without result should report an error")
	}
}

func TestPreviewPresenter_RetakeNavigates(t *testing.T) {
	var got []Route
	p := NewPreviewPresenter(&photoSourceMock{}, &compositorMock{}, &exporterMock{}, &previewViewMock{}, func(r Route) Route { got = append(got, r); return r }, discardLogger)
	p.Retake()
	if len(got) != 1 || got[0] != RouteCapture {
		t.Fatalf("unexpected routes %v", got)
	}
}

type panickingCompositor struct{}

func (panickingCompositor) Composite(context.Context, []booth.Photo, frames.FrameDefinition) (compositor.Result, error) {
	panic("decoder blew up")
}

func TestPreviewPresenter_CompositePanicFallsBackToGrid(t *testing.T) {
	def, _ := frames.DefaultCatalog().Lookup(2)
	src := &photoSourceMock{photos: []booth.Photo{uploadPhoto(t)}, def: def, ok: true}
	view := &previewViewMock{}
	r := &deferredRunner{}
	p := NewPreviewPresenter(src, panickingCompositor{}, &exporterMock{}, view, nil, discardLogger)
	p.run = r.run
	p.Enter()
	r.drain()
	p.Tick()
	if view.grid == nil || view.note == "" {
		t.Fatalf("expected grid fallback after panic, got %+v", view)
	}
	if !p.Ready() {
		t.Fatalf("grid fallback should be saveable")
	}
}
