package presenter

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"

	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/compositor"
	"github.com/soocke/photobooth-go/domain/frames"
	"github.com/soocke/photobooth-go/ui/images"
)

// PreviewView is the preview screen as seen by the presenter.
type PreviewView interface {
	ShowLoading()
	ShowComposite(png []byte)
	ShowGrid(png []byte, note string)
	ShowSaved(path string)
	ShowError(msg string)
}

// PhotoSource exposes the session photos and frame.
type PhotoSource interface {
	Photos() []booth.Photo
	Definition() (frames.FrameDefinition, bool)
}

// Compositor renders photos into a frame.
type Compositor interface {
	Composite(ctx context.Context, photos []booth.Photo, def frames.FrameDefinition) (compositor.Result, error)
}

// Exporter saves a finished image.
type Exporter interface {
	Save(ctx context.Context, png []byte, frameID, photos int) (string, error)
}

type previewResult struct {
	gen       uint64
	png       []byte
	grid      bool
	note      string
	frameID   int
	photoN    int
	err       error
	delivered bool
}

// PreviewPresenter composites in the background and shows the result on the
// next UI tick. Frames without a layout and failed composites fall back to a
// plain photo grid.
type PreviewPresenter struct {
	source     PhotoSource
	compositor Compositor
	exporter   Exporter
	view       PreviewView
	nav        func(Route) Route
	logger     *slog.Logger
	run        func(func())

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	result *previewResult
}

func NewPreviewPresenter(source PhotoSource, comp Compositor, exporter Exporter, view PreviewView, nav func(Route) Route, logger *slog.Logger) *PreviewPresenter {
	return &PreviewPresenter{
		source:     source,
		compositor: comp,
		exporter:   exporter,
		view:       view,
		nav:        nav,
		logger:     logger,
		run:        func(fn func()) { go fn() },
	}
}

// Enter starts compositing the current photos.
func (p *PreviewPresenter) Enter() {
	if p == nil || p.view == nil {
		return
	}
	def, ok := p.source.Definition()
	photos := p.source.Photos()
	ctx, cancel := context.WithCancel(context.Background())
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.result = nil
	p.mu.Unlock()

	p.view.ShowLoading()
	if !ok {
		p.deliver(&previewResult{gen: gen, err: errors.New("no frame selected")})
		return
	}
	p.run(func() {
		p.deliver(p.renderRecover(ctx, gen, photos, def))
	})
}

// renderRecover turns a panicking composite into the grid fallback so the
// screen never stays on loading.
func (p *PreviewPresenter) renderRecover(ctx context.Context, gen uint64, photos []booth.Photo, def frames.FrameDefinition) (res *previewResult) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if p.logger != nil {
			p.logger.Error("preview composite panic", "frame", def.ID, "error", r)
		}
		res = &previewResult{gen: gen, frameID: def.ID, photoN: len(photos), grid: true,
			note: "The frame could not be rendered; showing your photos."}
		func() {
			defer func() {
				if recover() != nil {
					res.grid = false
					res.err = errors.New("the preview could not be rendered")
				}
			}()
			res.png = gridPNG(photos)
		}()
	}()
	return p.render(ctx, gen, photos, def)
}

func (p *PreviewPresenter) render(ctx context.Context, gen uint64, photos []booth.Photo, def frames.FrameDefinition) *previewResult {
	res := &previewResult{gen: gen, frameID: def.ID, photoN: len(photos)}
	out, err := p.compositor.Composite(ctx, photos, def)
	switch {
	case err == nil:
		res.png = out.PNG
		if len(out.Skipped) > 0 {
			res.note = "Some photos could not be read and were left out."
		}
		return res
	case errors.Is(err, context.Canceled):
		res.err = err
		return res
	case errors.Is(err, compositor.ErrNotCompositable):
		res.note = "This frame has no print layout yet; showing your photos."
	default:
		if p.logger != nil {
			p.logger.Error("composite failed", "frame", def.ID, "error", err)
		}
		res.note = "The frame could not be rendered; showing your photos."
	}
	res.grid = true
	res.png = gridPNG(photos)
	return res
}

func gridPNG(photos []booth.Photo) []byte {
	imgs := make([]image.Image, 0, len(photos))
	for _, ph := range photos {
		if img, err := ph.Decode(); err == nil {
			imgs = append(imgs, img)
		}
	}
	return images.EncodePNG(images.Grid(imgs, 2, 240, 180))
}

func (p *PreviewPresenter) deliver(r *previewResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r.gen != p.gen {
		return
	}
	p.result = r
}

// Tick shows a finished result once.
func (p *PreviewPresenter) Tick() {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	r := p.result
	if r == nil || r.delivered {
		p.mu.Unlock()
		return
	}
	r.delivered = true
	p.mu.Unlock()

	switch {
	case r.err != nil && errors.Is(r.err, context.Canceled):
	case r.err != nil:
		p.view.ShowError(r.err.Error())
	case r.grid:
		p.view.ShowGrid(r.png, r.note)
	default:
		p.view.ShowComposite(r.png)
		if r.note != "" {
			p.view.ShowError(r.note)
		}
	}
}

// Ready reports whether an image is available to save.
func (p *PreviewPresenter) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result != nil && p.result.err == nil && len(p.result.png) > 0
}

// Save writes the shown image to the output directory.
func (p *PreviewPresenter) Save() {
	p.mu.Lock()
	r := p.result
	p.mu.Unlock()
	if r == nil || r.err != nil || len(r.png) == 0 {
		p.view.ShowError("Nothing to save yet.")
		return
	}
	path, err := p.exporter.Save(context.Background(), r.png, r.frameID, r.photoN)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("save failed", "error", err)
		}
		p.view.ShowError("Saving failed: " + err.Error())
		return
	}
	p.view.ShowSaved(path)
}

// Retake goes back to the capture screen.
func (p *PreviewPresenter) Retake() {
	if p.nav != nil {
		p.nav(RouteCapture)
	}
}

// Leave abandons an in-flight composite.
func (p *PreviewPresenter) Leave() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.result = nil
}
