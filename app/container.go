package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/soocke/photobooth-go/assets"
	"github.com/soocke/photobooth-go/config"
	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/capture"
	"github.com/soocke/photobooth-go/domain/compositor"
	"github.com/soocke/photobooth-go/domain/export"
	"github.com/soocke/photobooth-go/domain/filter"
	"github.com/soocke/photobooth-go/domain/frames"
	"github.com/soocke/photobooth-go/domain/sequencer"
	"github.com/soocke/photobooth-go/storage"
	"github.com/soocke/photobooth-go/ui/model"
	"github.com/soocke/photobooth-go/ui/presenter"
	"github.com/soocke/photobooth-go/ui/view"
)

// AppContainer assembles storage, domain services, models, presenters and views.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Store      *storage.Store
	Catalog    *frames.Catalog
	State      *booth.State
	CaptureSvc capture.CaptureService
	Sequencer  *sequencer.Sequencer
	Compositor *compositor.Compositor
	Exporter   *export.Writer
	Camera     *model.CameraModel
	Session    *model.FeedSession

	// Views
	RootView    *view.RootView
	FeedRegion  view.FeedRegion
	PickerView  *view.PickerView
	CaptureView *view.CaptureView
	PreviewView *view.PreviewView

	// Presenters
	Navigator        *presenter.Navigator
	PickerPresenter  *presenter.PickerPresenter
	CapturePresenter *presenter.CapturePresenter
	PreviewPresenter *presenter.PreviewPresenter
	Loop             *presenter.Loop
}

// BuildContainer constructs all components. No widgets are created here;
// views build their widgets when their route is shown.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger}
	ctx := context.Background()

	store, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.Store = store

	c.Catalog = loadCatalog(cfg, logger)
	c.State = booth.NewState(c.Catalog, store, logger)
	if err := c.State.Restore(ctx); err != nil {
		logger.Warn("restore selection failed", "error", err)
	}

	assetsFS := assets.FS(cfg.AssetsDir)
	c.Camera = &model.CameraModel{}
	c.Session = model.NewFeedSession()
	c.FeedRegion = view.NewFeedRegion(cfg, cfgPath, logger, c.feedRegionChanged)
	c.CaptureSvc = capture.NewCaptureService(logger, func() *image.Rectangle { return nil }, capture.WithFPS(cfg.FeedFPS))
	c.CaptureSvc.SetSelectionProvider(c.FeedRegion.ActiveRect)

	f, err := filter.Parse(cfg.Filter)
	if err != nil {
		logger.Warn("unknown default filter", "filter", cfg.Filter, "error", err)
	}
	c.Sequencer = sequencer.New(logger, c.State, c.CaptureSvc, sequencer.Options{
		Interval:    cfg.IntervalSeconds,
		Filter:      f,
		Mirror:      cfg.Mirror,
		JPEGQuality: cfg.JPEGQuality,
	})
	c.Compositor = compositor.New(assetsFS, logger)
	c.Exporter = export.NewWriter(cfg.OutputDir, store, logger)

	c.RootView = view.NewRootView(logger)
	c.PickerView = view.NewPickerView(view.NewSettingsPanel(cfg, cfgPath, logger), logger)
	c.CaptureView = view.NewCaptureView(c.FeedRegion, logger)
	c.PreviewView = view.NewPreviewView(logger)

	c.Navigator = presenter.NewNavigator(c.State, c.RootView.OnRoute, logger)
	nav := c.Navigator.Go
	c.PickerPresenter = presenter.NewPickerPresenter(c.Catalog, c.State, store, assetsFS, c.PickerView, nav, logger)
	c.CapturePresenter = presenter.NewCapturePresenter(c.Sequencer, c.CaptureSvc, c.Camera, c.Session, c.CaptureView, nav, logger)
	c.PreviewPresenter = presenter.NewPreviewPresenter(c.State, c.Compositor, c.Exporter, c.PreviewView, nav, logger)

	c.PickerView.SetActions(c.PickerPresenter)
	c.CaptureView.SetActions(c.CapturePresenter)
	c.PreviewView.SetActions(c.PreviewPresenter)

	c.Navigator.Register(presenter.RoutePicker, c.PickerPresenter)
	c.Navigator.Register(presenter.RouteCapture, c.CapturePresenter)
	c.Navigator.Register(presenter.RoutePreview, c.PreviewPresenter)
	c.RootView.Register(presenter.RoutePicker, c.PickerView)
	c.RootView.Register(presenter.RouteCapture, c.CaptureView)
	c.RootView.Register(presenter.RoutePreview, c.PreviewView)
	return c, nil
}

// loadCatalog applies the optional YAML slot layouts on top of the built-in
// frames. A broken layouts file is logged and ignored.
func loadCatalog(cfg *config.Config, logger *slog.Logger) *frames.Catalog {
	catalog := frames.DefaultCatalog()
	if cfg.LayoutsPath == "" {
		return catalog
	}
	layouts, err := frames.LoadLayoutsFile(cfg.LayoutsPath)
	if err != nil {
		logger.Error("layouts not loaded", "path", cfg.LayoutsPath, "error", err)
		return catalog
	}
	withLayouts, err := catalog.WithLayouts(layouts)
	if err != nil {
		logger.Error("layouts rejected", "path", cfg.LayoutsPath, "error", err)
		return catalog
	}
	logger.Info("layouts loaded", "path", cfg.LayoutsPath, "frames", len(layouts))
	return withLayouts
}

// feedRegionChanged re-enters the capture screen so the feed is acquired
// again for the new region; this also retries a camera that failed before.
func (c *AppContainer) feedRegionChanged() {
	if c.Navigator == nil {
		return
	}
	if r, ok := c.Navigator.Current(); ok && r == presenter.RouteCapture {
		c.Navigator.Go(presenter.RouteCapture)
	}
}

// Close leaves the current screen and releases every background resource.
func (c *AppContainer) Close() {
	if c == nil {
		return
	}
	if c.Navigator != nil {
		c.Navigator.Close()
	}
	if c.Sequencer != nil {
		c.Sequencer.Close()
	}
	if c.CaptureSvc != nil {
		c.CaptureSvc.Stop()
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.Error("store close failed", "error", err)
		}
	}
}
