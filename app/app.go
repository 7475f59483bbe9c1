package app

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/photobooth-go/ui/presenter"
	"github.com/soocke/photobooth-go/ui/theme"
)

const (
	tick = 100 * time.Millisecond
)

type app struct {
	c       *AppContainer
	logger  *slog.Logger
	afterID string
	closed  bool
}

// NewApp configures the main window for the assembled container.
func NewApp(title string, c *AppContainer) *app {
	a := &app{c: c, logger: c.Logger}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", c.Config.WindowWidth, c.Config.WindowHeight))
	return a
}

// Start builds the shell, shows the frame picker and runs the Tk event loop
// until the window is closed.
func (a *app) Start() {
	theme.InitStyles()
	a.c.RootView.Build(a.exitHandler)
	a.c.Loop = presenter.NewLoop(a.c.CapturePresenter, a.c.PreviewPresenter, a.scheduleUpdate)
	a.c.Navigator.Go(presenter.RoutePicker)

	a.scheduleUpdate()
	App.Wait()
}

func (a *app) update() {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("ui tick panic", "panic", r, "stack", string(debug.Stack()))
			a.scheduleUpdate()
		}
	}()
	a.c.Loop.Tick()
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// TclAfter keeps the update on Tk's event loop thread.
	a.afterID = TclAfter(tick, a.update)
}

func (a *app) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	a.c.Close()
	a.logger.Info("photobooth closed")
	Destroy(App)
}
