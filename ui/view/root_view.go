package view

import (
	"log/slog"

	"github.com/soocke/photobooth-go/ui/presenter"
	"github.com/soocke/photobooth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RouteView is the widget side of a route. Build is called with a fresh content
// frame every time the route is shown; the frame is destroyed on the next
// route change.
type RouteView interface {
	Build(parent *FrameWidget)
	Release()
}

var (
	_ RouteView = (*PickerView)(nil)
	_ RouteView = (*CaptureView)(nil)
	_ RouteView = (*PreviewView)(nil)
)

// RootView composes the window: a header with the step indicator and a
// content area that is swapped on every route change.
type RootView struct {
	logger *slog.Logger

	screens map[presenter.Route]RouteView
	current RouteView

	// Widgets
	steps   map[presenter.Route]*LabelWidget
	content *FrameWidget
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger, screens: make(map[presenter.Route]RouteView), steps: make(map[presenter.Route]*LabelWidget)}
}

// Register binds the widgets of a route.
func (rv *RootView) Register(r presenter.Route, s RouteView) { rv.screens[r] = s }

// Build constructs the header. onExit is wired to the Exit button.
func (rv *RootView) Build(onExit func()) {
	if rv == nil {
		return
	}
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, 1, Weight(1))

	header := Frame(Background(theme.ColorBorder), Padx("4p"), Pady("2p"))
	Grid(header, Row(0), Column(0), Sticky("we"))
	title := header.Label(Txt("Photobooth"), Background(theme.ColorBorder), Foreground(theme.ColorDeep))
	Grid(title, Row(0), Column(0), Sticky("w"), Padx("1m"))
	for i, r := range []presenter.Route{presenter.RoutePicker, presenter.RouteCapture, presenter.RoutePreview} {
		lbl := header.Label(Txt(stepTitle(r)), Borderwidth(1), Relief("ridge"), Width(14),
			Background(theme.ColorSurface), Foreground(theme.ColorTextMuted))
		Grid(lbl, Row(0), Column(i+1), Padx("0.5m"), Pady("0.3m"))
		rv.steps[r] = lbl
	}
	GridColumnConfigure(header.Window, 4, Weight(1))
	exit := header.TButton(Txt("Exit"), Style(theme.StyleDangerButton), Command(onExit))
	Grid(exit, Row(0), Column(5), Sticky("e"), Padx("1m"))
}

// OnRoute swaps the content frame. It runs between Leave and Enter, so the
// entering presenter always renders into the new widgets.
func (rv *RootView) OnRoute(r presenter.Route) {
	if rv == nil {
		return
	}
	if rv.current != nil {
		rv.current.Release()
		rv.current = nil
	}
	if rv.content != nil {
		Destroy(rv.content)
		rv.content = nil
	}
	for route, lbl := range rv.steps {
		if route == r {
			lbl.Configure(Background(theme.ColorPrimary), Foreground("white"))
		} else {
			lbl.Configure(Background(theme.ColorSurface), Foreground(theme.ColorTextMuted))
		}
	}
	rv.content = Frame(Background(theme.ColorBg), Padx("6p"), Pady("6p"))
	Grid(rv.content, Row(1), Column(0), Sticky("nsew"))
	s := rv.screens[r]
	if s == nil {
		if rv.logger != nil {
			rv.logger.Warn("no screen registered", "route", r.String())
		}
		return
	}
	s.Build(rv.content)
	rv.current = s
}

func stepTitle(r presenter.Route) string {
	switch r {
	case presenter.RoutePicker:
		return "1 Choose frame"
	case presenter.RouteCapture:
		return "2 Take photos"
	case presenter.RoutePreview:
		return "3 Print"
	default:
		return r.String()
	}
}
