package presenter

import "log/slog"

// Route identifies one of the three screens.
type Route int

const (
	RoutePicker Route = iota
	RouteCapture
	RoutePreview
)

func (r Route) String() string {
	switch r {
	case RoutePicker:
		return "picker"
	case RouteCapture:
		return "capture"
	case RoutePreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Screen is a presenter with an explicit lifetime on screen.
type Screen interface {
	Enter()
	Leave()
}

// RouteState is the session state the route guards consult.
type RouteState interface {
	Frame() (int, bool)
	PhotoCount() int
}

// Navigator switches between screens. Leave on the current screen always runs
// before Enter on the next one, so resources held by a screen are released on
// every exit path.
type Navigator struct {
	state   RouteState
	screens map[Route]Screen
	onRoute func(Route)
	logger  *slog.Logger
	current Route
	active  bool
}

// NewNavigator returns a navigator with no screen shown. onRoute is called
// between Leave and Enter so the view can swap its content.
func NewNavigator(state RouteState, onRoute func(Route), logger *slog.Logger) *Navigator {
	return &Navigator{state: state, screens: make(map[Route]Screen), onRoute: onRoute, logger: logger}
}

// Register binds a presenter to a route.
func (n *Navigator) Register(r Route, s Screen) { n.screens[r] = s }

// Resolve applies the route guards: capture needs a frame, preview needs a
// frame and at least one photo.
func (n *Navigator) Resolve(r Route) Route {
	switch r {
	case RouteCapture:
		if _, ok := n.state.Frame(); !ok {
			return RoutePicker
		}
	case RoutePreview:
		if _, ok := n.state.Frame(); !ok {
			return RoutePicker
		}
		if n.state.PhotoCount() == 0 {
			return n.Resolve(RouteCapture)
		}
	}
	return r
}

// Go navigates to the resolved target of r and returns it.
func (n *Navigator) Go(r Route) Route {
	target := n.Resolve(r)
	if target != r && n.logger != nil {
		n.logger.Info("route redirected", "requested", r.String(), "target", target.String())
	}
	n.leave()
	n.current, n.active = target, true
	if n.onRoute != nil {
		n.onRoute(target)
	}
	if s := n.screens[target]; s != nil {
		s.Enter()
	}
	if n.logger != nil {
		n.logger.Debug("route entered", "route", target.String())
	}
	return target
}

// Current returns the shown route.
func (n *Navigator) Current() (Route, bool) { return n.current, n.active }

// Close leaves the current screen. Used on window close.
func (n *Navigator) Close() {
	n.leave()
	n.active = false
}

func (n *Navigator) leave() {
	if !n.active {
		return
	}
	if s := n.screens[n.current]; s != nil {
		s.Leave()
	}
}
