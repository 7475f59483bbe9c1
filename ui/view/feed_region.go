package view

import (
	"fmt"
	"image"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/soocke/photobooth-go/config"
	"github.com/soocke/photobooth-go/domain/capture"
	"github.com/soocke/photobooth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// FeedRegion is the translucent overlay window the user drags over a webcam
// viewer (or any window) to choose the screen rectangle used as the camera.
type FeedRegion interface {
	OpenOrFocus()
	Clear()
	ActiveRect() *image.Rectangle
}

type feedRegion struct {
	logger  *slog.Logger
	cfg     *config.Config
	cfgPath string
	region  atomic.Value // image.Rectangle, read by the capture goroutine
	win     *ToplevelWidget
	// onChange runs on the Tk thread after the region was confirmed or cleared.
	onChange func()
}

// NewFeedRegion restores the persisted region from cfg.
func NewFeedRegion(cfg *config.Config, cfgPath string, logger *slog.Logger, onChange func()) FeedRegion {
	v := &feedRegion{logger: logger, cfg: cfg, cfgPath: cfgPath, onChange: onChange}
	if cfg != nil && cfg.FeedW > 0 && cfg.FeedH > 0 {
		v.region.Store(image.Rect(cfg.FeedX, cfg.FeedY, cfg.FeedX+cfg.FeedW, cfg.FeedY+cfg.FeedH))
	}
	return v
}

func (v *feedRegion) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(3), Background(theme.ColorPrimary))
	win.WmTitle("Feed Region")
	v.win = win
	r := capture.DefaultRegion
	if cur := v.ActiveRect(); cur != nil {
		r = *cur
	}
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y))
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-alpha", 0.45)
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	hint := win.Label(Txt("Move and resize this window over your camera view"), Background(theme.ColorBorder), Foreground(theme.ColorDeep))
	Grid(hint, Row(0), Column(0), Sticky("nsew"))
	controls := win.Frame(Background(theme.ColorBg))
	Grid(controls, Row(1), Column(0), Sticky("we"))
	confirm := controls.Button(Txt("Use Region [Enter]"), Command(v.confirm))
	Grid(confirm, Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := controls.Button(Txt("Cancel [Esc]"), Command(v.cancel))
	Grid(cancel, Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	reset := controls.Button(Txt("Reset"), Command(func() { v.Clear(); v.destroy() }))
	Grid(reset, Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.cancel))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.cancel)
}

// Clear drops the custom region so the feed falls back to the default one.
func (v *feedRegion) Clear() {
	v.region.Store(image.Rectangle{})
	if v.cfg != nil {
		v.cfg.FeedX, v.cfg.FeedY, v.cfg.FeedW, v.cfg.FeedH = 0, 0, 0, 0
		v.persist()
	}
	v.changed()
}

func (v *feedRegion) confirm() {
	if v.win == nil {
		return
	}
	rect, ok := parseGeometry(WmGeometry(v.win.Window))
	if !ok {
		if v.logger != nil {
			v.logger.Warn("feed region geometry unreadable")
		}
		v.destroy()
		return
	}
	v.region.Store(rect)
	if v.cfg != nil {
		v.cfg.FeedX, v.cfg.FeedY = rect.Min.X, rect.Min.Y
		v.cfg.FeedW, v.cfg.FeedH = rect.Dx(), rect.Dy()
		v.persist()
	}
	if v.logger != nil {
		v.logger.Info("feed region set", "rect", rect.String())
	}
	v.destroy()
	v.changed()
}

func (v *feedRegion) persist() {
	if err := v.cfg.Save(v.cfgPath); err != nil && v.logger != nil {
		v.logger.Error("config save failed", "error", err)
	}
}

func (v *feedRegion) changed() {
	if v.onChange != nil {
		v.onChange()
	}
}

func (v *feedRegion) cancel() { v.destroy() }

func (v *feedRegion) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

func (v *feedRegion) ActiveRect() *image.Rectangle {
	rv := v.region.Load()
	if rv == nil {
		return nil
	}
	r, ok := rv.(image.Rectangle)
	if !ok || r.Empty() {
		return nil
	}
	return &r
}

// geomRe matches Tk geometry strings "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

func parseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
