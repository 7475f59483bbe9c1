package view

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/soocke/photobooth-go/domain/filter"
	"github.com/soocke/photobooth-go/domain/sequencer"
	"github.com/soocke/photobooth-go/ui/images"
	"github.com/soocke/photobooth-go/ui/presenter"
	"github.com/soocke/photobooth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CaptureActions is what the capture screen buttons call.
type CaptureActions interface {
	Start()
	Cancel()
	Retake()
	Upload()
	Remove(i int)
	SetInterval(sec int)
	SelectFilter(f filter.Filter)
	ToggleMirror()
	Done()
	ChangeFrame()
}

// CaptureView is the capture screen: live feed, controls and photo slots.
type CaptureView struct {
	logger  *slog.Logger
	actions CaptureActions
	region  FeedRegion

	built      bool
	parent     *FrameWidget
	feed       *feedPreview
	status     *TLabelWidget
	cameraErr  *TLabelWidget
	notice     *LabelWidget
	start      *TButtonWidget
	cancel     *TButtonWidget
	retake     *TButtonWidget
	done       *TButtonWidget
	interval   *TComboboxWidget
	filterBtns map[filter.Filter]*ButtonWidget
	mirror     *ButtonWidget
	strip      *FrameWidget
	photos     []*Img
}

var _ presenter.CaptureView = (*CaptureView)(nil)

func NewCaptureView(region FeedRegion, logger *slog.Logger) *CaptureView {
	return &CaptureView{region: region, logger: logger}
}

// SetActions binds the presenter once both sides exist.
func (v *CaptureView) SetActions(a CaptureActions) { v.actions = a }

func (v *CaptureView) act(fn func(CaptureActions)) func() {
	return func() {
		if v.actions != nil {
			fn(v.actions)
		}
	}
}

func (v *CaptureView) Build(parent *FrameWidget) {
	v.parent = parent
	v.filterBtns = make(map[filter.Filter]*ButtonWidget)

	v.status = parent.TLabel(Txt(""), Style(theme.StyleStatusLabel))
	Grid(v.status, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	left := parent.Frame(Background(theme.ColorBg))
	Grid(left, Row(1), Column(0), Sticky("nw"))
	v.feed = newFeedPreview(left, 0)
	v.cameraErr = left.TLabel(Txt(""), Style(theme.StyleErrorLabel))
	Grid(v.cameraErr, Row(2), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))

	controls := parent.Frame(Background(theme.ColorBg))
	Grid(controls, Row(1), Column(1), Sticky("nw"), Padx("2m"))
	row := 0
	place := func(w *Window) {
		Grid(w, Row(row), Column(0), Columnspan(len(filter.All)), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		row++
	}
	v.start = controls.TButton(Txt("Start"), Style(theme.StylePrimaryButton), Command(v.act(CaptureActions.Start)))
	place(v.start.Window)
	v.cancel = controls.TButton(Txt("Cancel"), Command(v.act(CaptureActions.Cancel)))
	place(v.cancel.Window)
	v.retake = controls.TButton(Txt("Retake"), Command(v.act(CaptureActions.Retake)))
	place(v.retake.Window)
	place(controls.TButton(Txt("Upload Photos"), Command(v.act(CaptureActions.Upload))).Window)

	place(controls.Label(Txt("Timer"), Anchor("w"), Background(theme.ColorBg), Foreground(theme.ColorText)).Window)
	labels := make([]string, len(sequencer.AllowedIntervals))
	for i, sec := range sequencer.AllowedIntervals {
		labels[i] = fmt.Sprintf("%d seconds", sec)
	}
	v.interval = controls.TCombobox(Values(labels), Width(12), State("readonly"))
	place(v.interval.Window)
	v.interval.Current(0)
	Bind(v.interval, "<<ComboboxSelected>>", Command(v.intervalChanged))

	place(controls.Label(Txt("Filter"), Anchor("w"), Background(theme.ColorBg), Foreground(theme.ColorText)).Window)
	for i, f := range filter.All {
		btn := controls.Button(Txt(f.Label()), Relief("raised"), Borderwidth(1),
			Command(v.act(func(a CaptureActions) { a.SelectFilter(f) })))
		Grid(btn, Row(row), Column(i), Sticky("we"), Padx("0.1m"), Pady("0.2m"))
		v.filterBtns[f] = btn
	}
	row++
	v.mirror = controls.Button(Txt("Mirror: off"), Relief("raised"), Borderwidth(1), Command(v.act(CaptureActions.ToggleMirror)))
	place(v.mirror.Window)

	if v.region != nil {
		place(controls.TButton(Txt("Feed Region"), Command(v.region.OpenOrFocus)).Window)
	}
	place(controls.TButton(Txt("Change Frame"), Command(v.act(CaptureActions.ChangeFrame))).Window)
	v.done = controls.TButton(Txt("Done"), Style(theme.StylePrimaryButton), Command(v.act(CaptureActions.Done)))
	place(v.done.Window)

	v.strip = parent.Frame(Background(theme.ColorBg))
	Grid(v.strip, Row(2), Column(0), Columnspan(2), Sticky("we"), Pady("1m"))
	v.notice = parent.Label(Txt(""), Anchor("w"), Background(theme.ColorBg), Foreground(theme.ColorDeep))
	Grid(v.notice, Row(3), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"))
	v.built = true
}

func (v *CaptureView) intervalChanged() {
	if v.interval == nil {
		return
	}
	idx, err := strconv.Atoi(v.interval.Current(nil))
	if err != nil || idx < 0 || idx >= len(sequencer.AllowedIntervals) {
		if v.logger != nil {
			v.logger.Error("interval selection parse error", "error", err)
		}
		return
	}
	sec := sequencer.AllowedIntervals[idx]
	v.act(func(a CaptureActions) { a.SetInterval(sec) })()
}

// Release drops widget references and Tk photos before the frame goes away.
func (v *CaptureView) Release() {
	v.built = false
	v.feed.release()
	v.releasePhotos()
	v.feed, v.status, v.cameraErr, v.notice = nil, nil, nil, nil
	v.start, v.cancel, v.retake, v.done = nil, nil, nil, nil
	v.interval, v.mirror, v.strip, v.parent = nil, nil, nil, nil
	v.filterBtns = nil
}

func (v *CaptureView) releasePhotos() {
	for _, p := range v.photos {
		p.Delete()
	}
	v.photos = nil
}

func enable(w *Window, on bool) {
	if on {
		w.Configure(State("normal"))
	} else {
		w.Configure(State("disabled"))
	}
}

func (v *CaptureView) SetCameraError(msg string) {
	if v.built {
		v.cameraErr.Configure(Txt(msg))
	}
}

func (v *CaptureView) SetCaptureEnabled(enabled bool) {
	if !v.built {
		return
	}
	enable(v.start.Window, enabled)
	enable(v.retake.Window, enabled)
}

func (v *CaptureView) ShowFeed(img image.Image) {
	if v.built {
		v.feed.show(img)
	}
}

func (v *CaptureView) ResetFeed() {
	if v.built {
		v.feed.reset()
	}
}

func (v *CaptureView) ShowStatus(text string) {
	if v.built {
		v.status.Configure(Txt(text))
	}
}

// ShowPhotos rebuilds the slot strip: a thumbnail with a Remove button for
// every taken photo and a placeholder for every free slot.
func (v *CaptureView) ShowPhotos(thumbs []image.Image, max int, removable bool) {
	if !v.built {
		return
	}
	v.releasePhotos()
	Destroy(v.strip)
	v.strip = v.parent.Frame(Background(theme.ColorBg))
	Grid(v.strip, Row(2), Column(0), Columnspan(2), Sticky("we"), Pady("1m"))
	for i := 0; i < max; i++ {
		if i < len(thumbs) && thumbs[i] != nil {
			photo := NewPhoto(Data(images.EncodePNG(thumbs[i])))
			v.photos = append(v.photos, photo)
			lbl := v.strip.Label(Image(photo), Borderwidth(2), Relief("solid"), Background(theme.ColorPrimary))
			Grid(lbl, Row(0), Column(i), Padx("1m"))
			rm := v.strip.TButton(Txt("Remove"), Command(v.act(func(a CaptureActions) { a.Remove(i) })))
			Grid(rm, Row(1), Column(i), Pady("0.3m"))
			enable(rm.Window, removable)
			continue
		}
		slot := v.strip.Label(Txt(fmt.Sprintf("Photo %d", i+1)), Width(20), Height(5), Borderwidth(1), Relief("groove"),
			Background(theme.ColorSurface), Foreground(theme.ColorTextMuted))
		Grid(slot, Row(0), Column(i), Padx("1m"))
	}
}

// SetRunning toggles Cancel and locks the timer while a sequence runs.
func (v *CaptureView) SetRunning(running bool) {
	if !v.built {
		return
	}
	enable(v.cancel.Window, running)
	if running {
		v.interval.Configure(State("disabled"))
	} else {
		v.interval.Configure(State("readonly"))
	}
}

func (v *CaptureView) SetSettings(interval int, f filter.Filter, mirror bool) {
	if !v.built {
		return
	}
	for i, sec := range sequencer.AllowedIntervals {
		if sec == interval {
			v.interval.Current(i)
		}
	}
	for ff, btn := range v.filterBtns {
		if ff == f {
			btn.Configure(Relief("sunken"), Background(theme.ColorPrimary), Foreground("white"))
		} else {
			btn.Configure(Relief("raised"), Background(theme.ColorSurface), Foreground(theme.ColorText))
		}
	}
	if mirror {
		v.mirror.Configure(Txt("Mirror: on"), Relief("sunken"))
	} else {
		v.mirror.Configure(Txt("Mirror: off"), Relief("raised"))
	}
}

func (v *CaptureView) SetDoneEnabled(enabled bool) {
	if v.built {
		enable(v.done.Window, enabled)
	}
}

func (v *CaptureView) SetFeedTime(session, total time.Duration) {
	if v.built {
		v.feed.setTimes(session, total)
	}
}

func (v *CaptureView) ShowNotice(text string) {
	if v.built {
		v.notice.Configure(Txt(text))
	}
}

func (v *CaptureView) ConfirmRetake() bool {
	answer := MessageBox(Icon("question"), Title("Retake"), Type("yesno"),
		Msg("Retake discards the photos you have taken. Continue?"))
	return answer == "yes"
}

func (v *CaptureView) ChooseUploadFiles() []string {
	return GetOpenFile(Multiple(true), Title("Upload photos"), Filetypes([]FileType{
		{TypeName: "Images", Extensions: []string{".png", ".jpg", ".jpeg"}},
		{TypeName: "All files", Extensions: []string{"*"}},
	}))
}
