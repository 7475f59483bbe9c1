package view

import (
	"log/slog"
	"strings"

	"github.com/soocke/photobooth-go/ui/presenter"
	"github.com/soocke/photobooth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const pickerColumns = 5

// PickerActions is what the picker buttons call.
type PickerActions interface {
	Select(id int) error
}

// PickerView shows one image button per frame plus the settings form.
type PickerView struct {
	logger   *slog.Logger
	actions  PickerActions
	settings SettingsPanel

	parent *FrameWidget
	grid   *FrameWidget
	errLbl *TLabelWidget
	recent *LabelWidget
	photos []*Img
}

var _ presenter.PickerView = (*PickerView)(nil)

func NewPickerView(settings SettingsPanel, logger *slog.Logger) *PickerView {
	return &PickerView{settings: settings, logger: logger}
}

// SetActions binds the presenter once both sides exist.
func (v *PickerView) SetActions(a PickerActions) { v.actions = a }

func (v *PickerView) Build(parent *FrameWidget) {
	v.parent = parent
	heading := parent.TLabel(Txt("Choose your frame"), Style(theme.StyleTitleLabel))
	Grid(heading, Row(0), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	v.grid = parent.Frame(Background(theme.ColorBg))
	Grid(v.grid, Row(1), Column(0), Columnspan(2), Sticky("nwe"))
	v.errLbl = parent.TLabel(Txt(""), Style(theme.StyleErrorLabel))
	Grid(v.errLbl, Row(2), Column(0), Columnspan(2), Sticky("w"), Padx("0.4m"))
	v.recent = parent.Label(Txt(""), Anchor("w"), Justify("left"), Background(theme.ColorBg), Foreground(theme.ColorTextMuted))
	Grid(v.recent, Row(3), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	if v.settings != nil {
		v.settings.Build(parent, 4)
	}
}

// ShowRecent lists the latest saved strips under the cards.
func (v *PickerView) ShowRecent(lines []string) {
	if v.recent == nil {
		return
	}
	if len(lines) == 0 {
		v.recent.Configure(Txt(""))
		return
	}
	v.recent.Configure(Txt("Recent strips:\n" + strings.Join(lines, "\n")))
}

// ShowFrames replaces the card buttons.
func (v *PickerView) ShowFrames(cards []presenter.FrameCard) {
	if v.parent == nil {
		return
	}
	v.Release()
	if v.grid != nil {
		Destroy(v.grid)
	}
	v.grid = v.parent.Frame(Background(theme.ColorBg))
	Grid(v.grid, Row(1), Column(0), Columnspan(2), Sticky("nwe"))
	for i, card := range cards {
		photo := NewPhoto(Data(card.PNG))
		v.photos = append(v.photos, photo)
		id := card.ID
		relief := "flat"
		if card.Selected {
			relief = "solid"
		}
		btn := v.grid.Button(Image(photo), Relief(relief), Borderwidth(2), Background(theme.ColorBg),
			Command(func() { v.selectFrame(id) }))
		Grid(btn, Row(i/pickerColumns), Column(i%pickerColumns), Padx("1m"), Pady("1m"))
	}
}

func (v *PickerView) selectFrame(id int) {
	if v.actions == nil {
		return
	}
	if err := v.actions.Select(id); err != nil && v.errLbl != nil {
		v.errLbl.Configure(Txt("Could not select this frame: " + err.Error()))
	}
}

// Release deletes the card photos.
func (v *PickerView) Release() {
	for _, p := range v.photos {
		p.Delete()
	}
	v.photos = nil
}
