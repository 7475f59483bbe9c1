package view

import (
	"bytes"
	"image/png"
	"log/slog"

	"github.com/soocke/photobooth-go/ui/images"
	"github.com/soocke/photobooth-go/ui/presenter"
	"github.com/soocke/photobooth-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// The composite is 533x1600; it is shown scaled to fit the window height.
const (
	previewMaxW = 360
	previewMaxH = 560
)

// PreviewActions is what the preview buttons call.
type PreviewActions interface {
	Save()
	Retake()
}

// PreviewView shows the finished strip with Save and Retake.
type PreviewView struct {
	logger  *slog.Logger
	actions PreviewActions

	built  bool
	image  *LabelWidget
	note   *LabelWidget
	result *TLabelWidget
	save   *TButtonWidget
	photo  *Img
}

var _ presenter.PreviewView = (*PreviewView)(nil)

func NewPreviewView(logger *slog.Logger) *PreviewView {
	return &PreviewView{logger: logger}
}

// SetActions binds the presenter once both sides exist.
func (v *PreviewView) SetActions(a PreviewActions) { v.actions = a }

func (v *PreviewView) Build(parent *FrameWidget) {
	v.image = parent.Label(Txt("Rendering your strip..."), Width(40), Height(20), Borderwidth(1), Relief("groove"),
		Background(theme.ColorSurface), Foreground(theme.ColorTextMuted))
	Grid(v.image, Row(0), Column(0), Rowspan(4), Sticky("nw"), Padx("1m"), Pady("1m"))
	v.save = parent.TButton(Txt("Save"), Style(theme.StylePrimaryButton), Command(func() {
		if v.actions != nil {
			v.actions.Save()
		}
	}))
	Grid(v.save, Row(0), Column(1), Sticky("we"), Padx("1m"), Pady("0.3m"))
	retake := parent.TButton(Txt("Retake"), Command(func() {
		if v.actions != nil {
			v.actions.Retake()
		}
	}))
	Grid(retake, Row(1), Column(1), Sticky("we"), Padx("1m"), Pady("0.3m"))
	v.note = parent.Label(Txt(""), Anchor("w"), Background(theme.ColorBg), Foreground(theme.ColorTextMuted))
	Grid(v.note, Row(2), Column(1), Sticky("nw"), Padx("1m"))
	v.result = parent.TLabel(Txt(""), Style(theme.StyleTitleLabel))
	Grid(v.result, Row(3), Column(1), Sticky("nw"), Padx("1m"))
	enable(v.save.Window, false)
	v.built = true
}

func (v *PreviewView) Release() {
	v.built = false
	if v.photo != nil {
		v.photo.Delete()
		v.photo = nil
	}
	v.image, v.note, v.result, v.save = nil, nil, nil, nil
}

func (v *PreviewView) ShowLoading() {
	if !v.built {
		return
	}
	enable(v.save.Window, false)
	v.note.Configure(Txt(""))
	v.result.Configure(Txt(""))
}

func (v *PreviewView) ShowComposite(pngBytes []byte) {
	v.showImage(pngBytes)
}

func (v *PreviewView) ShowGrid(pngBytes []byte, note string) {
	v.showImage(pngBytes)
	if v.built {
		v.note.Configure(Txt(note))
	}
}

// showImage scales the saved PNG for display; the file written by Save keeps
// the full resolution.
func (v *PreviewView) showImage(pngBytes []byte) {
	if !v.built {
		return
	}
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		if v.logger != nil {
			v.logger.Error("preview decode failed", "error", err)
		}
		v.ShowError("The preview could not be shown.")
		return
	}
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(images.EncodePNG(images.ScaleToFit(img, previewMaxW, previewMaxH))))
	v.image.Configure(Image(v.photo), Txt(""), Width(0), Height(0))
	enable(v.save.Window, true)
}

func (v *PreviewView) ShowSaved(path string) {
	if v.built {
		v.result.Configure(Txt("Saved to " + path))
	}
}

func (v *PreviewView) ShowError(msg string) {
	if v.built {
		v.note.Configure(Txt(msg))
	}
}
