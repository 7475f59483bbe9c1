package presenter

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/soocke/photobooth-go/assets"
	"github.com/soocke/photobooth-go/domain/frames"
	"github.com/soocke/photobooth-go/storage"
	"github.com/soocke/photobooth-go/ui/images"
)

const (
	cardWidth  = 150
	cardHeight = 260
	recentN    = 5
)

// FrameCard is one entry of the frame picker.
type FrameCard struct {
	ID       int
	Name     string
	Photos   int
	PNG      []byte // rendered card
	Selected bool
}

// PickerView shows the frame cards and the latest saved strips.
type PickerView interface {
	ShowFrames(cards []FrameCard)
	ShowRecent(lines []string)
}

// Gallery lists saved strips, newest first.
type Gallery interface {
	RecentCaptures(ctx context.Context, limit int) ([]storage.Capture, error)
}

// FrameSelector selects and reports the current frame.
type FrameSelector interface {
	Frame() (int, bool)
	SetFrame(ctx context.Context, id int) error
}

// PickerPresenter lists the frames and records the user's choice.
type PickerPresenter struct {
	catalog *frames.Catalog
	state   FrameSelector
	gallery Gallery
	assets  fs.FS
	view    PickerView
	nav     func(Route) Route
	logger  *slog.Logger
}

// NewPickerPresenter builds the picker. gallery may be nil.
func NewPickerPresenter(catalog *frames.Catalog, state FrameSelector, gallery Gallery, assetsFS fs.FS, view PickerView, nav func(Route) Route, logger *slog.Logger) *PickerPresenter {
	return &PickerPresenter{catalog: catalog, state: state, gallery: gallery, assets: assetsFS, view: view, nav: nav, logger: logger}
}

// Cards renders the picker cards in display order, marking the selected frame.
func (p *PickerPresenter) Cards() []FrameCard {
	selected, hasSel := p.state.Frame()
	defs := p.catalog.All()
	cards := make([]FrameCard, 0, len(defs))
	for _, def := range defs {
		thumb, err := assets.LoadImage(p.assets, def.ThumbnailAsset)
		if err != nil && p.logger != nil {
			p.logger.Warn("thumbnail missing", "frame", def.ID, "asset", def.ThumbnailAsset, "error", err)
		}
		sel := hasSel && selected == def.ID
		caption := fmt.Sprintf("%s - %d photos", def.Name, def.MaxPhotos)
		cards = append(cards, FrameCard{
			ID:       def.ID,
			Name:     def.Name,
			Photos:   def.MaxPhotos,
			PNG:      images.EncodePNG(images.Card(thumb, caption, cardWidth, cardHeight, sel)),
			Selected: sel,
		})
	}
	return cards
}

func (p *PickerPresenter) Enter() {
	if p == nil || p.view == nil {
		return
	}
	p.view.ShowFrames(p.Cards())
	p.view.ShowRecent(p.Recent())
}

// Recent formats the latest gallery entries. A gallery error shows nothing.
func (p *PickerPresenter) Recent() []string {
	if p.gallery == nil {
		return nil
	}
	recent, err := p.gallery.RecentCaptures(context.Background(), recentN)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("gallery unavailable", "error", err)
		}
		return nil
	}
	lines := make([]string, 0, len(recent))
	for _, c := range recent {
		name := fmt.Sprintf("Frame %d", c.FrameID)
		if def, ok := p.catalog.Lookup(c.FrameID); ok {
			name = def.Name
		}
		lines = append(lines, fmt.Sprintf("%s  %s, %d photos  %s",
			c.CreatedAt.Local().Format("2006-01-02 15:04"), name, c.Photos, filepath.Base(c.Path)))
	}
	return lines
}

func (p *PickerPresenter) Leave() {}

// Select persists the choice and moves on to the capture screen.
func (p *PickerPresenter) Select(id int) error {
	if err := p.state.SetFrame(context.Background(), id); err != nil {
		if p.logger != nil {
			p.logger.Error("frame selection failed", "frame", id, "error", err)
		}
		return err
	}
	if p.nav != nil {
		p.nav(RouteCapture)
	}
	return nil
}
