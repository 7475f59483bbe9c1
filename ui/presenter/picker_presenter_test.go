package presenter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soocke/photobooth-go/assets"
	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/frames"
	"github.com/soocke/photobooth-go/storage"
)

type pickerViewMock struct {
	cards  []FrameCard
	recent []string
}

func (v *pickerViewMock) ShowFrames(cards []FrameCard) { v.cards = cards }
func (v *pickerViewMock) ShowRecent(lines []string)    { v.recent = lines }

type galleryMock struct {
	captures []storage.Capture
	err      error
	limit    int
}

func (g *galleryMock) RecentCaptures(_ context.Context, limit int) ([]storage.Capture, error) {
	g.limit = limit
	return g.captures, g.err
}

func TestPickerPresenter_CardsAndSelection(t *testing.T) {
	state := booth.NewState(frames.DefaultCatalog(), nil, discardLogger)
	if err := state.SetFrame(context.Background(), 5); err != nil {
		t.Fatalf("set frame: %v", err)
	}
	view := &pickerViewMock{}
	var routes []Route
	p := NewPickerPresenter(frames.DefaultCatalog(), state, nil, assets.FS(""), view, func(r Route) Route { routes = append(routes, r); return r }, discardLogger)
	p.Enter()
	if len(view.cards) != 10 {
		t.Fatalf("expected 10 frames, got %d", len(view.cards))
	}
	if view.cards[0].ID != 2 || view.cards[0].Photos != 4 {
		t.Fatalf("unexpected first card %+v", view.cards[0])
	}
	selected := 0
	for _, c := range view.cards {
		if len(c.PNG) == 0 {
			t.Fatalf("card %d not rendered", c.ID)
		}
		if c.Selected {
			selected = c.ID
		}
	}
	if selected != 5 {
		t.Fatalf("persisted frame not highlighted, got %d", selected)
	}

	if err := p.Select(8); err != nil {
		t.Fatalf("select: %v", err)
	}
	if id, _ := state.Frame(); id != 8 || len(routes) != 1 || routes[0] != RouteCapture {
		t.Fatalf("selection not applied: frame=%d routes=%v", id, routes)
	}
	if err := p.Select(42); err == nil {
		t.Fatalf("expected unknown frame error")
	}
}

func TestPickerPresenter_ShowsRecentStrips(t *testing.T) {
	state := booth.NewState(frames.DefaultCatalog(), nil, discardLogger)
	gallery := &galleryMock{captures: []storage.Capture{
		{ID: "b", FrameID: 2, Path: "/tmp/photos/photobooth-2000.png", Photos: 4, CreatedAt: time.Unix(2, 0)},
		{ID: "a", FrameID: 77, Path: "/tmp/photos/photobooth-1000.png", Photos: 1, CreatedAt: time.Unix(1, 0)},
	}}
	view := &pickerViewMock{}
	p := NewPickerPresenter(frames.DefaultCatalog(), state, gallery, assets.FS(""), view, nil, discardLogger)
	p.Enter()
	if gallery.limit != recentN {
		t.Fatalf("expected limit %d, got %d", recentN, gallery.limit)
	}
	if len(view.recent) != 2 {
		t.Fatalf("expected 2 recent lines, got %v", view.recent)
	}
	if !strings.Contains(view.recent[0], "Pink aesthetic, 4 photos") || !strings.HasSuffix(view.recent[0], "photobooth-2000.png") {
		t.Fatalf("unexpected first line %q", view.recent[0])
	}
	if !strings.Contains(view.recent[1], "Frame 77") {
		t.Fatalf("unknown frame should fall back to its id: %q", view.recent[1])
	}

	gallery.err = errors.New("db closed")
	p.Enter()
	if view.recent != nil {
		t.Fatalf("gallery error should show nothing, got %v", view.recent)
	}
}
