package booth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/soocke/photobooth-go/domain/frames"
)

var (
	ErrUnknownFrame    = errors.New("booth: unknown frame")
	ErrNoFrame         = errors.New("booth: no frame selected")
	ErrPhotosFull      = errors.New("booth: photo limit reached")
	ErrIndexOutOfRange = errors.New("booth: photo index out of range")
)

// FrameStore persists the selected frame identifier across restarts.
type FrameStore interface {
	LoadFrame(ctx context.Context) (int, bool, error)
	SaveFrame(ctx context.Context, id int) error
}

// State is the session state shared by the views: the selected frame and the
// captured photos in slot order. It is owned by the app container and safe for
// concurrent use.
type State struct {
	mu       sync.RWMutex
	catalog  *frames.Catalog
	store    FrameStore
	logger   *slog.Logger
	frameID  int
	hasFrame bool
	photos   []Photo
}

// NewState returns an empty state. store may be nil (no persistence).
func NewState(catalog *frames.Catalog, store FrameStore, logger *slog.Logger) *State {
	return &State{catalog: catalog, store: store, logger: logger}
}

// Restore loads the persisted frame id. Unknown ids are ignored.
func (s *State) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	id, ok, err := s.store.LoadFrame(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if _, known := s.catalog.Lookup(id); !known {
		if s.logger != nil {
			s.logger.Warn("ignoring persisted frame", "frame", id)
		}
		return nil
	}
	s.mu.Lock()
	s.frameID, s.hasFrame = id, true
	s.mu.Unlock()
	return nil
}

// SetFrame selects a frame and persists the choice. Switching to a different
// frame discards the captured photos.
func (s *State) SetFrame(ctx context.Context, id int) error {
	if _, ok := s.catalog.Lookup(id); !ok {
		return ErrUnknownFrame
	}
	s.mu.Lock()
	if !s.hasFrame || s.frameID != id {
		s.photos = nil
	}
	s.frameID, s.hasFrame = id, true
	s.mu.Unlock()
	if s.store != nil {
		if err := s.store.SaveFrame(ctx, id); err != nil {
			return err
		}
	}
	if s.logger != nil {
		s.logger.Info("frame selected", "frame", id)
	}
	return nil
}

// Frame returns the selected frame id.
func (s *State) Frame() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frameID, s.hasFrame
}

// Definition returns the selected frame's definition.
func (s *State) Definition() (frames.FrameDefinition, bool) {
	id, ok := s.Frame()
	if !ok {
		return frames.FrameDefinition{}, false
	}
	return s.catalog.Lookup(id)
}

// MaxPhotos is the photo cap of the selected frame, 0 without a frame.
func (s *State) MaxPhotos() int {
	id, ok := s.Frame()
	if !ok {
		return 0
	}
	return s.catalog.MaxPhotos(id)
}

// Photos returns a copy of the captured photos.
func (s *State) Photos() []Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Photo(nil), s.photos...)
}

// PhotoCount returns the number of captured photos.
func (s *State) PhotoCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.photos)
}

// Remaining is the number of free slots.
func (s *State) Remaining() int {
	max := s.MaxPhotos()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := max - len(s.photos); n > 0 {
		return n
	}
	return 0
}

// AppendPhoto adds p after the existing photos.
func (s *State) AppendPhoto(p Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasFrame {
		return ErrNoFrame
	}
	if len(s.photos) >= s.catalog.MaxPhotos(s.frameID) {
		return ErrPhotosFull
	}
	s.photos = append(s.photos, p)
	return nil
}

// RemovePhoto deletes the photo at i; the others keep their relative order.
func (s *State) RemovePhoto(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.photos) {
		return ErrIndexOutOfRange
	}
	s.photos = append(s.photos[:i:i], s.photos[i+1:]...)
	return nil
}

// ClearPhotos drops every captured photo.
func (s *State) ClearPhotos() {
	s.mu.Lock()
	s.photos = nil
	s.mu.Unlock()
}
