package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/photobooth-go/storage"
)

// Recorder stores gallery entries for saved composites.
type Recorder interface {
	RecordCapture(ctx context.Context, c storage.Capture) error
}

// Writer saves composite PNGs into a directory.
type Writer struct {
	dir      string
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewWriter returns a writer saving into dir. recorder may be nil.
func NewWriter(dir string, recorder Recorder, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, recorder: recorder, logger: logger, now: time.Now}
}

// FileName is the download name for a composite taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("photobooth-%d.png", t.UnixMilli())
}

// Save writes png as photobooth-<unix millis>.png and records it in the
// gallery. The written path is returned even when recording fails.
func (w *Writer) Save(ctx context.Context, png []byte, frameID, photos int) (string, error) {
	if len(png) == 0 {
		return "", errors.New("export: empty image")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", w.dir, err)
	}
	at := w.now()
	path := filepath.Join(w.dir, FileName(at))
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(w.dir, fmt.Sprintf("photobooth-%d-%d.png", at.UnixMilli(), i))
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	if w.logger != nil {
		w.logger.Info("composite saved", "path", path, "frame", frameID, "bytes", len(png))
	}
	if w.recorder != nil {
		entry := storage.Capture{ID: uuid.NewString(), FrameID: frameID, Path: path, Photos: photos, CreatedAt: at}
		if err := w.recorder.RecordCapture(ctx, entry); err != nil && w.logger != nil {
			w.logger.Warn("gallery record failed", "path", path, "error", err)
		}
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
