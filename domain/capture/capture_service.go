package capture

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

// CaptureService owns the live feed: it grabs the feed region at a fixed rate
// and exposes the latest frame alongside instrumentation data. Use
// NewCaptureService to construct an instance.
type CaptureService interface {
	Start() error
	Stop()
	LatestFrame() FrameSnapshot
	Running() bool
	SetSelectionProvider(func() *image.Rectangle)
	Stats() CaptureStats
}

// Option customises a capture service.
type Option func(*captureService)

// WithGrabber replaces the screen grabber.
func WithGrabber(g Grabber) Option { return func(s *captureService) { s.grab = g } }

// WithFPS sets the grab rate.
func WithFPS(fps int) Option {
	return func(s *captureService) {
		if fps > 0 {
			s.interval = time.Second / time.Duration(fps)
		}
	}
}

type captureService struct {
	lifecycle sync.Mutex // serializes Start/Stop
	running   atomic.Bool
	latest    atomic.Pointer[FrameSnapshot]
	selMu     sync.RWMutex
	selFn     func() *image.Rectangle // user selection rectangle (optional)
	grab      Grabber
	interval  time.Duration
	logger    *slog.Logger
	stop      chan struct{}
	done      chan struct{}

	captures     atomic.Uint64
	failed       atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
}

func newCaptureService(logger *slog.Logger, selectionFn func() *image.Rectangle, opts ...Option) *captureService {
	s := &captureService{selFn: selectionFn, logger: logger, grab: ScreenGrabber, interval: time.Second / 15}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewCaptureService constructs a stopped capture service.
func NewCaptureService(logger *slog.Logger, selectionFn func() *image.Rectangle, opts ...Option) CaptureService {
	return newCaptureService(logger, selectionFn, opts...)
}

func (s *captureService) SetSelectionProvider(fn func() *image.Rectangle) {
	s.selMu.Lock()
	s.selFn = fn
	s.selMu.Unlock()
}

func (s *captureService) region() image.Rectangle {
	s.selMu.RLock()
	fn := s.selFn
	s.selMu.RUnlock()
	if fn != nil {
		if r := fn(); r != nil && !r.Empty() {
			return *r
		}
	}
	return DefaultRegion
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Running:        s.running.Load(),
		Captures:       captures,
		FailedGrabs:    s.failed.Load(),
		AvgGrab:        avg,
		LastCapture:    snapshot.CapturedAt,
		LatestFrameAge: age,
		Sequence:       snapshot.Sequence,
	}
}

// Start acquires the feed. A failing probe grab yields a *PermissionError and
// leaves the service stopped. Starting a running service is a no-op.
func (s *captureService) Start() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if s.running.Load() {
		return nil
	}
	if s.grab == nil {
		return &PermissionError{}
	}
	region := s.region()
	probe, err := s.grab(region)
	if err != nil || probe == nil {
		if s.logger != nil {
			s.logger.Error("feed acquisition failed", "region", region.String(), "error", err)
		}
		return &PermissionError{Err: err}
	}
	s.store(probe, region)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.running.Store(true)
	go s.loop(s.stop, s.done)
	if s.logger != nil {
		s.logger.Info("feed started", "region", region.String(), "interval", s.interval)
	}
	return nil
}

// Stop halts the grab loop, waits for it to exit and drops the latest frame.
// It is idempotent and safe to call on every exit path.
func (s *captureService) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()
	if !s.running.Load() {
		return
	}
	close(s.stop)
	<-s.done
	s.running.Store(false)
	s.latest.Store(nil)
	if s.logger != nil {
		s.logger.Info("feed released", "captures", s.captures.Load())
	}
}

func (s *captureService) store(img *image.RGBA, region image.Rectangle) {
	seq := s.sequence.Add(1)
	s.latest.Store(&FrameSnapshot{Image: img, Region: region, CapturedAt: time.Now(), Sequence: seq})
}

func (s *captureService) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-logTicker.C:
			s.logStats()
		case <-ticker.C:
			start := time.Now()
			region := s.region()
			img, err := s.grab(region)
			if err != nil || img == nil {
				s.failed.Add(1)
				if s.logger != nil && err != nil {
					s.logger.Debug("feed grab", "error", err)
				}
				continue
			}
			s.captureNanos.Add(uint64(time.Since(start).Nanoseconds()))
			s.captures.Add(1)
			s.store(img, region)
		}
	}
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"failed", stats.FailedGrabs,
		"avg_grab", stats.AvgGrab,
		"age", stats.LatestFrameAge,
	)
}

var _ FrameSource = (*captureService)(nil)
