package sequencer

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/soocke/photobooth-go/domain/booth"
	"github.com/soocke/photobooth-go/domain/capture"
	"github.com/soocke/photobooth-go/domain/filter"
)

// Options configure a Sequencer. Zero values fall back to defaults.
type Options struct {
	Interval    int
	Filter      filter.Filter
	Mirror      bool
	JPEGQuality int
	NewTicker   TickerFactory
	Now         func() time.Time
}

// Sequencer runs the timed capture sequence. All state lives on a single
// goroutine; public methods post an event and wait for its reply.
type Sequencer struct {
	// actor-owned
	state         State
	countdown     int
	remaining     int
	interval      int
	filter        filter.Filter
	mirror        bool
	retakePending bool
	generation    uint64
	ticker        Ticker
	tickStop      chan struct{}
	listeners     []Listener

	photos    *booth.State
	camera    capture.FrameSource
	logger    *slog.Logger
	quality   int
	newTicker TickerFactory
	now       func() time.Time

	events    chan any
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs and starts the event loop.
func New(logger *slog.Logger, photos *booth.State, camera capture.FrameSource, opts Options) *Sequencer {
	s := &Sequencer{
		state:     StateIdle,
		interval:  3,
		filter:    opts.Filter,
		mirror:    opts.Mirror,
		photos:    photos,
		camera:    camera,
		logger:    logger,
		quality:   90,
		newTicker: NewTimeTicker,
		now:       time.Now,
		events:    make(chan any, 64),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	if ValidInterval(opts.Interval) {
		s.interval = opts.Interval
	}
	if opts.JPEGQuality > 0 {
		s.quality = opts.JPEGQuality
	}
	if opts.NewTicker != nil {
		s.newTicker = opts.NewTicker
	}
	if opts.Now != nil {
		s.now = opts.Now
	}
	go func() {
		defer close(s.done)
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				if logger != nil {
					logger.Error("sequencer panic", "error", r, "stack", stack)
				}
			}
		}()
		s.loop()
	}()
	return s
}

type result struct {
	err     error
	confirm bool
	mirror  bool
	upload  UploadResult
	snap    Snapshot
}

// events
type (
	evtStart         struct{ reply chan result }
	evtCancel        struct{ reply chan result }
	evtRequestRetake struct{ reply chan result }
	evtConfirmRetake struct{ reply chan result }
	evtDismissRetake struct{ reply chan result }
	evtToggleMirror  struct{ reply chan result }
	evtSnapshot      struct{ reply chan result }
	evtRemove        struct {
		index int
		reply chan result
	}
	evtInterval struct {
		sec   int
		reply chan result
	}
	evtFilter struct {
		f     filter.Filter
		reply chan result
	}
	evtUpload struct {
		files [][]byte
		reply chan result
	}
	evtAddListener struct {
		l     Listener
		reply chan result
	}
	evtTick struct {
		now    time.Time
		gen    uint64
		manual bool
		reply  chan result
	}
)

func (s *Sequencer) loop() {
	defer s.stopTicker()
	for {
		select {
		case <-s.quit:
			return
		case ev := <-s.events:
			s.dispatch(ev)
		}
	}
}

func (s *Sequencer) dispatch(ev any) {
	switch e := ev.(type) {
	case evtStart:
		e.reply <- result{err: s.start()}
	case evtCancel:
		s.cancel()
		e.reply <- result{}
	case evtTick:
		if e.manual {
			e.gen = s.generation
		}
		s.handleTick(e.now, e.gen)
		if e.reply != nil {
			e.reply <- result{}
		}
	case evtRequestRetake:
		confirm, err := s.requestRetake()
		e.reply <- result{confirm: confirm, err: err}
	case evtConfirmRetake:
		e.reply <- result{err: s.confirmRetake()}
	case evtDismissRetake:
		if s.retakePending {
			s.retakePending = false
			s.notify(EventRetakeDismissed)
		}
		e.reply <- result{}
	case evtUpload:
		res, err := s.upload(e.files)
		e.reply <- result{upload: res, err: err}
	case evtRemove:
		e.reply <- result{err: s.remove(e.index)}
	case evtInterval:
		e.reply <- result{err: s.setInterval(e.sec)}
	case evtFilter:
		e.reply <- result{err: s.setFilter(e.f)}
	case evtToggleMirror:
		s.mirror = !s.mirror
		s.notify(EventSettingsChanged)
		e.reply <- result{mirror: s.mirror}
	case evtSnapshot:
		e.reply <- result{snap: s.snapshot()}
	case evtAddListener:
		s.listeners = append(s.listeners, e.l)
		e.reply <- result{}
	}
}

// call posts ev and waits for its reply, or fails once the loop is gone.
func (s *Sequencer) call(ev any, reply chan result) result {
	select {
	case s.events <- ev:
	case <-s.done:
		return result{err: ErrClosed}
	}
	select {
	case r := <-reply:
		return r
	case <-s.done:
		return result{err: ErrClosed}
	}
}

func (s *Sequencer) snapshot() Snapshot {
	snap := Snapshot{
		State:         s.state,
		Interval:      s.interval,
		Filter:        s.filter,
		Mirror:        s.mirror,
		RetakePending: s.retakePending,
	}
	if s.state == StateRunning {
		snap.Countdown, snap.Remaining = s.countdown, s.remaining
	}
	if s.photos != nil {
		snap.Photos = s.photos.Photos()
		snap.MaxPhotos = s.photos.MaxPhotos()
	}
	return snap
}

func (s *Sequencer) notify(ev Event) {
	if len(s.listeners) == 0 {
		return
	}
	snap := s.snapshot()
	for _, l := range s.listeners {
		l(ev, snap)
	}
}

func (s *Sequencer) start() error {
	if s.state == StateRunning {
		return ErrRunning
	}
	if s.camera == nil || !s.camera.Running() {
		return ErrCameraUnavailable
	}
	if s.photos == nil {
		return ErrNoFrame
	}
	if _, ok := s.photos.Frame(); !ok {
		return ErrNoFrame
	}
	s.photos.ClearPhotos()
	s.retakePending = false
	s.remaining = s.photos.MaxPhotos()
	s.countdown = s.interval
	s.state = StateRunning
	s.generation++
	s.armTicker()
	if s.logger != nil {
		s.logger.Info("sequencer started", "interval", s.interval, "photos", s.remaining, "filter", s.filter.String())
	}
	s.notify(EventStarted)
	return nil
}

func (s *Sequencer) cancel() {
	if s.state != StateRunning {
		return
	}
	s.halt()
	if s.logger != nil {
		s.logger.Info("sequencer cancelled", "photos", s.photos.PhotoCount())
	}
	s.notify(EventCancelled)
}

// halt returns to Idle and invalidates in-flight ticks.
func (s *Sequencer) halt() {
	s.stopTicker()
	s.generation++
	s.state = StateIdle
	s.countdown = 0
	s.remaining = 0
}

func (s *Sequencer) handleTick(now time.Time, gen uint64) {
	if s.state != StateRunning || gen != s.generation {
		return
	}
	s.countdown--
	if s.countdown > 0 {
		s.notify(EventCountdown)
		return
	}
	ev := EventCaptured
	if s.photos.Remaining() > 0 {
		if err := s.captureOne(now); err != nil {
			ev = EventCaptureFailed
			if s.logger != nil {
				s.logger.Warn("capture failed", "error", err)
			}
		}
	}
	s.remaining--
	if s.remaining <= 0 || s.photos.Remaining() == 0 {
		s.halt()
		if s.logger != nil {
			s.logger.Info("sequencer finished", "photos", s.photos.PhotoCount())
		}
		if ev == EventCaptureFailed {
			s.notify(ev)
		}
		s.notify(EventFinished)
		return
	}
	s.countdown = s.interval
	s.notify(ev)
}

var errNoFrameAvailable = errors.New("no feed frame available")

func (s *Sequencer) captureOne(now time.Time) error {
	snap := s.camera.LatestFrame()
	if snap.Image == nil {
		return errNoFrameAvailable
	}
	img := filter.Apply(snap.Image, s.filter, s.mirror)
	photo, err := booth.EncodePhoto(img, s.quality, booth.SourceCamera, now)
	if err != nil {
		return err
	}
	if err := s.photos.AppendPhoto(photo); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Debug("photo captured", "index", s.photos.PhotoCount()-1, "bytes", len(photo.Data))
	}
	return nil
}

func (s *Sequencer) requestRetake() (bool, error) {
	if s.state == StateRunning {
		return false, ErrRunning
	}
	if s.photos != nil && s.photos.PhotoCount() > 0 {
		s.retakePending = true
		s.notify(EventRetakeRequested)
		return true, nil
	}
	return false, s.start()
}

func (s *Sequencer) confirmRetake() error {
	if !s.retakePending {
		return ErrNoRetakePending
	}
	s.retakePending = false
	err := s.start()
	if err != nil {
		s.notify(EventRetakeDismissed)
	}
	return err
}

func (s *Sequencer) upload(files [][]byte) (UploadResult, error) {
	var res UploadResult
	if s.photos == nil {
		return res, ErrNoFrame
	}
	if _, ok := s.photos.Frame(); !ok {
		return res, ErrNoFrame
	}
	free := s.photos.Remaining()
	now := s.now()
	for i, data := range files {
		if free == 0 {
			res.Dropped = len(files) - i
			break
		}
		p, err := booth.NewUpload(data, now)
		if err != nil {
			res.Failed = append(res.Failed, i)
			if s.logger != nil {
				s.logger.Warn("upload skipped", "index", i, "error", err)
			}
			continue
		}
		if err := s.photos.AppendPhoto(p); err != nil {
			return res, err
		}
		res.Added++
		free--
	}
	if s.logger != nil {
		s.logger.Info("photos uploaded", "added", res.Added, "dropped", res.Dropped, "failed", len(res.Failed))
	}
	if res.Added > 0 {
		s.notify(EventUploaded)
	}
	return res, nil
}

func (s *Sequencer) remove(i int) error {
	if s.state == StateRunning {
		return ErrRunning
	}
	if err := s.photos.RemovePhoto(i); err != nil {
		return err
	}
	s.notify(EventRemoved)
	return nil
}

func (s *Sequencer) setInterval(sec int) error {
	if s.state == StateRunning {
		return ErrRunning
	}
	if !ValidInterval(sec) {
		return ErrInvalidInterval
	}
	s.interval = sec
	s.notify(EventSettingsChanged)
	return nil
}

func (s *Sequencer) setFilter(f filter.Filter) error {
	if f < filter.None || f > filter.Vibrant {
		return ErrUnknownFilter
	}
	s.filter = f
	s.notify(EventSettingsChanged)
	return nil
}

func (s *Sequencer) armTicker() {
	s.stopTicker()
	t := s.newTicker(time.Second)
	stop := make(chan struct{})
	s.ticker, s.tickStop = t, stop
	gen := s.generation
	go func() {
		defer recoverLog(s.logger, "ticker goroutine panic")
		for {
			select {
			case <-stop:
				return
			case <-s.quit:
				return
			case now := <-t.C():
				select {
				case s.events <- evtTick{now: now, gen: gen}:
				case <-stop:
					return
				case <-s.quit:
					return
				}
			}
		}
	}()
}

func (s *Sequencer) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

// Public API implements Controller

// Start begins a capture sequence: photos are cleared and MaxPhotos captures
// are taken one interval apart.
func (s *Sequencer) Start() error {
	r := make(chan result, 1)
	return s.call(evtStart{reply: r}, r).err
}

// Cancel stops a running sequence, keeping the photos taken so far.
func (s *Sequencer) Cancel() {
	r := make(chan result, 1)
	s.call(evtCancel{reply: r}, r)
}

// Tick advances the countdown by one second of the current sequence.
func (s *Sequencer) Tick(now time.Time) {
	r := make(chan result, 1)
	s.call(evtTick{now: now, manual: true, reply: r}, r)
}

// RequestRetake starts immediately when no photos exist. Otherwise it records
// a pending retake and reports that confirmation is needed.
func (s *Sequencer) RequestRetake() (bool, error) {
	r := make(chan result, 1)
	res := s.call(evtRequestRetake{reply: r}, r)
	return res.confirm, res.err
}

func (s *Sequencer) ConfirmRetake() error {
	r := make(chan result, 1)
	return s.call(evtConfirmRetake{reply: r}, r).err
}

func (s *Sequencer) DismissRetake() {
	r := make(chan result, 1)
	s.call(evtDismissRetake{reply: r}, r)
}

// Upload appends decodable files until the frame is full.
func (s *Sequencer) Upload(files [][]byte) (UploadResult, error) {
	r := make(chan result, 1)
	res := s.call(evtUpload{files: files, reply: r}, r)
	return res.upload, res.err
}

func (s *Sequencer) Remove(i int) error {
	r := make(chan result, 1)
	return s.call(evtRemove{index: i, reply: r}, r).err
}

func (s *Sequencer) SetInterval(sec int) error {
	r := make(chan result, 1)
	return s.call(evtInterval{sec: sec, reply: r}, r).err
}

func (s *Sequencer) SetFilter(f filter.Filter) error {
	r := make(chan result, 1)
	return s.call(evtFilter{f: f, reply: r}, r).err
}

// ToggleMirror flips the mirror setting and returns the new value.
func (s *Sequencer) ToggleMirror() bool {
	r := make(chan result, 1)
	return s.call(evtToggleMirror{reply: r}, r).mirror
}

func (s *Sequencer) Snapshot() Snapshot {
	r := make(chan result, 1)
	return s.call(evtSnapshot{reply: r}, r).snap
}

func (s *Sequencer) AddListener(l Listener) {
	if l == nil {
		return
	}
	r := make(chan result, 1)
	s.call(evtAddListener{l: l, reply: r}, r)
}

// Close stops the loop and the ticker. Later calls return ErrClosed.
func (s *Sequencer) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
	})
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error(msg, "error", r)
		}
	}
}

var _ Controller = (*Sequencer)(nil)
