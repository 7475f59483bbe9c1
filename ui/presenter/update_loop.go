package presenter

import "time"

// Loop aggregates screen presenters and drives periodic updates.
//
// It ticks the sub-presenters and invokes a scheduler callback. The zero
// value is usable (methods are nil-safe).
type Loop struct {
	Capture  *CapturePresenter
	Preview  *PreviewPresenter
	Schedule func()
}

func NewLoop(capture *CapturePresenter, preview *PreviewPresenter, schedule func()) *Loop {
	return &Loop{Capture: capture, Preview: preview, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Capture != nil {
		l.Capture.Tick(now)
	}
	if l.Preview != nil {
		l.Preview.Tick()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
