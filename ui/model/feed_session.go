package model

import (
	"time"
)

// FeedSession tracks how long the live feed has been up in the current visit
// to the capture screen and in total. It is decoupled from the UI; presenters
// should poll Values() and update views. The zero value is ready to use.
type FeedSession struct {
	active              bool
	liveStart           time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration
}

// NewFeedSession returns a pointer to a ready-to-use FeedSession.
func NewFeedSession() *FeedSession { return &FeedSession{} }

// OnTick updates the model using the current feed state and timestamp.
func (m *FeedSession) OnTick(live bool, now time.Time) {
	if m == nil {
		return
	}
	if live {
		if !m.active { // off -> on
			m.active = true
			m.liveStart = now
			m.lastSessionDuration = 0
		}
		m.lastSessionDuration = now.Sub(m.liveStart)
	} else if m.active { // on -> off
		m.lastSessionDuration = now.Sub(m.liveStart)
		m.accumulated += m.lastSessionDuration
		m.active = false
	}
}

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *FeedSession) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}
