package model

import (
	"sync"
	"sync/atomic"
)

// CameraModel tracks whether the live feed is up and the last acquisition
// error. The zero value is offline and usable. Concurrency-safe because the
// presenter writes it on the Tk thread while listeners may read it.
type CameraModel struct {
	live atomic.Bool
	mu   sync.RWMutex
	err  string
}

// Live reports whether the feed is currently acquired.
func (m *CameraModel) Live() bool {
	if m == nil {
		return false
	}
	return m.live.Load()
}

// SetLive stores the live flag. Going live clears the error.
func (m *CameraModel) SetLive(b bool) {
	if m == nil {
		return
	}
	m.live.Store(b)
	if b {
		m.SetError("")
	}
}

// Error returns the last acquisition error message, empty when none.
func (m *CameraModel) Error() string {
	if m == nil {
		return ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// SetError records msg; a non-empty message also marks the feed offline.
func (m *CameraModel) SetError(msg string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.err = msg
	m.mu.Unlock()
	if msg != "" {
		m.live.Store(false)
	}
}
