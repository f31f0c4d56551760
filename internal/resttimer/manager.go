package resttimer

import "sync"

// Manager keeps one Timer per key (the user's ID in the API layer). Timers
// are created lazily and live for the process lifetime; an idle Timer
// holds no goroutine.
type Manager struct {
	mu     sync.Mutex
	timers map[string]*Timer
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{timers: make(map[string]*Timer)}
}

// For returns the key's timer, creating it on first use.
func (m *Manager) For(key string) *Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[key]
	if !ok {
		t = New()
		m.timers[key] = t
	}
	return t
}
