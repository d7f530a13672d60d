// internal/clock/manual.go
//
// Manual clock for tests. Time moves only when Advance is called.

package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID uint64
	timers []*manualTimer
}

type manualTimer struct {
	id   uint64
	when time.Time
	f    func()
	m    *Manual
}

// NewManual creates a manual clock reading start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc registers f to run once the clock has been advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t := &manualTimer{id: m.nextID, when: m.now.Add(d), f: f, m: m}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every callback whose
// deadline falls inside the window in deadline order. Callbacks scheduled
// by a firing callback are honoured if they also fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		t := m.popDueLocked(target)
		if t == nil {
			break
		}
		m.now = t.when
		m.mu.Unlock()
		t.f()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// Pending reports how many callbacks are scheduled and not yet fired.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manual) popDueLocked(target time.Time) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].when.Equal(m.timers[j].when) {
			return m.timers[i].id < m.timers[j].id
		}
		return m.timers[i].when.Before(m.timers[j].when)
	})
	first := m.timers[0]
	if first.when.After(target) {
		return nil
	}
	m.timers = m.timers[1:]
	return first
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i, other := range t.m.timers {
		if other.id == t.id {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			return true
		}
	}
	return false
}
