// Package state provides thread-safe state management for the application.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/litescript/ls-qamar/internal/astro"
	"github.com/litescript/ls-qamar/internal/sky"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventPrayerDue   EventType = "PRAYER_DUE"
	EventPhaseChange EventType = "PHASE_CHANGE"
	EventNewDay      EventType = "NEW_DAY"
)

// Event represents a change noticed between two reports.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Prayer    string    `json:"prayer,omitempty"`
	OldPhase  string    `json:"old_phase,omitempty"`
	NewPhase  string    `json:"new_phase,omitempty"`
	Hijri     string    `json:"hijri,omitempty"`
}

// TimeSeries is a single data point with timestamp.
type TimeSeries struct {
	Timestamp time.Time
	Value     float64
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	current        *sky.Report
	lastUpdate     time.Time
	lastError      error
	computeElapsed time.Duration

	// Illumination history for the sparkline.
	illumination  []TimeSeries
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
	now             func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration

	// Now replaces the wall clock; nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120,
		MaxEvents:       50,
		RefreshInterval: 30 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		now:             now,
	}
}

// Now returns the manager's clock reading.
func (m *Manager) Now() time.Time {
	return m.now()
}

// Update atomically replaces the current report. A nil report records
// only the error.
func (m *Manager) Update(r *sky.Report, elapsed time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUpdate = m.now()
	m.lastError = err
	m.computeElapsed = elapsed

	if r == nil {
		return
	}

	if m.current != nil {
		m.detectEvents(m.current, r)
	}
	m.current = r

	m.illumination = append(m.illumination, TimeSeries{Timestamp: r.At, Value: r.Moon.IlluminatedFraction})
	if m.maxHistoryLen > 0 && len(m.illumination) > m.maxHistoryLen {
		m.illumination = m.illumination[1:]
	}
}

// detectEvents compares consecutive reports.
func (m *Manager) detectEvents(prev, next *sky.Report) {
	if !next.At.After(prev.At) {
		return
	}

	// Prayers from either day's schedule may fall inside the interval.
	seen := make(map[time.Time]bool)
	for _, ps := range []astro.PrayerSchedule{prev.Prayers, next.Prayers} {
		for _, p := range ps.Between(prev.At, next.At) {
			at, _ := ps.Get(p).Time()
			if seen[at] {
				continue
			}
			seen[at] = true
			m.addEvent(Event{Type: EventPrayerDue, Timestamp: at, Prayer: p.String()})
		}
	}

	if prev.Phase != next.Phase {
		m.addEvent(Event{
			Type:      EventPhaseChange,
			Timestamp: next.At,
			OldPhase:  prev.Phase.String(),
			NewPhase:  next.Phase.String(),
		})
	}

	if prev.Hijri != next.Hijri {
		m.addEvent(Event{Type: EventNewDay, Timestamp: next.At, Hijri: next.Hijri.String()})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Report         *sky.Report
	LastUpdate     time.Time
	LastError      error
	ComputeElapsed time.Duration
	Illumination   []TimeSeries
	Events         []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hist := make([]TimeSeries, len(m.illumination))
	copy(hist, m.illumination)

	return Snapshot{
		Report:         m.current,
		LastUpdate:     m.lastUpdate,
		LastError:      m.lastError,
		ComputeElapsed: m.computeElapsed,
		Illumination:   hist,
		Events:         m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order of insertion.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once a report has been stored.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// ComputeFunc produces a report for an instant.
type ComputeFunc func(now time.Time) (*sky.Report, error)

// Run computes a report immediately and then on every refresh tick until
// ctx is done. onUpdate, if set, receives each snapshot.
func (m *Manager) Run(ctx context.Context, compute ComputeFunc, onUpdate func(Snapshot)) {
	tick := func() {
		start := time.Now()
		r, err := compute(m.now())
		m.Update(r, time.Since(start), err)
		if onUpdate != nil {
			onUpdate(m.Snapshot())
		}
	}

	tick()

	ticker := time.NewTicker(m.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
