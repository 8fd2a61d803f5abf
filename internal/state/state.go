// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
	"github.com/litescript/ls-exohunter/internal/sensor"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventCatalogLoaded   EventType = "CATALOG_LOADED"
	EventSystemLoaded    EventType = "SYSTEM_LOADED"
	EventFetchFailed     EventType = "FETCH_FAILED"
	EventSensorConnected EventType = "SENSOR_CONNECTED"
)

// Event represents a state change worth showing the user.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Star      string    `json:"star,omitempty"`
	Count     int       `json:"count,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Catalog
	stars         []catalog.Star
	habitable     []catalog.HabitablePlanet
	habIndex      catalog.HabitableIndex
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration
	loaded        bool

	// Selected system
	system       *catalog.System
	systemLoaded time.Time

	// Sensor
	sensor      sensor.Reading
	hasSensor   bool
	trail       []astro.EquatorialCoord
	maxTrailLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
	now             func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents       int
	MaxTrailLen     int // pointing samples kept for the star-map trail
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:       50,
		MaxTrailLen:     32,
		RefreshInterval: 10 * time.Minute,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		maxTrailLen:     cfg.MaxTrailLen,
		refreshInterval: cfg.RefreshInterval,
		habIndex:        catalog.NewHabitableIndex(nil),
		now:             time.Now,
	}
}

// UpdateCatalog records the result of a catalog fetch. On error the previous
// catalog is kept.
func (m *Manager) UpdateCatalog(stars []catalog.Star, habitable []catalog.HabitablePlanet, fetchDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.lastFetch = now
	m.lastError = err
	m.fetchDuration = fetchDuration

	if err != nil {
		m.addEvent(Event{Type: EventFetchFailed, Timestamp: now, Detail: err.Error()})
		return
	}

	changed := !m.loaded || len(stars) != len(m.stars) || len(habitable) != len(m.habitable)

	m.stars = stars
	m.habitable = habitable
	m.habIndex = catalog.NewHabitableIndex(habitable)
	m.loaded = true

	if changed {
		m.addEvent(Event{Type: EventCatalogLoaded, Timestamp: now, Count: len(stars)})
	}
}

// SetSystem records a loaded system, or a failure to load one.
func (m *Manager) SetSystem(sys *catalog.System, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if err != nil {
		m.lastError = err
		m.addEvent(Event{Type: EventFetchFailed, Timestamp: now, Detail: err.Error()})
		return
	}

	m.system = sys
	m.systemLoaded = now
	if sys != nil {
		m.addEvent(Event{
			Type:      EventSystemLoaded,
			Timestamp: now,
			Star:      sys.Star.Name,
			Count:     len(sys.Planets),
		})
	}
}

// UpdateSensor stores the latest sensor reading and extends the pointing
// trail.
func (m *Manager) UpdateSensor(r sensor.Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sensor = r
	m.hasSensor = true

	if m.maxTrailLen <= 0 {
		return
	}
	m.trail = append(m.trail, r.Pointing)
	if len(m.trail) > m.maxTrailLen {
		m.trail = m.trail[1:]
	}
}

// SensorConnected logs a device connection.
func (m *Manager) SensorConnected(remote string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addEvent(Event{Type: EventSensorConnected, Timestamp: m.now(), Detail: remote})
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
	Stars          []catalog.Star
	Habitable      []catalog.HabitablePlanet
	HabitableIndex catalog.HabitableIndex
	LastFetch      time.Time
	LastError      error
	FetchDuration  time.Duration
	NextRefresh    time.Time

	System       *catalog.System
	SystemLoaded time.Time

	Sensor        sensor.Reading
	HasSensor     bool
	PointingTrail []astro.EquatorialCoord

	Events []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stars := make([]catalog.Star, len(m.stars))
	copy(stars, m.stars)

	habitable := make([]catalog.HabitablePlanet, len(m.habitable))
	copy(habitable, m.habitable)

	// The index is rebuilt on every load and never mutated, so it can be shared.
	trail := make([]astro.EquatorialCoord, len(m.trail))
	copy(trail, m.trail)

	var next time.Time
	if !m.lastFetch.IsZero() {
		next = m.lastFetch.Add(m.refreshInterval)
	}

	return Snapshot{
		Stars:          stars,
		Habitable:      habitable,
		HabitableIndex: m.habIndex,
		LastFetch:      m.lastFetch,
		LastError:      m.lastError,
		FetchDuration:  m.fetchDuration,
		NextRefresh:    next,
		System:         m.system,
		SystemLoaded:   m.systemLoaded,
		Sensor:         m.sensor,
		HasSensor:      m.hasSensor,
		PointingTrail:  trail,
		Events:         m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
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

// HasData returns true if we have received at least one successful fetch.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
