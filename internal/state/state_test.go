package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
	"github.com/litescript/ls-exohunter/internal/sensor"
)

func testStars(n int) []catalog.Star {
	stars := make([]catalog.Star, n)
	for i := range stars {
		stars[i] = catalog.Star{ID: i + 1, Name: string(rune('A' + i))}
	}
	return stars
}

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg)

	if m == nil {
		t.Fatal("NewManager returned nil")
	}

	if m.RefreshInterval() != cfg.RefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), cfg.RefreshInterval)
	}

	if m.HasData() {
		t.Error("HasData should be false initially")
	}

	if !m.Snapshot().HabitableIndex.Has(catalog.SunName) {
		t.Error("empty index should still count the Sun")
	}
}

func TestManager_UpdateCatalog(t *testing.T) {
	m := NewManager(DefaultConfig())

	habitable := []catalog.HabitablePlanet{
		{Name: "B b", Star: &catalog.HabitableHost{Name: "B"}},
	}
	m.UpdateCatalog(testStars(3), habitable, 100*time.Millisecond, nil)

	if !m.HasData() {
		t.Error("HasData should be true after UpdateCatalog")
	}

	snap := m.Snapshot()
	if len(snap.Stars) != 3 || len(snap.Habitable) != 1 {
		t.Errorf("stars/habitable = %d/%d, want 3/1", len(snap.Stars), len(snap.Habitable))
	}
	if snap.FetchDuration != 100*time.Millisecond {
		t.Errorf("FetchDuration = %v, want 100ms", snap.FetchDuration)
	}
	if snap.LastError != nil {
		t.Errorf("LastError = %v, want nil", snap.LastError)
	}
	if !snap.HabitableIndex.Has("B") || snap.HabitableIndex.Has("C") {
		t.Error("habitable index not rebuilt")
	}

	events := m.RecentEvents(10)
	if len(events) != 1 || events[0].Type != EventCatalogLoaded || events[0].Count != 3 {
		t.Errorf("events = %+v", events)
	}
}

func TestManager_UpdateCatalogUnchanged(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.UpdateCatalog(testStars(3), nil, 0, nil)
	m.UpdateCatalog(testStars(3), nil, 0, nil)
	m.UpdateCatalog(testStars(4), nil, 0, nil)

	events := m.RecentEvents(10)
	if len(events) != 2 {
		t.Errorf("got %d events, want 2 (first load and size change)", len(events))
	}
}

func TestManager_UpdateWithErrorKeepsCatalog(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.UpdateCatalog(testStars(2), nil, 0, nil)

	testErr := errors.New("fetch failed")
	m.UpdateCatalog(nil, nil, 50*time.Millisecond, testErr)

	snap := m.Snapshot()
	if len(snap.Stars) != 2 {
		t.Errorf("stars = %d, want previous 2", len(snap.Stars))
	}
	if snap.LastError != testErr {
		t.Errorf("LastError = %v, want %v", snap.LastError, testErr)
	}

	events := m.RecentEvents(1)
	if events[0].Type != EventFetchFailed || events[0].Detail != "fetch failed" {
		t.Errorf("last event = %+v", events[0])
	}
}

func TestManager_SetSystem(t *testing.T) {
	m := NewManager(DefaultConfig())
	sys := &catalog.System{
		Star:    catalog.Star{ID: 9, Name: "Kepler-186"},
		Planets: make([]catalog.Planet, 5),
	}

	m.SetSystem(sys, nil)
	snap := m.Snapshot()
	if snap.System != sys {
		t.Error("System not stored")
	}

	ev := m.RecentEvents(1)[0]
	if ev.Type != EventSystemLoaded || ev.Star != "Kepler-186" || ev.Count != 5 {
		t.Errorf("event = %+v", ev)
	}

	m.SetSystem(nil, errors.New("not found"))
	if m.Snapshot().System != sys {
		t.Error("failed load should keep the previous system")
	}
	if m.RecentEvents(1)[0].Type != EventFetchFailed {
		t.Error("failed load should log FETCH_FAILED")
	}
}

func TestManager_SensorTrail(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTrailLen = 3
	m := NewManager(cfg)

	m.SensorConnected("phone")
	for i := 0; i < 5; i++ {
		m.UpdateSensor(sensor.Reading{Pointing: astro.EquatorialCoord{RAHours: float64(i)}})
	}

	snap := m.Snapshot()
	if !snap.HasSensor {
		t.Error("HasSensor should be true")
	}
	if len(snap.PointingTrail) != 3 || snap.PointingTrail[0].RAHours != 2 {
		t.Errorf("trail = %+v", snap.PointingTrail)
	}
	if snap.Sensor.Pointing.RAHours != 4 {
		t.Errorf("latest pointing = %v, want 4", snap.Sensor.Pointing.RAHours)
	}
	if ev := m.RecentEvents(1)[0]; ev.Type != EventSensorConnected || ev.Detail != "phone" {
		t.Errorf("event = %+v", ev)
	}
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 3
	m := NewManager(cfg)

	for i := 0; i < 5; i++ {
		m.SensorConnected(string(rune('a' + i)))
	}

	events := m.Snapshot().Events
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, want := range []string{"c", "d", "e"} {
		if events[i].Detail != want {
			t.Errorf("events[%d] = %q, want %q", i, events[i].Detail, want)
		}
	}

	if got := m.RecentEvents(2); len(got) != 2 || got[1].Detail != "e" {
		t.Errorf("RecentEvents(2) = %+v", got)
	}
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m := NewManager(DefaultConfig())
	m.UpdateCatalog(testStars(2), nil, 0, nil)

	snap := m.Snapshot()
	snap.Stars[0].Name = "changed"

	if m.Snapshot().Stars[0].Name == "changed" {
		t.Error("Snapshot modification affected manager state")
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(DefaultConfig())

	var wg sync.WaitGroup
	iterations := 100

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.UpdateCatalog(testStars(i%5), nil, time.Duration(i)*time.Millisecond, nil)
			m.UpdateSensor(sensor.Reading{})
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.HasData()
				_ = m.RefreshInterval()
				_ = m.RecentEvents(5)
			}
		}()
	}

	wg.Wait()
}

func TestManager_SetRefreshInterval(t *testing.T) {
	m := NewManager(DefaultConfig())

	newInterval := 30 * time.Second
	m.SetRefreshInterval(newInterval)

	if m.RefreshInterval() != newInterval {
		t.Errorf("RefreshInterval = %v, want %v", m.RefreshInterval(), newInterval)
	}
}

func TestManager_NextRefresh(t *testing.T) {
	m := NewManager(Config{RefreshInterval: 5 * time.Minute})
	fetched := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fetched }

	if !m.Snapshot().NextRefresh.IsZero() {
		t.Error("NextRefresh should be zero before the first fetch")
	}

	m.UpdateCatalog(testStars(2), nil, 0, nil)
	if got, want := m.Snapshot().NextRefresh, fetched.Add(5*time.Minute); !got.Equal(want) {
		t.Errorf("NextRefresh = %v, want %v", got, want)
	}

	m.SetRefreshInterval(time.Hour)
	if got, want := m.Snapshot().NextRefresh, fetched.Add(time.Hour); !got.Equal(want) {
		t.Errorf("NextRefresh after interval change = %v, want %v", got, want)
	}
}
