// Package sensor receives device location and orientation samples and keeps
// the latest observer state.
package sensor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/logging"
)

// Sample types accepted on the wire.
const (
	TypeLocation    = "location"
	TypeOrientation = "orientation"
	TypeMotion      = "motion"
)

// ErrInvalidSample is wrapped by every rejected sample.
var ErrInvalidSample = errors.New("invalid sensor sample")

// Sample is one JSON message from a device.
type Sample struct {
	Type string `json:"type"`

	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`

	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`

	Gravity  []float64 `json:"gravity,omitempty"`
	Magnetic []float64 `json:"magnetic,omitempty"`
}

// Reading is the observer state after a sample, with the sky coordinate the
// device points at.
type Reading struct {
	Observer    astro.ObserverState
	Pointing    astro.EquatorialCoord
	HasLocation bool
	Source      string // sample type that produced the reading
	At          time.Time
}

// Recorder counts samples and connections.
type Recorder interface {
	RecordSensorSample(kind string)
	SensorConnected(delta int)
}

// Hub holds the latest observer state. It is safe for concurrent use.
type Hub struct {
	mu          sync.RWMutex
	observer    astro.ObserverState
	hasLocation bool
	latest      Reading

	now       func() time.Time
	onReading func(Reading)
	onConnect func(remote string)
	metrics   Recorder
	logger    *logging.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithClock sets the time source used to compute pointing.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		h.now = now
	}
}

// WithReadingHandler is called after every accepted sample.
func WithReadingHandler(fn func(Reading)) HubOption {
	return func(h *Hub) {
		h.onReading = fn
	}
}

// WithConnectHandler is called when a device connects.
func WithConnectHandler(fn func(remote string)) HubOption {
	return func(h *Hub) {
		h.onConnect = fn
	}
}

// WithMetrics records samples and connections on r.
func WithMetrics(r Recorder) HubOption {
	return func(h *Hub) {
		h.metrics = r
	}
}

// WithLogger sets the hub's logger.
func WithLogger(l *logging.Logger) HubOption {
	return func(h *Hub) {
		h.logger = l
	}
}

// WithLocation seeds the observer location, e.g. from configuration.
func WithLocation(latDeg, lonDeg float64) HubOption {
	return func(h *Hub) {
		h.observer.LatDeg = latDeg
		h.observer.LonDeg = lonDeg
		h.hasLocation = true
	}
}

// NewHub creates a hub. The observer starts looking at the zenith.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		observer: astro.ObserverState{AltitudeDeg: 90},
		now:      time.Now,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.latest = h.readingLocked("")
	return h
}

// HandleMessage decodes and applies one raw message.
func (h *Hub) HandleMessage(data []byte) (Reading, error) {
	var s Sample
	if err := json.Unmarshal(data, &s); err != nil {
		return Reading{}, fmt.Errorf("%w: %v", ErrInvalidSample, err)
	}
	return h.Apply(s)
}

// Apply validates a sample and folds it into the observer state.
func (h *Hub) Apply(s Sample) (Reading, error) {
	if err := validate(s); err != nil {
		return Reading{}, err
	}

	// Derive outside the lock; AzimuthFromVectors may reject the vectors.
	var motionAz float64
	if s.Type == TypeMotion {
		g, m := toVec(s.Gravity), toVec(s.Magnetic)
		motionAz = astro.AzimuthFromVectors(g, m)
		if math.IsNaN(motionAz) {
			return Reading{}, fmt.Errorf("%w: degenerate motion vectors", ErrInvalidSample)
		}
	}

	h.mu.Lock()
	switch s.Type {
	case TypeLocation:
		h.observer.LatDeg = *s.Lat
		h.observer.LonDeg = *s.Lon
		h.hasLocation = true
	case TypeOrientation:
		o := astro.DeviceOrientation{AlphaDeg: *s.Alpha, BetaDeg: *s.Beta}
		if s.Gamma != nil {
			o.GammaDeg = *s.Gamma
		}
		h.observer.AltitudeDeg, h.observer.AzimuthDeg = astro.OrientationToHorizontal(o)
	case TypeMotion:
		h.observer.AzimuthDeg = motionAz
	}
	r := h.readingLocked(s.Type)
	h.latest = r
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.RecordSensorSample(s.Type)
	}
	if h.onReading != nil {
		h.onReading(r)
	}
	return r, nil
}

// Latest returns the most recent reading.
func (h *Hub) Latest() Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

func (h *Hub) connected(remote string) {
	if h.metrics != nil {
		h.metrics.SensorConnected(1)
	}
	h.logger.Info("sensor connected", "remote", remote)
	if h.onConnect != nil {
		h.onConnect(remote)
	}
}

func (h *Hub) disconnected(remote string) {
	if h.metrics != nil {
		h.metrics.SensorConnected(-1)
	}
	h.logger.Info("sensor disconnected", "remote", remote)
}

func (h *Hub) readingLocked(source string) Reading {
	at := h.now()
	return Reading{
		Observer:    h.observer,
		Pointing:    astro.Pointing(at, h.observer),
		HasLocation: h.hasLocation,
		Source:      source,
		At:          at,
	}
}

func validate(s Sample) error {
	switch s.Type {
	case TypeLocation:
		if s.Lat == nil || s.Lon == nil {
			return fmt.Errorf("%w: location needs lat and lon", ErrInvalidSample)
		}
		if !finite(*s.Lat, *s.Lon) || math.Abs(*s.Lat) > 90 || math.Abs(*s.Lon) > 180 {
			return fmt.Errorf("%w: location out of range", ErrInvalidSample)
		}
	case TypeOrientation:
		if s.Alpha == nil || s.Beta == nil {
			return fmt.Errorf("%w: orientation needs alpha and beta", ErrInvalidSample)
		}
		if !finite(*s.Alpha, *s.Beta) || math.Abs(*s.Beta) > 180 {
			return fmt.Errorf("%w: orientation out of range", ErrInvalidSample)
		}
	case TypeMotion:
		if len(s.Gravity) != 3 || len(s.Magnetic) != 3 {
			return fmt.Errorf("%w: motion needs 3-component gravity and magnetic", ErrInvalidSample)
		}
		if !finite(s.Gravity...) || !finite(s.Magnetic...) {
			return fmt.Errorf("%w: motion vectors not finite", ErrInvalidSample)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidSample, s.Type)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func toVec(v []float64) astro.Vec3 {
	return astro.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
