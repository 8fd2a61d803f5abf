// Package metrics holds the Prometheus collectors for catalog requests and
// sensor samples.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests can build as many as they like.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	sensorSamples   *prometheus.CounterVec
	sensorClients   prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "exohunter",
				Name:      "catalog_request_duration_seconds",
				Help:      "Time spent on catalog API requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "exohunter",
				Name:      "catalog_requests_total",
				Help:      "Total catalog API requests",
			},
			[]string{"endpoint", "status"},
		),
		sensorSamples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "exohunter",
				Name:      "sensor_samples_total",
				Help:      "Sensor samples received, by type",
			},
			[]string{"type"},
		),
		sensorClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "exohunter",
				Name:      "sensor_clients",
				Help:      "Connected sensor clients",
			},
		),
	}

	c.registry.MustRegister(c.requestDuration, c.requestsTotal, c.sensorSamples, c.sensorClients)
	return c
}

// RecordRequest observes a catalog request. status is the HTTP status code,
// or 0 when the request never got a response.
func (c *Collector) RecordRequest(endpoint string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	c.requestsTotal.WithLabelValues(endpoint, label).Inc()
}

// RecordSensorSample counts one sensor sample of the given type.
func (c *Collector) RecordSensorSample(kind string) {
	c.sensorSamples.WithLabelValues(kind).Inc()
}

// SensorConnected adjusts the connected-client gauge by delta.
func (c *Collector) SensorConnected(delta int) {
	c.sensorClients.Add(float64(delta))
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
