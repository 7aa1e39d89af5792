// Package metrics exposes Prometheus counters for song resolution.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/justestif/mood-music/internal/mood"
)

const namespace = "moodmusic"

// Failure stages of the external search.
const (
	StageToken     = "token"
	StageSearch    = "search"
	StageNoPreview = "no_preview"
)

// Metrics holds the service collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	songsServed    *prometheus.CounterVec
	notFound       prometheus.Counter
	externalFailed *prometheus.CounterVec
	catalogFiles   *prometheus.GaugeVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		songsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "songs_served_total",
			Help:      "Songs served, by source and requested mood.",
		}, []string{"source", "mood"}),
		notFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "songs_not_found_total",
			Help:      "Requests for which no song was available.",
		}),
		externalFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_failures_total",
			Help:      "External search attempts that produced no usable track, by stage.",
		}, []string{"stage"}),
		catalogFiles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_files",
			Help:      "Local files discovered at startup, by mood.",
		}, []string{"mood"}),
	}

	m.registry.MustRegister(m.songsServed, m.notFound, m.externalFailed, m.catalogFiles)
	return m
}

// SongServed counts a successful response. Unsupported moods share the
// "other" label so request paths cannot grow the series set.
func (m *Metrics) SongServed(source, requested string) {
	if m == nil {
		return
	}
	m.songsServed.WithLabelValues(source, string(mood.Bucket(mood.Mood(requested)))).Inc()
}

// NotFound counts a request that ended without content.
func (m *Metrics) NotFound() {
	if m == nil {
		return
	}
	m.notFound.Inc()
}

// ExternalFailed counts an unusable external search at the given stage.
func (m *Metrics) ExternalFailed(stage string) {
	if m == nil {
		return
	}
	m.externalFailed.WithLabelValues(stage).Inc()
}

// SetCatalogFiles records the number of files found for a mood.
func (m *Metrics) SetCatalogFiles(mood string, n int) {
	if m == nil {
		return
	}
	m.catalogFiles.WithLabelValues(mood).Set(float64(n))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
