package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values for the direction of a chunk
const (
	Sent     = "sent"
	Received = "received"
)

// Metrics counts streamed chunks, payload bytes and flow-control syncs per direction
type Metrics struct {
	chunks *prometheus.CounterVec
	bytes  *prometheus.CounterVec
	syncs  *prometheus.CounterVec
}

// NewMetrics registers stream metrics with registerer. A nil registerer
// gets a private registry.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &Metrics{
		chunks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marmot_stream_chunks_total",
				Help: "Number of data chunks transferred.",
			},
			[]string{"direction"},
		),
		bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marmot_stream_bytes_total",
				Help: "Number of payload bytes transferred.",
			},
			[]string{"direction"},
		),
		syncs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marmot_stream_syncs_total",
				Help: "Number of flow-control syncs completed.",
			},
			[]string{"direction"},
		),
	}
}

func (m *Metrics) chunk(direction string, size int) {
	if m == nil {
		return
	}
	m.chunks.WithLabelValues(direction).Inc()
	m.bytes.WithLabelValues(direction).Add(float64(size))
}

func (m *Metrics) sync(direction string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(direction).Inc()
}

// Chunks returns the chunk counter for a direction
func (m *Metrics) Chunks(direction string) prometheus.Counter {
	return m.chunks.WithLabelValues(direction)
}

// Bytes returns the byte counter for a direction
func (m *Metrics) Bytes(direction string) prometheus.Counter {
	return m.bytes.WithLabelValues(direction)
}

// Syncs returns the sync counter for a direction
func (m *Metrics) Syncs(direction string) prometheus.Counter {
	return m.syncs.WithLabelValues(direction)
}
