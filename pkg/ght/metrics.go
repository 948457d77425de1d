package ght

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters a Tree updates as it builds, compacts, and
// serializes. Metrics owns its own registry rather than registering against
// prometheus.DefaultRegisterer, so multiple trees (and multiple tests) can
// each have their own set without collisions — nothing here starts an HTTP
// exporter, keeping the "no networking" non-goal intact.
type Metrics struct {
	Registry            *prometheus.Registry
	PointsInserted      prometheus.Counter
	NodesSplit          prometheus.Counter
	AttributesCompacted prometheus.Counter
	BytesWritten        prometheus.Counter
	BytesRead           prometheus.Counter
}

// NewMetrics creates a fresh, independently-registered Metrics instance.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		PointsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ght_points_inserted_total",
			Help: "Number of points inserted into the trie.",
		}),
		NodesSplit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ght_nodes_split_total",
			Help: "Number of SPLIT insertions (a new interior node was factored out).",
		}),
		AttributesCompacted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ght_attributes_compacted_total",
			Help: "Number of attribute values promoted to a common ancestor.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ght_bytes_written_total",
			Help: "Number of bytes written across all tree serializations.",
		}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ght_bytes_read_total",
			Help: "Number of bytes read across all tree deserializations.",
		}),
	}
	reg.MustRegister(m.PointsInserted, m.NodesSplit, m.AttributesCompacted, m.BytesWritten, m.BytesRead)
	return m
}

func (m *Metrics) incPointsInserted() {
	if m != nil {
		m.PointsInserted.Inc()
	}
}

func (m *Metrics) incNodesSplit() {
	if m != nil {
		m.NodesSplit.Inc()
	}
}

func (m *Metrics) incAttributesCompacted() {
	if m != nil {
		m.AttributesCompacted.Inc()
	}
}

func (m *Metrics) addBytesWritten(n int64) {
	if m != nil {
		m.BytesWritten.Add(float64(n))
	}
}

func (m *Metrics) addBytesRead(n int64) {
	if m != nil {
		m.BytesRead.Add(float64(n))
	}
}
