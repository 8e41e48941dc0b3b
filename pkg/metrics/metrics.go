// Package metrics holds the Prometheus collectors shared by the normalizer
// and the report renderer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registry every collector in this package is registered on.
var Registry = prometheus.NewRegistry()

var (
	// BackfillTotal counts fields that were synthesized instead of trusted.
	BackfillTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verity",
		Name:      "backfill_total",
		Help:      "Finding fields repaired by the normalizer, by field.",
	}, []string{"field"})

	// NormalizedTotal counts successful normalizations by detected payload shape.
	NormalizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "verity",
		Name:      "normalized_total",
		Help:      "Payloads normalized, by payload shape.",
	}, []string{"shape"})

	// PagesRendered counts pages produced by the layout engine.
	PagesRendered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "verity",
		Name:      "pages_rendered_total",
		Help:      "Report pages produced by the layout engine.",
	})
)

func init() {
	Registry.MustRegister(BackfillTotal, NormalizedTotal, PagesRendered)
}

// WriteTextfile dumps the current metric values in the node-exporter
// textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
