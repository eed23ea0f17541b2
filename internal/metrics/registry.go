package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names and labels.
const (
	DeltaGaugeName = "absolute_delta_value"
	DeltaGaugeHelp = "Absolute Delta Value of Price Spread"
	SymbolLabel    = "symbol"
)

// Registry owns the exporter's collectors.
type Registry struct {
	reg   *prometheus.Registry
	delta *prometheus.GaugeVec
}

// NewRegistry creates a registry with the spread delta gauge registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	delta := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: DeltaGaugeName,
		Help: DeltaGaugeHelp,
	}, []string{SymbolLabel})
	reg.MustRegister(delta)

	return &Registry{
		reg:   reg,
		delta: delta,
	}
}

// Set overwrites the delta gauge for symbol.
func (r *Registry) Set(symbol string, value float64) {
	r.delta.WithLabelValues(symbol).Set(value)
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
