// Package metrics exposes Prometheus counters for the host daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

// Collector holds the host-side Prometheus metrics.
type Collector struct {
	symbolsDispatched *prometheus.CounterVec
	symbolsDropped    prometheus.Counter
	decodeErrors      prometheus.Counter
	linkFailures      prometheus.Counter
	connects          prometheus.Counter
}

// NewCollector creates and registers the host metrics with the given
// registerer (use prometheus.DefaultRegisterer in main, a fresh registry in
// tests).
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		symbolsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "footswitch_symbols_dispatched_total",
			Help: "Symbols dispatched to the instrument, by wire symbol",
		}, []string{"symbol"}),
		symbolsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footswitch_symbols_dropped_total",
			Help: "Symbols dropped because the instrument was not connected",
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footswitch_decode_errors_total",
			Help: "Unrecognized or oversized frames discarded by the decoder",
		}),
		linkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footswitch_link_failures_total",
			Help: "Instrument link failures that forced a disconnect",
		}),
		connects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "footswitch_connects_total",
			Help: "Successful instrument connects",
		}),
	}

	reg.MustRegister(
		c.symbolsDispatched,
		c.symbolsDropped,
		c.decodeErrors,
		c.linkFailures,
		c.connects,
	)
	return c
}

// SymbolDispatched counts one dispatched symbol.
func (c *Collector) SymbolDispatched(sym wire.Symbol) {
	c.symbolsDispatched.WithLabelValues(sym.Token()).Inc()
}

// SymbolDropped counts one symbol dropped while disconnected.
func (c *Collector) SymbolDropped() {
	c.symbolsDropped.Inc()
}

// DecodeErrors sets the decoder's running drop count.
// The decoder only exposes a total, so this adds the delta.
func (c *Collector) DecodeErrors(delta int) {
	if delta > 0 {
		c.decodeErrors.Add(float64(delta))
	}
}

// LinkFailure counts one forced disconnect.
func (c *Collector) LinkFailure() {
	c.linkFailures.Inc()
}

// Connect counts one successful connect.
func (c *Collector) Connect() {
	c.connects.Inc()
}
