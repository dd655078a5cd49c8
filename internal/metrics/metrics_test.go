package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/grafmar/scope-footswitch-trigger/internal/pedal"
	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

func TestCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SymbolDispatched(wire.Symbol{Pedal: pedal.Pedal1, Kind: pedal.KindShort})
	c.SymbolDispatched(wire.Symbol{Pedal: pedal.Pedal1, Kind: pedal.KindShort})
	c.SymbolDispatched(wire.Symbol{Pedal: pedal.Pedal2, Kind: pedal.KindLong})
	c.SymbolDropped()
	c.LinkFailure()
	c.Connect()

	if got := testutil.ToFloat64(c.symbolsDispatched.WithLabelValues("B1S")); got != 2 {
		t.Errorf("B1S dispatched: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.symbolsDispatched.WithLabelValues("B2L")); got != 1 {
		t.Errorf("B2L dispatched: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.symbolsDropped); got != 1 {
		t.Errorf("dropped: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.linkFailures); got != 1 {
		t.Errorf("link failures: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.connects); got != 1 {
		t.Errorf("connects: got %v, want 1", got)
	}
}

func TestDecodeErrorsDelta(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.DecodeErrors(0)
	c.DecodeErrors(3)
	c.DecodeErrors(-1) // negative deltas are ignored

	if got := testutil.ToFloat64(c.decodeErrors); got != 3 {
		t.Errorf("decode errors: got %v, want 3", got)
	}
}
