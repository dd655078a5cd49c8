package internal

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/grafmar/scope-footswitch-trigger/internal/dispatch"
	"github.com/grafmar/scope-footswitch-trigger/internal/gpio"
	"github.com/grafmar/scope-footswitch-trigger/internal/mqtt"
	"github.com/grafmar/scope-footswitch-trigger/internal/pedal"
	"github.com/grafmar/scope-footswitch-trigger/internal/scope"
	"github.com/grafmar/scope-footswitch-trigger/internal/wire"
)

// rig simulates the device side: scripted GPIO samples feed the press
// classifier and emitted events are encoded onto an in-memory wire.
type rig struct {
	t     *testing.T
	board *pedal.Board
	buf   bytes.Buffer
	now   time.Time
	step  time.Duration
}

func newRig(t *testing.T) *rig {
	t.Helper()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return &rig{
		t:     t,
		board: pedal.NewBoard(30*time.Millisecond, 800*time.Millisecond, start),
		now:   start,
		step:  10 * time.Millisecond,
	}
}

// feed processes n samples of the given pedal state, one poll tick apart,
// and encodes any resulting events onto the wire.
func (r *rig) feed(pedal1, pedal2 bool, n int) {
	r.t.Helper()
	for i := 0; i < n; i++ {
		events := r.board.Process(pedal.Sample{Pedal1: pedal1, Pedal2: pedal2, Time: r.now})
		for _, e := range events {
			if err := wire.EncodeTo(&r.buf, wire.SymbolFor(e)); err != nil {
				r.t.Fatalf("encode: %v", err)
			}
		}
		r.now = r.now.Add(r.step)
	}
}

// baseline feeds enough released samples to establish the baseline.
func (r *rig) baseline() {
	r.t.Helper()
	r.feed(false, false, 5)
	if !r.board.IsBaselined() {
		r.t.Fatal("baseline not established")
	}
}

// decode runs the wire bytes through the decoder and returns all symbols.
func (r *rig) decode() []wire.Symbol {
	r.t.Helper()
	dec := wire.NewDecoder(bytes.NewReader(r.buf.Bytes()))
	var syms []wire.Symbol
	for {
		sym, err := dec.Next()
		if err == io.EOF {
			return syms
		}
		if err != nil {
			r.t.Fatalf("decode: %v", err)
		}
		syms = append(syms, sym)
	}
}

// connectedDispatcher returns a dispatcher connected to a fresh fake link.
func connectedDispatcher(t *testing.T, link *scope.FakeLink, cfg dispatch.Config) *dispatch.Dispatcher {
	t.Helper()
	d := dispatch.New(link, cfg)
	if _, err := d.Connect("10.0.0.5"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	link.Commands = nil
	return d
}

// TestLongPressTogglesTriggerMode follows one press end to end: pedal 1 held
// for 900ms yields exactly one B1L on the wire, which flips the trigger mode
// to AUTO with a single instrument command. The release emits nothing.
func TestLongPressTogglesTriggerMode(t *testing.T) {
	r := newRig(t)
	r.baseline()
	r.feed(true, false, 90) // held 900ms, long fires mid-hold
	r.feed(false, false, 5) // release, silent

	syms := r.decode()
	if len(syms) != 1 {
		t.Fatalf("expected 1 symbol, got %d: %v", len(syms), syms)
	}
	if syms[0].Token() != "B1L" {
		t.Fatalf("symbol: got %s, want B1L", syms[0].Token())
	}

	link := scope.NewFakeLink()
	d := connectedDispatcher(t, link, dispatch.Config{})

	out := d.Dispatch(syms[0])
	if out.Result != dispatch.ResultDone {
		t.Fatalf("dispatch: got %+v", out)
	}
	if len(link.Commands) != 1 || link.Commands[0] != "SET_TRIGGER AUTO" {
		t.Errorf("commands: got %v, want [SET_TRIGGER AUTO]", link.Commands)
	}
	if d.Status().TriggerMode != scope.TriggerAuto {
		t.Errorf("trigger mode: got %s, want AUTO", d.Status().TriggerMode)
	}
}

func TestShortPressFiresSingle(t *testing.T) {
	r := newRig(t)
	r.baseline()
	r.feed(true, false, 20) // 200ms, well under the long threshold
	r.feed(false, false, 5)

	syms := r.decode()
	if len(syms) != 1 || syms[0].Token() != "B1S" {
		t.Fatalf("symbols: got %v, want [B1S]", syms)
	}

	link := scope.NewFakeLink()
	d := connectedDispatcher(t, link, dispatch.Config{})

	out := d.Dispatch(syms[0])
	if out.Result != dispatch.ResultDone {
		t.Fatalf("dispatch: got %+v", out)
	}
	if len(link.Commands) != 1 || link.Commands[0] != "SINGLE" {
		t.Errorf("commands: got %v, want [SINGLE]", link.Commands)
	}
}

func TestRunStopToggleAcrossTwoPresses(t *testing.T) {
	r := newRig(t)
	r.baseline()
	r.feed(false, true, 20)
	r.feed(false, false, 5)
	r.feed(false, true, 20)
	r.feed(false, false, 5)

	syms := r.decode()
	if len(syms) != 2 {
		t.Fatalf("expected 2 symbols, got %v", syms)
	}

	link := scope.NewFakeLink() // run state STOPPED after connect resync
	d := connectedDispatcher(t, link, dispatch.Config{})

	for _, sym := range syms {
		if out := d.Dispatch(sym); out.Result != dispatch.ResultDone {
			t.Fatalf("dispatch %s: got %+v", sym.Token(), out)
		}
	}

	want := []string{"RUN", "STOP"}
	if len(link.Commands) != len(want) {
		t.Fatalf("commands: got %v, want %v", link.Commands, want)
	}
	for i := range want {
		if link.Commands[i] != want[i] {
			t.Errorf("command %d: got %s, want %s", i, link.Commands[i], want[i])
		}
	}
}

func TestLongPressCapturesScreenshotAndSetup(t *testing.T) {
	r := newRig(t)
	r.baseline()
	r.feed(false, true, 90)
	r.feed(false, false, 5)

	syms := r.decode()
	if len(syms) != 1 || syms[0].Token() != "B2L" {
		t.Fatalf("symbols: got %v, want [B2L]", syms)
	}

	written := map[string][]byte{}
	link := scope.NewFakeLink()
	d := connectedDispatcher(t, link, dispatch.Config{
		CaptureDir: "/captures",
		Screenshot: scope.ScreenshotOptions{Color: true},
		WriteFile: func(name string, data []byte) error {
			written[name] = data
			return nil
		},
		Now: func() time.Time { return time.Date(2026, 2, 3, 15, 4, 5, 0, time.UTC) },
	})

	out := d.Dispatch(syms[0])
	if out.Result != dispatch.ResultDone {
		t.Fatalf("dispatch: got %+v", out)
	}

	png := filepath.Join("/captures", "scope-20260203-150405.png")
	set := filepath.Join("/captures", "scope-20260203-150405.set")
	if string(written[png]) != "png-bytes" {
		t.Errorf("screenshot file: got %q", written[png])
	}
	if string(written[set]) != "setup-bytes" {
		t.Errorf("setup file: got %q", written[set])
	}
}

// TestGarbageOnWireResyncs injects noise between valid frames; the decoder
// drops it and the dispatcher still sees both presses.
func TestGarbageOnWireResyncs(t *testing.T) {
	r := newRig(t)
	r.baseline()
	r.feed(true, false, 20)
	r.feed(false, false, 5)
	r.buf.WriteString("\x00\xffnoise\n")
	r.feed(false, true, 20)
	r.feed(false, false, 5)

	dec := wire.NewDecoder(bytes.NewReader(r.buf.Bytes()))
	var tokens []string
	for {
		sym, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		tokens = append(tokens, sym.Token())
	}

	if len(tokens) != 2 || tokens[0] != "B1S" || tokens[1] != "B2S" {
		t.Errorf("tokens: got %v, want [B1S B2S]", tokens)
	}
	if dec.Dropped() != 1 {
		t.Errorf("dropped: got %d, want 1", dec.Dropped())
	}
}

func TestSymbolsDroppedWhileDisconnected(t *testing.T) {
	r := newRig(t)
	r.baseline()
	r.feed(true, false, 20)
	r.feed(false, false, 5)

	syms := r.decode()
	link := scope.NewFakeLink()
	d := dispatch.New(link, dispatch.Config{})

	out := d.Dispatch(syms[0])
	if out.Result != dispatch.ResultNoOp {
		t.Errorf("dispatch while disconnected: got %+v, want NOOP", out)
	}
	if len(link.Commands) != 0 {
		t.Errorf("no commands expected, got %v", link.Commands)
	}
}

// TestGPIOToWireThroughFakeReader exercises the gpio fake the way the device
// daemon uses it, instead of feeding the board directly.
func TestGPIOToWireThroughFakeReader(t *testing.T) {
	samples := make([]gpio.Sample, 0, 30)
	for i := 0; i < 5; i++ {
		samples = append(samples, gpio.Sample{})
	}
	for i := 0; i < 20; i++ {
		samples = append(samples, gpio.Sample{Pedal1: true})
	}
	for i := 0; i < 5; i++ {
		samples = append(samples, gpio.Sample{})
	}

	reader := gpio.NewFakeReader(samples)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	board := pedal.NewBoard(30*time.Millisecond, 800*time.Millisecond, start)
	var buf bytes.Buffer

	for i := range samples {
		p1, p2, err := reader.Read()
		if err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
		now := start.Add(time.Duration(i) * 10 * time.Millisecond)
		for _, e := range board.Process(pedal.Sample{Pedal1: p1, Pedal2: p2, Time: now}) {
			if err := wire.EncodeTo(&buf, wire.SymbolFor(e)); err != nil {
				t.Fatalf("encode: %v", err)
			}
		}
	}

	if got := buf.String(); got != "B1S\n" {
		t.Errorf("wire bytes: got %q, want %q", got, "B1S\n")
	}
}

// TestPressTelemetryPayload verifies the exact JSON mirrored to MQTT for a
// classified press.
func TestPressTelemetryPayload(t *testing.T) {
	publisher := mqtt.NewFakePublisher()
	event := pedal.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Pedal:     pedal.Pedal1,
		Kind:      pedal.KindLong,
	}

	if err := publisher.Publish(event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	expected := `{"footswitch":{"timestamp":"2026-02-02T22:18:12Z","pedal":1,"press":"LONG","symbol":"B1L"}}`
	if string(publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", publisher.Payloads[0], expected)
	}
}
