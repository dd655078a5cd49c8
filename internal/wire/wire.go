// Package wire implements the line protocol between the footswitch and the
// host: one of four ASCII tokens per frame, newline-terminated.
//
//	B1S = pedal 1 short press
//	B1L = pedal 1 long press
//	B2S = pedal 2 short press
//	B2L = pedal 2 long press
//
// Anything else on a line is an unrecognized frame and is skipped.
package wire

import (
	"fmt"
	"io"

	"github.com/grafmar/scope-footswitch-trigger/internal/pedal"
)

// Delimiter terminates every frame. It cannot appear inside a token.
const Delimiter = '\n'

// Symbol is one decoded press event as it travels over the wire.
type Symbol struct {
	Pedal pedal.ID
	Kind  pedal.Kind
}

// Symbols is the full set of valid wire symbols.
var Symbols = []Symbol{
	{pedal.Pedal1, pedal.KindShort},
	{pedal.Pedal1, pedal.KindLong},
	{pedal.Pedal2, pedal.KindShort},
	{pedal.Pedal2, pedal.KindLong},
}

// SymbolFor converts a classified pedal event into its wire symbol.
func SymbolFor(e pedal.Event) Symbol {
	return Symbol{Pedal: e.Pedal, Kind: e.Kind}
}

// Token returns the three-character wire token, e.g. "B1S".
func (s Symbol) Token() string {
	kind := byte('S')
	if s.Kind == pedal.KindLong {
		kind = 'L'
	}
	return string([]byte{'B', '0' + byte(s.Pedal), kind})
}

// String implements fmt.Stringer using the wire token.
func (s Symbol) String() string {
	return s.Token()
}

// Encode returns the full frame for the symbol: token plus delimiter.
func (s Symbol) Encode() []byte {
	return append([]byte(s.Token()), Delimiter)
}

// EncodeTo writes the symbol's frame to w.
func EncodeTo(w io.Writer, s Symbol) error {
	if _, err := w.Write(s.Encode()); err != nil {
		return fmt.Errorf("write frame %s: %w", s.Token(), err)
	}
	return nil
}

// Parse converts a wire token (without delimiter) into a Symbol.
func Parse(token string) (Symbol, error) {
	if len(token) != 3 || token[0] != 'B' {
		return Symbol{}, fmt.Errorf("unrecognized frame %q", token)
	}

	var id pedal.ID
	switch token[1] {
	case '1':
		id = pedal.Pedal1
	case '2':
		id = pedal.Pedal2
	default:
		return Symbol{}, fmt.Errorf("unrecognized frame %q", token)
	}

	var kind pedal.Kind
	switch token[2] {
	case 'S':
		kind = pedal.KindShort
	case 'L':
		kind = pedal.KindLong
	default:
		return Symbol{}, fmt.Errorf("unrecognized frame %q", token)
	}

	return Symbol{Pedal: id, Kind: kind}, nil
}
