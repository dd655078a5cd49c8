package wire

import (
	"bufio"
	"io"
	"log"
	"strings"
)

// decoderBufSize bounds frame accumulation. Valid tokens are 3 bytes, so
// anything that overflows this is noise and is discarded up to the next
// delimiter.
const decoderBufSize = 64

// Decoder splits a byte stream into symbol frames. Unrecognized or truncated
// frames are dropped and the decoder resynchronizes at the next delimiter;
// only errors from the underlying reader terminate decoding.
type Decoder struct {
	r        *bufio.Reader
	skipping bool
	dropped  int
}

// NewDecoder creates a Decoder reading frames from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, decoderBufSize)}
}

// Next returns the next valid symbol from the stream. It blocks until a
// valid frame arrives, skipping garbage in between. The error is io.EOF at
// end of stream or the underlying read error; decode failures never surface.
func (d *Decoder) Next() (Symbol, error) {
	for {
		line, err := d.r.ReadSlice(Delimiter)
		if err == bufio.ErrBufferFull {
			// Frame longer than any valid token: discard up to the
			// next delimiter.
			if !d.skipping {
				d.skipping = true
				d.dropped++
				log.Printf("wire: dropping oversized frame")
			}
			continue
		}
		if err != nil {
			// A partial trailing frame is discarded, per protocol.
			return Symbol{}, err
		}

		if d.skipping {
			// Tail end of an oversized frame
			d.skipping = false
			continue
		}

		token := strings.TrimRight(string(line), "\r\n")
		if token == "" {
			continue
		}

		sym, perr := Parse(token)
		if perr != nil {
			d.dropped++
			log.Printf("wire: %v", perr)
			continue
		}
		return sym, nil
	}
}

// Dropped returns the number of frames discarded so far.
func (d *Decoder) Dropped() int {
	return d.dropped
}
