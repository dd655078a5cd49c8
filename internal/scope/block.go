package scope

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// IEEE-488.2 definite-length block: '#', one digit N, N digits of payload
// length, then the payload. Used by the scope for screen dumps and setup
// blobs.

// readBlock reads a definite-length block from r. If the response does not
// start with '#' it is treated as a plain line and returned without the
// trailing newline (some firmware replies in ASCII on error).
func readBlock(r *bufio.Reader) ([]byte, error) {
	first, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read block header: %w", err)
	}

	if first != '#' {
		if err := r.UnreadByte(); err != nil {
			return nil, err
		}
		line, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read non-block response: %w", err)
		}
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		return line, nil
	}

	digit, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("read block header: %w", err)
	}
	if digit < '1' || digit > '9' {
		return nil, fmt.Errorf("malformed block header: length digit %q", digit)
	}
	n := int(digit - '0')

	lenDigits := make([]byte, n)
	if _, err := io.ReadFull(r, lenDigits); err != nil {
		return nil, fmt.Errorf("read block length: %w", err)
	}
	length, err := strconv.Atoi(string(lenDigits))
	if err != nil {
		return nil, fmt.Errorf("malformed block length %q: %w", lenDigits, err)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read block payload: %w", err)
	}

	// Trailing newline after the block, if any, is left for the next read
	// to skip.
	return data, nil
}

// buildBlock wraps data in a definite-length block header for upload.
func buildBlock(data []byte) []byte {
	lenStr := strconv.Itoa(len(data))
	header := fmt.Sprintf("#%d%s", len(lenStr), lenStr)
	return append([]byte(header), data...)
}
