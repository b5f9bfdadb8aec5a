package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
)

const defaultReadSize = 4096

// Decoder turns a chunked response body into a sequence of events.
//
// Bytes are buffered and split on '\n'; a line is converted to text only once it
// is complete. A newline byte never occurs inside a multi-byte UTF-8 sequence, so
// characters split across reads are reassembled before decoding.
type Decoder struct {
	r         io.Reader
	buf       []byte
	chunk     []byte
	malformed int
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, chunk: make([]byte, defaultReadSize)}
}

// Decode reads until EOF, calling fn for every event in arrival order.
//
// Malformed data lines are logged and skipped. Decode stops early when ctx is
// done, when the underlying read fails, or when fn returns an error.
// A trailing line without a newline is processed at EOF.
func (d *Decoder) Decode(ctx context.Context, fn func(Event) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := d.r.Read(d.chunk)
		if n > 0 {
			d.buf = append(d.buf, d.chunk[:n]...)
			if err := d.drain(fn); err != nil {
				return err
			}
		}

		if errors.Is(readErr, io.EOF) {
			if len(d.buf) > 0 {
				line := d.buf
				d.buf = nil
				return d.handleLine(line, fn)
			}
			return nil
		}
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return readErr
		}
	}
}

// Malformed returns how many data lines were skipped because they did not parse.
func (d *Decoder) Malformed() int {
	return d.malformed
}

// drain processes every complete line and keeps the incomplete tail buffered.
// The tail is moved to the front once per call.
func (d *Decoder) drain(fn func(Event) error) error {
	start := 0
	defer func() {
		if start > 0 {
			n := copy(d.buf, d.buf[start:])
			d.buf = d.buf[:n]
		}
	}()
	for {
		i := bytes.IndexByte(d.buf[start:], '\n')
		if i < 0 {
			return nil
		}
		line := d.buf[start : start+i]
		start += i + 1
		if err := d.handleLine(line, fn); err != nil {
			return err
		}
	}
}

func (d *Decoder) handleLine(line []byte, fn func(Event) error) error {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	ev, ok, err := ParseLine(string(line))
	if err != nil {
		d.malformed++
		slog.Warn("Skipping malformed stream line", "error", err, "line", truncate(string(line), 120))
		return nil
	}
	if !ok {
		return nil
	}
	return fn(ev)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
