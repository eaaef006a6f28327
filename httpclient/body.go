package httpclient

import (
	"errors"
	"fmt"
	"io"
)

// DefaultMarkLimit is how many bytes a Marker body must be able to replay.
const DefaultMarkLimit = 4 * 1024

var (
	// ErrNotMarked is returned by Reset when Mark was never called.
	ErrNotMarked = errors.New("httpclient: body was not marked")
	// ErrMarkInvalidated is returned by Reset after more than the mark limit was read.
	ErrMarkInvalidated = errors.New("httpclient: read past mark limit")
)

// Marker is implemented by bodies that can save a read position and return to it.
type Marker interface {
	// Mark remembers the current position. At least readLimit bytes may be
	// read before the mark becomes invalid.
	Mark(readLimit int)
	// Reset returns to the marked position.
	Reset() error
}

// MarkableReader adds Mark and Reset to any reader by retaining the bytes
// read after the mark, up to the mark limit.
type MarkableReader struct {
	r       io.Reader
	buf     []byte
	pos     int
	limit   int
	marked  bool
	invalid bool
}

var _ Marker = (*MarkableReader)(nil)

// NewMarkableReader wraps r. Closing the MarkableReader closes r if it is an io.Closer.
func NewMarkableReader(r io.Reader) *MarkableReader {
	return &MarkableReader{r: r}
}

// Read serves replayed bytes first, then reads from the underlying reader.
func (m *MarkableReader) Read(p []byte) (int, error) {
	if m.pos < len(m.buf) {
		n := copy(p, m.buf[m.pos:])
		m.pos += n
		return n, nil
	}

	n, err := m.r.Read(p)
	if n > 0 && m.marked && !m.invalid {
		if len(m.buf)+n > m.limit {
			m.invalid = true
			m.buf = nil
			m.pos = 0
		} else {
			m.buf = append(m.buf, p[:n]...)
			m.pos = len(m.buf)
		}
	}
	return n, err
}

// Mark remembers the current position. Bytes buffered but not yet replayed
// are kept.
func (m *MarkableReader) Mark(readLimit int) {
	m.buf = append([]byte(nil), m.buf[m.pos:]...)
	m.pos = 0
	m.limit = readLimit
	m.marked = true
	m.invalid = false
}

// Reset rewinds to the marked position.
func (m *MarkableReader) Reset() error {
	if !m.marked {
		return ErrNotMarked
	}
	if m.invalid {
		return fmt.Errorf("%w (limit %d bytes)", ErrMarkInvalidated, m.limit)
	}
	m.pos = 0
	return nil
}

// Close closes the underlying reader if it can be closed.
func (m *MarkableReader) Close() error {
	if c, ok := m.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// rewindable reports whether body can be returned to its current position later.
func rewindable(body io.Reader) bool {
	if s, ok := body.(io.Seeker); ok {
		_, err := s.Seek(0, io.SeekCurrent)
		return err == nil
	}
	_, ok := body.(Marker)
	return ok
}

// bodyMark remembers the start of a request body for replay.
type bodyMark struct {
	seeker io.Seeker
	offset int64
	marker Marker
}

// markBody records the current position of body. It returns nil when the
// body cannot be rewound; such requests are never retried.
func markBody(body io.Reader, limit int) *bodyMark {
	if body == nil {
		return nil
	}
	if s, ok := body.(io.Seeker); ok {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			return &bodyMark{seeker: s, offset: off}
		}
		return nil
	}
	if m, ok := body.(Marker); ok {
		m.Mark(limit)
		return &bodyMark{marker: m}
	}
	return nil
}

// rewind returns the body to the marked position.
func (b *bodyMark) rewind() error {
	if b == nil {
		return nil
	}
	if b.seeker != nil {
		_, err := b.seeker.Seek(b.offset, io.SeekStart)
		return err
	}
	return b.marker.Reset()
}
