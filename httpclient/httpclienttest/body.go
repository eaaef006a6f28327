package httpclienttest

import (
	"bytes"
	"io"
	"sync/atomic"
)

// SeekableBody is a rewindable request body that counts Close calls.
type SeekableBody struct {
	*bytes.Reader
	closes atomic.Int32
}

// NewSeekableBody returns a body over data.
func NewSeekableBody(data string) *SeekableBody {
	return &SeekableBody{Reader: bytes.NewReader([]byte(data))}
}

func (b *SeekableBody) Close() error {
	b.closes.Add(1)
	return nil
}

// Closes returns how many times Close was called.
func (b *SeekableBody) Closes() int {
	return int(b.closes.Load())
}

// StreamBody is a one-shot request body that cannot be rewound.
type StreamBody struct {
	r        io.Reader
	closes   atomic.Int32
	CloseErr error
}

// NewStreamBody returns a non-rewindable body over data.
func NewStreamBody(data string) *StreamBody {
	return &StreamBody{r: bytes.NewReader([]byte(data))}
}

func (b *StreamBody) Read(p []byte) (int, error) {
	return b.r.Read(p)
}

func (b *StreamBody) Close() error {
	b.closes.Add(1)
	return b.CloseErr
}

// Closes returns how many times Close was called.
func (b *StreamBody) Closes() int {
	return int(b.closes.Load())
}
