package nethttp

import (
	"errors"
	"io"
	"sync"
)

var errBodyReleased = errors.New("nethttp: request body released after exchange")

// attemptBody lends the caller's body to net/http for one exchange. After
// release no further reads reach the underlying reader, even if the transport
// is still writing in the background, so the dispatcher can rewind safely.
// Close never closes the caller's body.
type attemptBody struct {
	mu       sync.Mutex
	r        io.Reader
	released bool
}

func newAttemptBody(r io.Reader) *attemptBody {
	return &attemptBody{r: r}
}

func (b *attemptBody) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return 0, errBodyReleased
	}
	return b.r.Read(p)
}

func (b *attemptBody) Close() error {
	b.release()
	return nil
}

func (b *attemptBody) release() {
	b.mu.Lock()
	b.released = true
	b.mu.Unlock()
}
