package resilience

import (
	"fmt"
	"math"
	"time"
)

const (
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 3 * time.Second
	defaultBackoffFactor  = 2.0
)

// Backoff computes exponential delays between attempts.
// Delays depend only on the attempt index, so two calls with the same
// index always agree.
type Backoff struct {
	// Initial is the delay before the first retry.
	Initial time.Duration `yaml:"initial" mapstructure:"initial" validate:"gte=0"`
	// Max caps every delay.
	Max time.Duration `yaml:"max" mapstructure:"max" validate:"gte=0"`
	// Factor is the multiplier applied per additional attempt.
	Factor float64 `yaml:"factor" mapstructure:"factor" validate:"gte=0"`
}

// DefaultBackoff returns 100ms doubling up to 3s.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial: defaultInitialBackoff,
		Max:     defaultMaxBackoff,
		Factor:  defaultBackoffFactor,
	}
}

// ApplyDefaults fills in zero-value fields.
func (b *Backoff) ApplyDefaults() {
	if b.Initial <= 0 {
		b.Initial = defaultInitialBackoff
	}
	if b.Max <= 0 {
		b.Max = defaultMaxBackoff
	}
	if b.Factor <= 0 {
		b.Factor = defaultBackoffFactor
	}
}

// Validate checks that the backoff is usable.
func (b Backoff) Validate() error {
	if b.Initial < 0 || b.Max < 0 {
		return fmt.Errorf("resilience: backoff durations must not be negative")
	}
	if b.Factor < 1 {
		return fmt.Errorf("resilience: backoff factor must be >= 1 (got: %v)", b.Factor)
	}
	if b.Max < b.Initial {
		return fmt.Errorf("resilience: backoff max (%s) is below initial (%s)", b.Max, b.Initial)
	}
	return nil
}

// Delay returns the wait before the given attempt. Attempt 0 is the first
// try and never waits; attempt n waits Initial * Factor^(n-1), capped at Max.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 || b.Initial <= 0 {
		return 0
	}

	factor := b.Factor
	if factor < 1 {
		factor = 1
	}

	d := float64(b.Initial) * math.Pow(factor, float64(attempt-1))
	if b.Max > 0 && (math.IsInf(d, 0) || math.IsNaN(d) || d > float64(b.Max)) {
		return b.Max
	}
	if d > math.MaxInt64 || math.IsInf(d, 0) || math.IsNaN(d) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}
