package httpclient

import "fmt"

// DefaultMaxRetries is the retry limit used by the config loader.
const DefaultMaxRetries = 3

// Config configures a Dispatcher. It is copied by New and never changed afterwards.
type Config struct {
	// MaxRetries is the maximum number of retries; at most MaxRetries+1
	// attempts are made. Zero disables retries.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// MarkLimit is the lookahead given to Marker bodies. Defaults to DefaultMarkLimit.
	MarkLimit int `yaml:"mark_limit" mapstructure:"mark_limit"`

	// RetryPolicy overrides the transport's default policy.
	RetryPolicy RetryPolicy `yaml:"-" mapstructure:"-"`

	// Clock is used for waits between attempts. Defaults to RealClock.
	Clock Clock `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.MarkLimit <= 0 {
		c.MarkLimit = DefaultMarkLimit
	}
	if c.Clock == nil {
		c.Clock = RealClock{}
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("httpclient: max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.MarkLimit < 0 {
		return fmt.Errorf("httpclient: mark limit must not be negative, got %d", c.MarkLimit)
	}
	return nil
}
