package nethttp

import (
	"fmt"
	"time"

	"github.com/kbukum/logkit/resilience"
	"github.com/kbukum/logkit/security"
)

const (
	defaultTimeout             = 60 * time.Second
	defaultDialTimeout         = 5 * time.Second
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 50
	defaultMaxConnsPerHost     = 50
	defaultIdleConnTimeout     = 60 * time.Second
)

// Config configures the net/http transport.
type Config struct {
	// Timeout bounds one exchange including reading the response. Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// DialTimeout bounds connection establishment. Defaults to 5s.
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout" validate:"gte=0"`

	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
	MaxConnsPerHost     int           `yaml:"max_conns_per_host" mapstructure:"max_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout" validate:"gte=0"`

	// EnableHTTP2 negotiates HTTP/2 over TLS.
	EnableHTTP2 bool `yaml:"enable_http2" mapstructure:"enable_http2"`

	// RateLimit caps sends per second. Zero disables the limit.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
	// RateBurst is the token bucket size. Defaults to 1 when RateLimit is set.
	RateBurst int `yaml:"rate_burst" mapstructure:"rate_burst" validate:"gte=0"`

	// MaxConcurrent caps simultaneous exchanges. Zero means unlimited.
	MaxConcurrent int64 `yaml:"max_concurrent" mapstructure:"max_concurrent" validate:"gte=0"`

	// Backoff drives the default retry policy.
	Backoff resilience.Backoff `yaml:"backoff" mapstructure:"backoff"`

	// TLS customizes certificate verification and client certificates.
	TLS security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// CircuitBreaker, when set, stops sending after repeated transient failures.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
	if c.MaxConnsPerHost <= 0 {
		c.MaxConnsPerHost = defaultMaxConnsPerHost
	}
	if c.IdleConnTimeout <= 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	c.Backoff.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("nethttp: timeout must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("nethttp: rate limit must not be negative")
	}
	if c.MaxConcurrent < 0 {
		return fmt.Errorf("nethttp: max concurrent must not be negative")
	}
	if c.MaxIdleConnsPerHost > c.MaxIdleConns {
		return fmt.Errorf("nethttp: max idle conns per host (%d) exceeds max idle conns (%d)", c.MaxIdleConnsPerHost, c.MaxIdleConns)
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return c.Backoff.Validate()
}
