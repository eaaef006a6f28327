package config

import (
	"github.com/kbukum/logkit/httpclient"
	"github.com/kbukum/logkit/httpclient/nethttp"
	"github.com/kbukum/logkit/logger"
	"github.com/kbukum/logkit/observability"
)

const defaultCharset = "UTF-8"

// ClientConfig is the complete configuration of a log service client.
type ClientConfig struct {
	// Name identifies the client in logs and telemetry.
	Name string `yaml:"name" mapstructure:"name"`
	// Endpoint is the service base URI.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required,url"`
	// Charset encodes query parameters and parameter bodies.
	Charset string `yaml:"charset" mapstructure:"charset" validate:"required,charset"`
	// MaxRetries is the retry limit of the dispatcher.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=100"`
	// MarkLimit is the replay buffer for non-seekable bodies.
	MarkLimit int `yaml:"mark_limit" mapstructure:"mark_limit" validate:"gte=0"`

	Transport nethttp.Config             `yaml:"transport" mapstructure:"transport"`
	Logger    logger.Config              `yaml:"logger" mapstructure:"logger"`
	Tracing   observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics   observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// Defaults are the loader defaults for ClientConfig keys that have a
// meaningful zero value.
func Defaults() map[string]any {
	return map[string]any{
		"charset":     defaultCharset,
		"max_retries": httpclient.DefaultMaxRetries,
		"mark_limit":  httpclient.DefaultMarkLimit,
	}
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *ClientConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "logkit"
	}
	if c.Charset == "" {
		c.Charset = defaultCharset
	}
	if c.MarkLimit <= 0 {
		c.MarkLimit = httpclient.DefaultMarkLimit
	}
	c.Transport.ApplyDefaults()
	c.Logger.ApplyDefaults()
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = c.Name
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = c.Name
	}
}

// Validate checks struct tags first, then the component rules.
func (c *ClientConfig) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	return c.Logger.Validate()
}

// Dispatcher returns the dispatcher settings.
func (c *ClientConfig) Dispatcher() httpclient.Config {
	return httpclient.Config{
		MaxRetries: c.MaxRetries,
		MarkLimit:  c.MarkLimit,
	}
}
