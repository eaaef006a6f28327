package config

import (
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func validConfig() ClientConfig {
	cfg := ClientConfig{Endpoint: "https://cn-hangzhou.log.aliyuncs.com", MaxRetries: 3}
	cfg.ApplyDefaults()
	return cfg
}

func TestClientConfigApplyDefaults(t *testing.T) {
	var cfg ClientConfig
	cfg.ApplyDefaults()

	if cfg.Charset != "UTF-8" {
		t.Errorf("expected charset UTF-8, got %q", cfg.Charset)
	}
	if cfg.MarkLimit != 4096 {
		t.Errorf("expected mark limit 4096, got %d", cfg.MarkLimit)
	}
	if cfg.Transport.Timeout == 0 {
		t.Error("expected transport defaults to be applied")
	}
	if cfg.Logger.Level != "info" {
		t.Errorf("expected logger level info, got %q", cfg.Logger.Level)
	}
	if cfg.Tracing.ServiceName != "logkit" {
		t.Errorf("expected tracing service name logkit, got %q", cfg.Tracing.ServiceName)
	}
}

func TestClientConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ClientConfig)
		errMsg string
	}{
		{"valid", func(*ClientConfig) {}, ""},
		{"missing endpoint", func(c *ClientConfig) { c.Endpoint = "" }, "endpoint: is required"},
		{"relative endpoint", func(c *ClientConfig) { c.Endpoint = "not a url" }, "endpoint: must be an absolute URL"},
		{"unknown charset", func(c *ClientConfig) { c.Charset = "klingon" }, `charset: unsupported charset "klingon"`},
		{"negative retries", func(c *ClientConfig) { c.MaxRetries = -1 }, "max_retries: must be at least 0"},
		{"too many retries", func(c *ClientConfig) { c.MaxRetries = 1000 }, "max_retries: must be at most 100"},
		{"tracing without endpoint", func(c *ClientConfig) {
			c.Tracing.Enabled = true
			c.Tracing.Endpoint = ""
		}, "tracing.endpoint: is required"},
		{"bad sample rate", func(c *ClientConfig) { c.Tracing.SampleRate = 2 }, "tracing.sample_rate: must be at most 1"},
		{"negative backoff", func(c *ClientConfig) { c.Transport.Backoff.Initial = -time.Second }, "transport.backoff.initial"},
		{"bad log level", func(c *ClientConfig) { c.Logger.Level = "loud" }, "logger.level must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestClientConfigDispatcher(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRetries = 5
	d := cfg.Dispatcher()
	if d.MaxRetries != 5 || d.MarkLimit != 4096 {
		t.Errorf("unexpected dispatcher config %+v", d)
	}
}

func TestLoadClientConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "logctl.yml", `
endpoint: https://cn-shanghai.log.aliyuncs.com
charset: GBK
max_retries: 5
transport:
  timeout: 15s
  max_idle_conns: 20
  max_idle_conns_per_host: 10
  enable_http2: true
  backoff:
    initial: 250ms
logger:
  level: debug
  format: json
`)

	cfg, err := LoadClientConfig("logctl", WithConfigFile(path), WithFileSystem(&RealFileSystem{}))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}

	if cfg.Endpoint != "https://cn-shanghai.log.aliyuncs.com" {
		t.Errorf("unexpected endpoint %q", cfg.Endpoint)
	}
	if cfg.Charset != "GBK" {
		t.Errorf("expected GBK, got %q", cfg.Charset)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("expected 5 retries, got %d", cfg.MaxRetries)
	}
	if cfg.Transport.Timeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.Transport.Timeout)
	}
	if cfg.Transport.MaxIdleConns != 20 || !cfg.Transport.EnableHTTP2 {
		t.Errorf("unexpected transport %+v", cfg.Transport)
	}
	if cfg.Transport.Backoff.Initial != 250*time.Millisecond {
		t.Errorf("expected 250ms initial backoff, got %v", cfg.Transport.Backoff.Initial)
	}
	if cfg.Transport.Backoff.Max == 0 {
		t.Error("expected backoff defaults to fill max")
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "json" {
		t.Errorf("unexpected logger %+v", cfg.Logger)
	}
	if cfg.Name != "logctl" {
		t.Errorf("expected name logctl, got %q", cfg.Name)
	}
}

func TestLoadClientConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "endpoint: http://localhost:8080\n")

	cfg, err := LoadClientConfig("logctl", WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected default 3 retries, got %d", cfg.MaxRetries)
	}
	if cfg.Charset != "UTF-8" {
		t.Errorf("expected default UTF-8, got %q", cfg.Charset)
	}
}

func TestLoadClientConfigExplicitZeroRetries(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "endpoint: http://localhost:8080\nmax_retries: 0\n")

	cfg, err := LoadClientConfig("logctl", WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("expected 0 retries to be kept, got %d", cfg.MaxRetries)
	}
}

func TestLoadClientConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
endpoint: http://localhost:8080
transport:
  max_idle_conns: 20
`)

	t.Setenv("LOGKIT_ENDPOINT", "https://override.example.com")
	t.Setenv("LOGKIT_MAX_RETRIES", "7")
	t.Setenv("LOGKIT_TRANSPORT_MAX_IDLE_CONNS", "40")
	t.Setenv("LOGKIT_TRANSPORT_MAX_IDLE_CONNS_PER_HOST", "10")
	t.Setenv("LOGKIT_TRANSPORT_TIMEOUT", "2s")
	t.Setenv("LOGKIT_TRACING_SAMPLE_RATE", "0.25")

	cfg, err := LoadClientConfig("logctl", WithConfigFile(path))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.Endpoint != "https://override.example.com" {
		t.Errorf("expected env endpoint, got %q", cfg.Endpoint)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("expected 7 retries, got %d", cfg.MaxRetries)
	}
	if cfg.Transport.MaxIdleConns != 40 || cfg.Transport.MaxIdleConnsPerHost != 10 {
		t.Errorf("expected idle conns 40/10, got %d/%d", cfg.Transport.MaxIdleConns, cfg.Transport.MaxIdleConnsPerHost)
	}
	if cfg.Transport.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.Transport.Timeout)
	}
	if cfg.Tracing.SampleRate != 0.25 {
		t.Errorf("expected sample rate 0.25, got %v", cfg.Tracing.SampleRate)
	}
}

func TestLoadClientConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "endpoint: http://localhost:8080\n")
	envPath := writeFile(t, dir, ".env", "LOGKIT_MARK_LIMIT=8192\n")
	t.Cleanup(func() { os.Unsetenv("LOGKIT_MARK_LIMIT") })

	cfg, err := LoadClientConfig("logctl", WithConfigFile(path), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("LoadClientConfig failed: %v", err)
	}
	if cfg.MarkLimit != 8192 {
		t.Errorf("expected mark limit 8192 from .env, got %d", cfg.MarkLimit)
	}
}

func TestLoadClientConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "charset: UTF-8\n")

	_, err := LoadClientConfig("logctl", WithConfigFile(path))
	if err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Errorf("expected endpoint validation error, got %v", err)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg ClientConfig
	err := LoadConfig("logctl", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "endpoint: [unterminated\n")

	var cfg ClientConfig
	if err := LoadConfig("logctl", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

type mockFS struct {
	files map[string]bool
	home  string
}

func (m *mockFS) Exists(path string) bool      { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error    { return nil }
func (m *mockFS) UserHomeDir() (string, error) { return m.home, nil }

func TestResolverSearchOrder(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]bool
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "service file wins",
			files:      map[string]bool{"./logctl.yml": true, "./config.yml": true, "./.env": true},
			wantConfig: "./logctl.yml",
			wantEnv:    "./.env",
		},
		{
			name:       "cmd directory",
			files:      map[string]bool{"./cmd/logctl/config.yml": true, "./cmd/logctl/.env": true},
			wantConfig: "./cmd/logctl/config.yml",
			wantEnv:    "./cmd/logctl/.env",
		},
		{
			name:       "home directory",
			files:      map[string]bool{filepath.Join("/home/u", ".logctl", "config.yml"): true},
			wantConfig: filepath.Join("/home/u", ".logctl", "config.yml"),
		},
		{
			name:  "nothing found",
			files: map[string]bool{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &Resolver{FileSystem: &mockFS{files: tc.files, home: "/home/u"}}
			files := resolver.ResolveFiles("logctl", LoaderConfig{})
			if files.ConfigFile != tc.wantConfig {
				t.Errorf("expected config %q, got %q", tc.wantConfig, files.ConfigFile)
			}
			if files.EnvFile != tc.wantEnv {
				t.Errorf("expected env %q, got %q", tc.wantEnv, files.EnvFile)
			}
		})
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	files := resolver.ResolveFiles("logctl", LoaderConfig{ConfigFile: "/etc/logctl.yml", EnvFile: "/etc/logctl.env"})
	if files.ConfigFile != "/etc/logctl.yml" || files.EnvFile != "/etc/logctl.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys(reflect.TypeOf(&ClientConfig{}), "")

	for _, want := range []string{"endpoint", "max_retries", "transport.max_idle_conns_per_host", "transport.backoff.initial", "logger.level", "tracing.sample_rate"} {
		if !slices.Contains(keys, want) {
			t.Errorf("expected key %q in %v", want, keys)
		}
	}
	for _, key := range keys {
		if strings.HasPrefix(key, "transport.circuitbreaker") {
			t.Errorf("expected mapstructure:\"-\" fields to be skipped, got %q", key)
		}
	}
	if envName("transport.backoff.initial") != "LOGKIT_TRANSPORT_BACKOFF_INITIAL" {
		t.Errorf("unexpected env name %q", envName("transport.backoff.initial"))
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithDefaults(map[string]any{"charset": "GBK"})(&lc)

	if lc.FileSystem != fs {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected paths %+v", lc)
	}
	if lc.Defaults["charset"] != "GBK" {
		t.Errorf("expected defaults to be set, got %v", lc.Defaults)
	}
}
