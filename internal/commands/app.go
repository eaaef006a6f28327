// Package commands implements the logctl command tree using Cobra.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/logkit/config"
	"github.com/kbukum/logkit/httpclient"
	"github.com/kbukum/logkit/httpclient/nethttp"
	"github.com/kbukum/logkit/logger"
	"github.com/kbukum/logkit/observability"
)

const serviceName = "logctl"

// AppOption customizes App dependencies.
type AppOption func(*App)

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile    string
	envFile    string
	endpoint   string
	charset    string
	maxRetries int
	verbose    bool

	cfg       *config.ClientConfig
	metrics   *observability.DispatchMetrics
	shutdowns []func(context.Context) error
}

// NewApp creates the CLI with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   serviceName,
		Short: "logctl - command line client for the log service",
		Long: `logctl sends requests to the log service through the logkit dispatcher,
with the same retry, charset and transport settings applications use.

Configuration is read from ./logctl.yml, ./config.yml or ~/.logctl/config.yml,
then LOGKIT_* environment variables, then the flags below.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: search ./logctl.yml, ./config.yml, ~/.logctl/config.yml)")
	flags.StringVar(&a.envFile, "env-file", "", ".env file to load before reading LOGKIT_* variables")
	flags.StringVar(&a.endpoint, "endpoint", "", "service endpoint, e.g. https://cn-hangzhou.log.aliyuncs.com")
	flags.StringVar(&a.charset, "charset", "", "charset for query parameters and parameter bodies (default UTF-8)")
	flags.IntVar(&a.maxRetries, "max-retries", 0, "retry limit (default from config, 3)")
	flags.BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newSendCommand())
	root.AddCommand(a.newProjectCommand())
	root.AddCommand(a.newServeCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, then releases the
// dispatcher and flushes telemetry even when the command failed.
func (a *App) ExecuteContext(ctx context.Context) error {
	err := a.root.ExecuteContext(ctx)
	if shutdownErr := a.shutdown(ctx); err == nil {
		err = shutdownErr
	}
	return err
}

// SetArgs overrides the command line arguments.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// initConfig loads the config file and environment, then applies flags.
// Endpoint validation is deferred to the commands that dispatch.
func (a *App) initConfig(cmd *cobra.Command) error {
	opts := []config.LoaderOption{config.WithDefaults(config.Defaults())}
	if a.cfgFile != "" {
		opts = append(opts, config.WithConfigFile(a.cfgFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}

	var cfg config.ClientConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return err
	}

	flags := cmd.Flags()
	if a.endpoint != "" {
		cfg.Endpoint = a.endpoint
	}
	if a.charset != "" {
		cfg.Charset = a.charset
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = a.maxRetries
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	// Keep stdout for command output.
	if cfg.Logger.Output == "" {
		cfg.Logger.Output = "stderr"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "warn"
	}
	if a.verbose {
		cfg.Logger.Level = "debug"
	}
	cfg.ApplyDefaults()

	logger.Init(cfg.Logger, serviceName)
	a.cfg = &cfg
	return nil
}

// initTelemetry starts the exporters enabled in the config.
func (a *App) initTelemetry(ctx context.Context) error {
	if a.cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, a.cfg.Tracing)
		if err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, tp.Shutdown)
	}
	if a.cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, a.cfg.Metrics)
		if err != nil {
			return err
		}
		a.shutdowns = append(a.shutdowns, mp.Shutdown)

		m, err := observability.NewDispatchMetrics(observability.Meter(observability.DefaultTracerName))
		if err != nil {
			return err
		}
		a.metrics = m
	}
	return nil
}

// newDispatcher validates the config and builds a dispatcher over net/http.
func (a *App) newDispatcher(ctx context.Context) (*httpclient.Dispatcher, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := a.initTelemetry(ctx); err != nil {
		return nil, err
	}

	tr, err := nethttp.New(a.cfg.Transport, nethttp.WithLogger(logger.Get("nethttp")))
	if err != nil {
		return nil, err
	}

	opts := []httpclient.Option{httpclient.WithLogger(logger.Get("httpclient"))}
	if a.metrics != nil {
		opts = append(opts, httpclient.WithMetrics(a.metrics))
	}
	d, err := httpclient.New(tr, a.cfg.Dispatcher(), opts...)
	if err != nil {
		_ = tr.Shutdown(ctx)
		return nil, err
	}
	a.shutdowns = append(a.shutdowns, d.Shutdown)
	return d, nil
}

// shutdown releases the dispatcher and flushes telemetry, newest first.
func (a *App) shutdown(ctx context.Context) error {
	var errs []error
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		if err := a.shutdowns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.shutdowns = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
