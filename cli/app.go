// Package cli provides the inflation command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sartorproj/goinflation/pipeline"
	"github.com/sartorproj/goinflation/source"
	"github.com/sartorproj/goinflation/source/csvfile"
	"github.com/sartorproj/goinflation/source/fred"
	"github.com/sartorproj/goinflation/timeseries"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// APIKeyEnv is the environment variable read when --api-key is not given.
const APIKeyEnv = "FRED_API_KEY"

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	logger *zap.Logger
	src    source.Source
	opts   *globalOptions
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath  string
	sourceName  string
	apiKey      string
	fredURL     string
	csvPath     string
	csvIDColumn string
	logLevel    string
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		opts:   &globalOptions{},
	}

	app.root = &cobra.Command{
		Use:   "inflation",
		Short: "CPI inflation explorer",
		Long: `inflation fetches monthly CPI series, computes year-over-year inflation per
category and reports rolling statistics, the largest headline spikes and
twelve-month trend and AR(1) forecasts.

Series come from the FRED API (set FRED_API_KEY) or from a CSV file written by
"inflation fetch".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setupLogger()
		},
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.opts.configPath, "config", "c", "", "Path to a YAML report configuration (default: built-in CPI categories)")
	flags.StringVar(&app.opts.sourceName, "source", "fred", "Series source: fred or csv")
	flags.StringVar(&app.opts.apiKey, "api-key", "", "FRED API key (default: $"+APIKeyEnv+")")
	flags.StringVar(&app.opts.fredURL, "fred-url", fred.DefaultBaseURL, "FRED API base URL")
	flags.StringVar(&app.opts.csvPath, "csv", "", "CSV file for --source csv")
	flags.StringVar(&app.opts.csvIDColumn, "csv-id-column", "", "Series id column of a long-format CSV (wide format when empty)")
	flags.StringVar(&app.opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newReportCmd(),
		app.newFetchCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// WithLogger sets the logger instead of building one from --log-level.
func (a *App) WithLogger(logger *zap.Logger) *App {
	a.logger = logger
	return a
}

// WithSource sets the series source, overriding --source.
func (a *App) WithSource(src source.Source) *App {
	a.src = src
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if a.logger != nil {
			_ = a.logger.Sync()
		}
	}()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) setupLogger() error {
	if a.logger != nil {
		return nil
	}
	level, err := zapcore.ParseLevel(a.opts.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(a.stderr),
		level,
	)
	a.logger = zap.New(core)
	return nil
}

func (a *App) loadConfig() (*pipeline.Config, error) {
	if a.opts.configPath == "" {
		return pipeline.DefaultConfig(), nil
	}
	cfg, err := pipeline.LoadConfig(a.opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("configuration loaded",
		zap.String("path", a.opts.configPath),
		zap.Int("categories", len(cfg.Categories)))
	return cfg, nil
}

func (a *App) openSource(cfg *pipeline.Config) (source.Source, error) {
	if a.src != nil {
		return a.src, nil
	}

	switch a.opts.sourceName {
	case "fred":
		key := a.opts.apiKey
		if key == "" {
			key = os.Getenv(APIKeyEnv)
		}
		if key == "" {
			return nil, fmt.Errorf("%w: pass --api-key or set %s", fred.ErrMissingAPIKey, APIKeyEnv)
		}
		return fred.NewClient(key,
			fred.WithBaseURL(a.opts.fredURL),
			fred.WithLogger(a.logger.Named("fred"))), nil

	case "csv":
		if a.opts.csvPath == "" {
			return nil, fmt.Errorf("--csv is required with --source csv")
		}
		opts := []csvfile.Option{csvfile.WithColumns(cfg.Codes())}
		if a.opts.csvIDColumn != "" {
			csvOpts := timeseries.DefaultCSVOptions()
			csvOpts.IDColumn = a.opts.csvIDColumn
			opts = append(opts, csvfile.WithCSVOptions(csvOpts))
		}
		return csvfile.Open(a.opts.csvPath, opts...)

	default:
		return nil, fmt.Errorf("unknown source %q (want fred or csv)", a.opts.sourceName)
	}
}

func (a *App) fetch(ctx context.Context, cfg *pipeline.Config) (*timeseries.Table, error) {
	src, err := a.openSource(cfg)
	if err != nil {
		return nil, err
	}
	levels, err := pipeline.Fetch(ctx, src, cfg, source.WithLogger(a.logger.Named("source")))
	if err != nil {
		return nil, err
	}
	a.logger.Info("levels fetched",
		zap.Int("categories", len(levels.Columns)),
		zap.Int("months", levels.Len()))
	return levels, nil
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "inflation version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
