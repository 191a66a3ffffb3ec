// Package cli implements the tinydock command tree: global flag handling,
// configuration and logger initialisation, service wiring and output
// formatting.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/tinydock/internal/application/campaign"
	"github.com/turtacn/tinydock/internal/config"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/tinydock/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/tinydock/internal/infrastructure/process"
	"github.com/turtacn/tinydock/internal/infrastructure/storage/minio"
	"github.com/turtacn/tinydock/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
}

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// skipInit marks commands that run without configuration.
const skipInit = "tinydock/skip-init"

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigPath   string
	Logger       logging.Logger
	Service      campaign.Service
	Metrics      prometheus.MetricsCollector
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
}

// Option replaces a collaborator of the command tree.
type Option func(*rootDeps)

type rootDeps struct {
	runner   process.Runner
	uploader minio.Uploader
	logger   logging.Logger
}

// WithRunner makes every command run external programs through r.
func WithRunner(r process.Runner) Option {
	return func(d *rootDeps) { d.runner = r }
}

// WithUploader replaces the MinIO client used by publish.
func WithUploader(u minio.Uploader) Option {
	return func(d *rootDeps) { d.uploader = u }
}

// WithLogger replaces the logger built from configuration.
func WithLogger(l logging.Logger) Option {
	return func(d *rootDeps) { d.logger = l }
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand(options ...Option) *cobra.Command {
	opts := &RootOptions{}
	deps := &rootDeps{}
	for _, o := range options {
		o(deps)
	}

	cmd := &cobra.Command{
		Use:   "tinydock",
		Short: "tinydock: molecular docking campaigns and affinity aggregation",
		Long: "tinydock prepares ligands from a molecule table, docks them against a set of\n" +
			"on- and off-target receptors with an AutoDock Vina compatible engine, summarises\n" +
			"the engine logs per target and ranks molecules by selectivity.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipInit] == "true" || cmd.Name() == "help" {
				return nil
			}
			return persistentPreRun(cmd, opts, deps)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPostRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./tinydock.yaml, ~/.tinydock/config.yaml, /etc/tinydock/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, yaml, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.DurationVar(&opts.Timeout, "timeout", 0, "global operation timeout (0 = none)")

	cmd.AddCommand(
		newPrepareCmd(),
		newDockCmd(),
		newSummarizeCmd(),
		newPrioritizeCmd(),
		newRunCmd(),
		newStatsCmd(),
		newExportPosesCmd(),
		newPublishCmd(),
		newVersionCmd(),
	)

	return cmd
}

// persistentPreRun initializes config, logger, metrics and the campaign
// service, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps *rootDeps) error {
	format := strings.ToLower(opts.OutputFormat)
	switch format {
	case OutputText, OutputJSON, OutputYAML, OutputTable:
	default:
		return errors.InvalidParam(fmt.Sprintf("unknown output format %q (want text, json, yaml or table)", opts.OutputFormat))
	}

	cfg, path, err := initConfig(opts)
	if err != nil {
		return err
	}

	logger := deps.logger
	if logger == nil {
		if logger, err = initLogger(cfg, opts); err != nil {
			return errors.Wrap(err, errors.CodeConfigInvalid, "logger initialization failed")
		}
	}
	if path == "" {
		logger.Debug("no config file found, using defaults and environment")
	} else {
		logger.Debug("configuration loaded", logging.String("path", path))
	}

	collector, err := initMetrics(cfg, logger)
	if err != nil {
		return err
	}

	publisher, err := initPublisher(cfg, deps, logger)
	if err != nil {
		return err
	}

	runner := deps.runner
	if runner == nil {
		runner = process.NewExecRunner(logger.Named("exec"))
	}

	svc, err := campaign.NewService(campaign.Deps{
		Config:    cfg,
		Runner:    runner,
		Metrics:   prometheus.NewCampaignMetrics(collector),
		Publisher: publisher,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigPath:   path,
		Logger:       logger,
		Service:      svc,
		Metrics:      collector,
		OutputFormat: format,
		Verbose:      opts.Verbose,
		Timeout:      opts.Timeout,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))

	return nil
}

// persistentPostRun writes the metrics textfile and flushes the logger.
func persistentPostRun(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil
	}
	if cliCtx.Config.Metrics.Enabled && cliCtx.Config.Metrics.Textfile != "" {
		path := cliCtx.Config.ResolvePath(cliCtx.Config.Metrics.Textfile)
		if err := cliCtx.Metrics.WriteTextfile(path); err != nil {
			cliCtx.Logger.Warn("failed to write metrics textfile", logging.String("path", path), logging.Err(err))
		}
	}
	_ = cliCtx.Logger.Sync()
	return nil
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, string, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		return cfg, opts.ConfigPath, err
	}
	return config.Discover()
}

// initLogger creates a logger configured for CLI usage (output to stderr).
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = strings.ToLower(opts.LogLevel)
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}

	outputs := cfg.Log.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           cfg.Log.Format,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	})
}

func initMetrics(cfg *config.Config, logger logging.Logger) (prometheus.MetricsCollector, error) {
	if !cfg.Metrics.Enabled {
		return prometheus.NewNoopCollector(), nil
	}
	return prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: cfg.Metrics.Namespace,
	}, logger.Named("metrics"))
}

// initPublisher returns nil when artifact storage is disabled.
func initPublisher(cfg *config.Config, deps *rootDeps, logger logging.Logger) (*minio.Publisher, error) {
	mc := cfg.Storage.MinIO
	if !mc.Enabled {
		return nil, nil
	}
	uploader := deps.uploader
	if uploader == nil {
		client, err := minio.NewMinIOClient(minio.MinIOConfig{
			Endpoint:  mc.Endpoint,
			AccessKey: mc.AccessKey,
			SecretKey: mc.SecretKey,
			UseSSL:    mc.UseSSL,
			Region:    mc.Region,
			Bucket:    mc.Bucket,
			Prefix:    mc.Prefix,
		}, logger.Named("minio"))
		if err != nil {
			return nil, err
		}
		uploader = client
	}
	return minio.NewPublisher(uploader, logger.Named("publish")), nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}

	return cliCtx, nil
}

// commandContext applies --timeout to the command context.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	if cliCtx.Timeout > 0 {
		return context.WithTimeout(cmd.Context(), cliCtx.Timeout)
	}
	return context.WithCancel(cmd.Context())
}

// Execute is the main entry point for the CLI application.  ctx is cancelled
// on interrupt by the caller.
func Execute(ctx context.Context, options ...Option) error {
	return NewRootCommand(options...).ExecuteContext(ctx)
}

//Personal.AI order the ending
