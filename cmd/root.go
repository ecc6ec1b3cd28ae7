package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/psacc/lumberjack/internal/config"
	"github.com/psacc/lumberjack/internal/logging"
	"github.com/psacc/lumberjack/internal/output"
	"github.com/psacc/lumberjack/internal/search"
	"github.com/psacc/lumberjack/internal/source"

	// Register all backends via init()
	_ "github.com/psacc/lumberjack/internal/source/cloudwatch"
	"github.com/psacc/lumberjack/internal/source/local"
)

var (
	flagJSON     bool
	flagConfig   string
	flagRegion   string
	flagProfile  string
	flagBackend  string
	flagDir      string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "lumberjack",
	Short: "Browse, search and tail CloudWatch log groups",
	Long: "Browse log groups, run filtered searches over a time window and follow new events, " +
		"interactively or from scripts. Runs the interactive browser when called without a subcommand.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.config/lumberjack/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "AWS region (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Log backend: "+strings.Join(source.Names(), ", "))
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Directory of .log/.jsonl files (implies --backend local)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
}

func getFormat() output.Format {
	if flagJSON {
		return output.FormatJSON
	}
	return output.FormatTable
}

// app holds what every subcommand needs once flags and config are merged.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

// loadApp loads the config, applies flag overrides and builds the logger.
// Interactive sessions never log to the terminal.
func loadApp(interactive bool) (*app, error) {
	cfg, _, _, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logging.NewNop()}
	paths := logPaths(cfg, interactive)
	if len(paths) == 0 {
		return a, nil
	}
	logger, closer, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
	if err != nil {
		return nil, err
	}
	a.logger, a.closer = logger, closer
	return a, nil
}

// applyFlags overrides config values with the flags that were set.
func applyFlags(cfg *config.Config) error {
	if flagRegion != "" {
		cfg.Region = flagRegion
	}
	if flagProfile != "" {
		cfg.Profile = flagProfile
	}
	if flagDir != "" {
		dir, err := config.ExpandPath(flagDir)
		if err != nil {
			return fmt.Errorf("--dir: %w", err)
		}
		cfg.Local.Dir = dir
		cfg.Backend = local.Name
	}
	if flagBackend != "" {
		cfg.Backend = strings.ToLower(flagBackend)
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = strings.ToLower(flagLogLevel)
	}
	return nil
}

func logPaths(cfg *config.Config, interactive bool) []string {
	if cfg.Logging.File != "" {
		return []string{cfg.Logging.File}
	}
	if interactive {
		return nil
	}
	return []string{"stderr"}
}

func (a *app) Close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// dialer returns a memoized opener for the configured backend.
func (a *app) dialer() (search.Dialer, error) {
	b, ok := source.ByName(a.cfg.Backend)
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (available: %s)", a.cfg.Backend, strings.Join(source.Names(), ", "))
	}
	opts := a.sourceOptions()

	var (
		mu    sync.Mutex
		store source.Store
	)
	return func(ctx context.Context) (source.Store, error) {
		mu.Lock()
		defer mu.Unlock()
		if store != nil {
			return store, nil
		}
		s, err := b.Open(ctx, opts)
		if err != nil {
			return nil, err
		}
		store = s
		a.logger.Debug("backend opened", slog.String("backend", b.Name))
		return store, nil
	}, nil
}

// sourceOptions maps the config onto backend options. The local page size
// only applies to the local backend; CloudWatch picks its own page size.
func (a *app) sourceOptions() source.Options {
	opts := source.Options{
		Region:  a.cfg.Region,
		Profile: a.cfg.Profile,
	}
	if a.cfg.Backend == local.Name {
		opts.Dir = a.cfg.Local.Dir
		opts.PageSize = a.cfg.Local.PageSize
	}
	return opts
}

func (a *app) coordinator(dial search.Dialer) *search.Coordinator {
	return search.New(dial,
		search.WithLogger(a.logger),
		search.WithTailInterval(a.cfg.TailInterval()),
	)
}

// describe names the backend for headers and titles.
func (a *app) describe() string {
	switch a.cfg.Backend {
	case local.Name:
		return "local " + a.cfg.Local.Dir
	default:
		if a.cfg.Region != "" {
			return a.cfg.Backend + " " + a.cfg.Region
		}
		return a.cfg.Backend
	}
}

// commandContext returns cmd's context, or Background when the command was
// invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
