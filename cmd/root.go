// Package cmd implements the trendscout command-line interface.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/jonesrussell/trendscout/cmd/analyze"
	cmdcache "github.com/jonesrussell/trendscout/cmd/cache"
	"github.com/jonesrussell/trendscout/cmd/common"
	cmdconfig "github.com/jonesrussell/trendscout/cmd/config"
	"github.com/jonesrussell/trendscout/cmd/serve"
	"github.com/jonesrussell/trendscout/cmd/trending"
	cmdwatch "github.com/jonesrussell/trendscout/cmd/watch"
	"github.com/jonesrussell/trendscout/internal/config"
	"github.com/jonesrussell/trendscout/internal/logger"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, os.Args[1:], common.Streams{Out: os.Stdout, Err: os.Stderr})
}

// Run executes args and returns the exit code. Failures are reported on
// the error stream as "Error: <message>".
func Run(ctx context.Context, args []string, streams common.Streams) int {
	root := NewRootCommand(streams)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(streams.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree writing to streams.
func NewRootCommand(streams common.Streams) *cobra.Command {
	var (
		cfgFile string
		debug   bool
	)
	env := &common.Env{Streams: streams}

	root := &cobra.Command{
		Use:   "trendscout",
		Short: "GitHub trending scraper and page metadata extractor",
		Long: `trendscout lists trending GitHub repositories, extracts metadata from
web pages and can summarise both with an AI model.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initEnv(env, cfgFile, debug)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if env.Logger != nil {
				_ = env.Logger.Sync()
			}
		},
	}
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./config.yaml or "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		trending.Command(env),
		analyze.Command(env),
		cmdcache.Command(env),
		cmdconfig.Command(env),
		serve.Command(env),
		cmdwatch.Command(env),
		versionCommand(streams.Out),
	)
	return root
}

// initEnv loads configuration and creates the logger.
func initEnv(env *common.Env, cfgFile string, debug bool) error {
	v := viper.New()
	if err := config.Init(v, cfgFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if debug {
		v.Set("app.debug", true)
		v.Set("logger.level", string(logger.DebugLevel))
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, err := logger.NewWithSink(cfg.Logger, zapcore.AddSync(env.Streams.Err))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	env.Viper = v
	env.Config = cfg
	env.Logger = log
	log.Debug("Configuration loaded", "file", config.Path(v))
	return nil
}

func versionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(out, "trendscout version %s\n", Version)
			return err
		},
	}
}
