// Package serve implements the serve command.
package serve

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendscout/cmd/common"
	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/jonesrussell/trendscout/internal/metrics"
	"github.com/jonesrussell/trendscout/internal/server"
)

// Command returns the serve command.
func Command(env *common.Env) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve trending listings and page analysis over HTTP.

Routes:
  GET    /health
  GET    /api/v1/trending?language=&period=&limit=&topics=&ai=&summary_length=
  GET    /api/v1/metadata?url=&depth=&images=&timeout=&ai=&summary_length=
  DELETE /api/v1/cache
  GET    /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.Validate(); err != nil {
				return err
			}
			cfg := env.Config
			if address != "" {
				cfg.Server.Address = address
			}

			m := metrics.New()
			a, err := env.NewApp(m)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if enrichErr := a.EnrichmentError(); enrichErr != nil {
				env.Logger.Info("AI enrichment unavailable, ai=true requests will be rejected", "reason", enrichErr)
			}

			watchLogLevel(env)

			srv := server.New(server.Config{
				Address:      cfg.Server.Address,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				Debug:        cfg.App.Debug,
			}, a, m, env.Logger)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address (default from config)")
	return cmd
}

// watchLogLevel applies logger.level changes from the config file while
// the server runs.
func watchLogLevel(env *common.Env) {
	if env.Viper.ConfigFileUsed() == "" {
		return
	}
	env.Viper.OnConfigChange(func(e fsnotify.Event) {
		level := logger.Level(env.Viper.GetString("logger.level"))
		if err := env.Logger.SetLevel(level); err != nil {
			env.Logger.Warn("Ignoring invalid log level from config file", "file", e.Name, "level", level, "error", err)
			return
		}
		env.Logger.Info("Log level reloaded", "file", e.Name, "level", level)
	})
	env.Viper.WatchConfig()
}
