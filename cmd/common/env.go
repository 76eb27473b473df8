// Package common provides shared state for command implementations.
package common

import (
	"errors"
	"io"

	"github.com/spf13/viper"

	"github.com/jonesrussell/trendscout/internal/app"
	"github.com/jonesrussell/trendscout/internal/config"
	"github.com/jonesrussell/trendscout/internal/logger"
	"github.com/jonesrussell/trendscout/internal/metrics"
)

// ErrNotInitialized is returned when a command runs before the root
// command has loaded configuration.
var ErrNotInitialized = errors.New("command environment is not initialized")

// Streams are the standard streams a command writes to.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// Env holds the dependencies shared by every command. The root command
// fills it before any subcommand runs.
type Env struct {
	Streams Streams
	Viper   *viper.Viper
	Config  *config.Config
	Logger  *logger.Logger
}

// Validate ensures the environment has been loaded.
func (e *Env) Validate() error {
	if e == nil || e.Viper == nil || e.Config == nil || e.Logger == nil {
		return ErrNotInitialized
	}
	return nil
}

// NewApp builds the pipeline from the loaded configuration.
func (e *Env) NewApp(m *metrics.Metrics) (*app.App, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return app.New(e.Config, e.Logger, m)
}
