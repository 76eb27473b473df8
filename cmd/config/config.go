// Package config implements the config commands.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/trendscout/cmd/common"
	appconfig "github.com/jonesrussell/trendscout/internal/config"
)

// Command returns the config command group.
func Command(env *common.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration",
	}
	cmd.AddCommand(showCommand(env), pathCommand(env), setCommand(env))
	return cmd
}

func showCommand(env *common.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := env.Validate(); err != nil {
				return err
			}
			enc := yaml.NewEncoder(env.Streams.Out)
			enc.SetIndent(2)
			if err := enc.Encode(env.Config.Redacted()); err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			return enc.Close()
		},
	}
}

func pathCommand(env *common.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := env.Validate(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(env.Streams.Out, appconfig.Path(env.Viper))
			return err
		},
	}
}

func setCommand(env *common.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Persist one setting to the configuration file",
		Long: `Persist one setting to the configuration file, creating it when needed.
Keys use dotted paths, for example:

  trendscout config set ai.enabled true
  trendscout config set watch.languages "[go, rust]"`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := env.Validate(); err != nil {
				return err
			}
			path := appconfig.Path(env.Viper)
			if err := appconfig.Set(path, args[0], args[1]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(env.Streams.Out, "Set %s in %s\n", args[0], path)
			return err
		},
	}
}
