// Package cache implements the cache commands.
package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendscout/cmd/common"
)

// Command returns the cache command group.
func Command(env *common.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the record caches",
	}
	cmd.AddCommand(clearCommand(env))
	return cmd
}

func clearCommand(env *common.Env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached trending listing and page analysis",
		Long: `Remove every cached record. With the memory backend the cache only
lives for one process, so this is mostly useful with the redis backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.NewApp(nil)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err = a.ClearCache(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			_, err = fmt.Fprintf(env.Streams.Out, "Cache cleared (%s backend)\n", env.Config.Cache.Backend)
			return err
		},
	}
}
