package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cache"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the lint result cache",
		Long: `Lint reports are cached by file content, dialect and rule settings.
The cache lives in the database named by cache.path.`,
	}
	cmd.AddCommand(newCacheClearCommand(), newCachePruneCommand())
	return cmd
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			store, ok, err := openCache(cc)
			if err != nil || !ok {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			cc.Renderer.Success("Cache cleared: " + store.Path())
			return nil
		},
	}
}

func newCachePruneCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached reports older than a given age",
		Example: `  # Drop entries not written in the last week
  leaplint cache prune --older-than 168h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}
			cc := NewCommandContext(cmd)
			store, ok, err := openCache(cc)
			if err != nil || !ok {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			cc.Renderer.Success(fmt.Sprintf("Pruned %d cached reports", n))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age of the entries to remove")
	return cmd
}

// openCache opens the configured cache. It reports false, without error,
// when no cache database exists yet.
func openCache(cc *CommandContext) (*cache.Store, bool, error) {
	path := cc.Cfg.Cache.Path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cc.Renderer.Println(cc.Renderer.Styles().Muted.Render("No cache at " + path))
		return nil, false, nil
	}
	store, err := cache.Open(path)
	if err != nil {
		return nil, false, err
	}
	return store, true, nil
}
