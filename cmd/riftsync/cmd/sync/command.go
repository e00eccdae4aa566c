// Package sync implements the sync command.
package sync

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/riftsync"
	"github.com/agentstation/riftsync/internal/appcontext"
	"github.com/agentstation/riftsync/pkg/logging"
)

// Flags holds the sync command flags.
type Flags struct {
	DryRun     bool
	SkipAssets bool
	Workers    int
	Timeout    time.Duration
}

// NewCommand creates the sync command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Synchronize the snapshot and image cache with the catalog",
		Args:    cobra.NoArgs,
		Long: `Sync fetches every page of the remote card catalog and reconciles it with
the local snapshot:

• With no usable snapshot, the snapshot is rebuilt from the catalog
• Otherwise every persisted card is kept as-is, and cards whose image is
  already cached but which are missing from the snapshot are backfilled
• The snapshot is written grouped by subset in a stable order
• Images missing from the cache are downloaded; failures are counted

A catalog fetch failure aborts the run and leaves the snapshot untouched.`,
		Example: `  riftsync sync                      # Full sync
  riftsync sync --dry-run            # Reconcile without writing anything
  riftsync sync --skip-assets        # Write the snapshot only
  riftsync sync --workers 8          # Download images concurrently`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var extra []riftsync.Option
			if cmd.Flags().Changed("workers") {
				extra = append(extra, riftsync.WithWorkers(flags.Workers))
			}
			client, err := app.ClientWithOptions(extra...)
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			return Execute(ctx, cmd.OutOrStdout(), app.OutputFormat(), client, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "reconcile without writing the snapshot or downloading images")
	cmd.Flags().BoolVar(&flags.SkipAssets, "skip-assets", false, "write the snapshot but do not download images")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 1, "concurrent image downloads")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "abort the sync after this long (0 for no limit)")

	return cmd
}
