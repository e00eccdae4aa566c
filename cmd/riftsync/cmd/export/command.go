// Package export implements the export command.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/riftsync"
	"github.com/agentstation/riftsync/internal/appcontext"
	"github.com/agentstation/riftsync/internal/cmd/output"
	"github.com/agentstation/riftsync/internal/snapshot"
	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// NewCommand creates the export command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "inspect",
		Short:   "Print the snapshot in canonical grouped form",
		Args:    cobra.NoArgs,
		Long: `Export reads the local snapshot, in either the flat or the grouped layout,
and prints it grouped by subset in the stable order sync writes.

JSON output is byte-identical to what sync writes. YAML output carries
the same groups and fields.`,
		Example: `  riftsync export                    # Canonical JSON
  riftsync export --format yaml      # Same groups as YAML`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			return Execute(ctx, cmd.OutOrStdout(), client, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(output.FormatJSON), "export format: json, yaml")

	return cmd
}

// Execute writes the snapshot of client to w in the given format.
func Execute(ctx context.Context, w io.Writer, client *riftsync.Client, format string) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return errors.WrapValidation("format", err)
	}

	snap := client.Snapshot(ctx)
	switch snap.Shape {
	case snapshot.ShapeMissing:
		return errors.NewResourceError("load", "snapshot", snap.Path, fmt.Errorf("no snapshot found; run riftsync sync first"))
	case snapshot.ShapeInvalid:
		return errors.WrapResource("load", "snapshot", snap.Path, snap.Err)
	}

	switch f {
	case output.FormatYAML:
		groups, err := cards.GroupBySubset(snap.Cards)
		if err != nil {
			return err
		}
		return output.NewFormatter(output.FormatYAML).Format(w, groups)
	case output.FormatJSON, "":
		data, err := cards.Serialize(snap.Cards)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return errors.NewValidationError("format", format, "export supports json and yaml")
	}
}
