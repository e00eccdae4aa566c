package sync

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/riftsync"
	"github.com/agentstation/riftsync/internal/cmd/output"
	"github.com/agentstation/riftsync/pkg/logging"
)

// Summary is the printable outcome of a sync.
type Summary struct {
	Mode          string   `json:"mode" yaml:"mode"`
	Snapshot      string   `json:"snapshot" yaml:"snapshot"`
	SnapshotShape string   `json:"snapshot_shape" yaml:"snapshot_shape"`
	AssetsDir     string   `json:"assets_dir" yaml:"assets_dir"`
	Fetched       int      `json:"fetched" yaml:"fetched"`
	Written       int      `json:"written" yaml:"written"`
	Backfilled    []string `json:"backfilled" yaml:"backfilled"`
	Unresolved    []string `json:"unresolved" yaml:"unresolved"`
	Downloaded    int      `json:"downloaded" yaml:"downloaded"`
	Skipped       int      `json:"skipped" yaml:"skipped"`
	Failed        int      `json:"failed" yaml:"failed"`
	DryRun        bool     `json:"dry_run" yaml:"dry_run"`
	StartedAt     utc.Time `json:"started_at" yaml:"started_at"`
	FinishedAt    utc.Time `json:"finished_at" yaml:"finished_at"`
	Duration      string   `json:"duration" yaml:"duration"`
}

// Execute runs one sync with client and prints its summary to w.
func Execute(ctx context.Context, w io.Writer, format string, client *riftsync.Client, flags *Flags) error {
	var opts []riftsync.SyncOption
	if flags.DryRun {
		opts = append(opts, riftsync.WithDryRun())
	}
	if flags.SkipAssets {
		opts = append(opts, riftsync.WithSkipAssets())
	}
	if flags.Timeout > 0 {
		opts = append(opts, riftsync.WithTimeout(flags.Timeout))
	}

	result, err := client.Sync(ctx, opts...)
	if err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Int("failed", result.Assets.Failed).Msg("Some images could not be downloaded")
	}

	summary := NewSummary(client, result)
	f := output.DetectFormat(format)
	if f == output.FormatTable {
		return output.NewFormatter(f).Format(w, summary.Table())
	}
	return output.NewFormatter(f).Format(w, summary)
}

// NewSummary builds a Summary from a sync result.
func NewSummary(client *riftsync.Client, result *riftsync.Result) Summary {
	return Summary{
		Mode:          result.Mode.String(),
		Snapshot:      client.SnapshotPath(),
		SnapshotShape: result.SnapshotShape.String(),
		AssetsDir:     client.AssetsDir(),
		Fetched:       result.Fetched,
		Written:       result.Written,
		Backfilled:    result.Backfilled,
		Unresolved:    result.Unresolved,
		Downloaded:    result.Assets.Downloaded,
		Skipped:       result.Assets.Skipped,
		Failed:        result.Assets.Failed,
		DryRun:        result.DryRun,
		StartedAt:     result.StartedAt,
		FinishedAt:    result.FinishedAt,
		Duration:      result.Duration.Round(time.Millisecond).String(),
	}
}

// Table renders the summary as two-column table data.
func (s Summary) Table() output.Data {
	return output.Data{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Mode", s.Mode},
			{"Snapshot", s.Snapshot + " (" + s.SnapshotShape + ")"},
			{"Fetched", strconv.Itoa(s.Fetched)},
			{"Written", strconv.Itoa(s.Written)},
			{"Backfilled", list(s.Backfilled)},
			{"Unresolved", list(s.Unresolved)},
			{"Images", s.AssetsDir},
			{"Downloaded", strconv.Itoa(s.Downloaded)},
			{"Skipped", strconv.Itoa(s.Skipped)},
			{"Failed", strconv.Itoa(s.Failed)},
			{"Dry run", strconv.FormatBool(s.DryRun)},
			{"Started", s.StartedAt.Format(time.RFC3339)},
			{"Duration", s.Duration},
		},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft},
	}
}

func list(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	const limit = 5
	if len(ids) <= limit {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:limit], ", ") + ", +" + strconv.Itoa(len(ids)-limit) + " more"
}
