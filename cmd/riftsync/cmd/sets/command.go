// Package sets implements the sets command.
package sets

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/riftsync"
	"github.com/agentstation/riftsync/internal/appcontext"
	"github.com/agentstation/riftsync/internal/cmd/output"
	"github.com/agentstation/riftsync/internal/snapshot"
	"github.com/agentstation/riftsync/pkg/cards"
	"github.com/agentstation/riftsync/pkg/errors"
	"github.com/agentstation/riftsync/pkg/logging"
)

// Set summarizes one subset of the snapshot.
type Set struct {
	SubsetID string   `json:"subset_id" yaml:"subset_id"`
	Label    string   `json:"label" yaml:"label"`
	Cards    int      `json:"cards" yaml:"cards"`
	Cached   int      `json:"cached" yaml:"cached"`
	Rarities []Rarity `json:"rarities" yaml:"rarities"`
}

// Rarity counts the cards of one rarity within a set.
type Rarity struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// NewCommand creates the sets command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "sets",
		GroupID: "inspect",
		Short:   "List the subsets in the snapshot",
		Args:    cobra.NoArgs,
		Long: `Sets lists every subset in the local snapshot in output order with its
card count, how many of its cards have a cached image, and a rarity breakdown.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			return Execute(ctx, cmd.OutOrStdout(), app.OutputFormat(), client)
		},
	}
}

// Execute prints the set summaries of client's snapshot to w.
func Execute(ctx context.Context, w io.Writer, format string, client *riftsync.Client) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return errors.WrapValidation("format", err)
	}

	snap := client.Snapshot(ctx)
	if snap.Shape == snapshot.ShapeInvalid {
		return errors.WrapResource("load", "snapshot", snap.Path, snap.Err)
	}
	local, err := client.LocalIDs()
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Could not list cached images")
	}

	groups, err := cards.GroupBySubset(snap.Cards)
	if err != nil {
		return err
	}
	summaries := Summarize(groups, local)
	f = output.DetectFormat(string(f))
	if f == output.FormatTable {
		return output.NewFormatter(f).Format(w, Table(summaries))
	}
	return output.NewFormatter(f).Format(w, summaries)
}

// Summarize counts cards, cached images and rarities per group. Rarity names
// are title-cased so "COMMON" and "common" are counted together.
func Summarize(groups []cards.Group, local map[string]struct{}) []Set {
	caser := cases.Title(language.English)
	out := make([]Set, 0, len(groups))
	for _, g := range groups {
		set := Set{SubsetID: g.SubsetID, Label: g.Label, Cards: len(g.Cards), Rarities: []Rarity{}}
		counts := map[string]int{}
		for _, c := range g.Cards {
			if _, ok := local[c.Identifier()]; ok && c.Identifier() != "" {
				set.Cached++
			}
			name := "Unknown"
			if c.Classification.Rarity != nil && strings.TrimSpace(*c.Classification.Rarity) != "" {
				name = caser.String(strings.TrimSpace(*c.Classification.Rarity))
			}
			counts[name]++
		}
		for name, n := range counts {
			set.Rarities = append(set.Rarities, Rarity{Name: name, Count: n})
		}
		slices.SortFunc(set.Rarities, func(a, b Rarity) int {
			return strings.Compare(a.Name, b.Name)
		})
		out = append(out, set)
	}
	return out
}

// Table renders set summaries as table data.
func Table(sets []Set) output.Data {
	data := output.Data{
		Headers:         []string{"Subset", "Label", "Cards", "Cached", "Rarities"},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignLeft},
	}
	for _, s := range sets {
		parts := make([]string, 0, len(s.Rarities))
		for _, r := range s.Rarities {
			parts = append(parts, fmt.Sprintf("%s %d", r.Name, r.Count))
		}
		subset := s.SubsetID
		if subset == "" {
			subset = "-"
		}
		data.Rows = append(data.Rows, []string{
			subset,
			s.Label,
			strconv.Itoa(s.Cards),
			strconv.Itoa(s.Cached),
			strings.Join(parts, ", "),
		})
	}
	return data
}
