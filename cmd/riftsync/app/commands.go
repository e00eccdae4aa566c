package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/riftsync/cmd/riftsync/cmd/export"
	"github.com/agentstation/riftsync/cmd/riftsync/cmd/sets"
	synccmd "github.com/agentstation/riftsync/cmd/riftsync/cmd/sync"
)

// CreateSyncCommand creates the sync command with app dependencies.
func (a *App) CreateSyncCommand() *cobra.Command {
	return synccmd.NewCommand(a)
}

// CreateExportCommand creates the export command with app dependencies.
func (a *App) CreateExportCommand() *cobra.Command {
	return export.NewCommand(a)
}

// CreateSetsCommand creates the sets command with app dependencies.
func (a *App) CreateSetsCommand() *cobra.Command {
	return sets.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("riftsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
