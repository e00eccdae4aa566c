package app

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute parses args and runs the selected command.
func (a *App) Execute(ctx context.Context, args []string) error {
	// --config has to be applied before the flags are declared, since the
	// loaded values become the flag defaults.
	if path := configFileFromArgs(args); path != "" && path != a.config.ConfigFile {
		config, err := LoadConfigFrom(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "riftsync",
		Short:   "Card catalog and image cache synchronizer",
		Version: a.version,
		Long: `Riftsync keeps a local card catalog snapshot and image cache in step
with the remote card catalog.

Each sync walks every catalog page, keeps every card already in the
snapshot, backfills cards whose image is cached but whose metadata was
never written, and downloads images that are missing.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetVersionTemplate("riftsync {{.Version}}\n")
	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "inspect", Title: "Snapshot Commands:"},
	)

	// Flags write straight into the loaded config, so a flag overrides the
	// file and environment only when it is given.
	flags := root.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", a.config.ConfigFile, "config file (default is $HOME/.riftsync.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	flags.StringVar(&a.config.BaseURL, "base-url", a.config.BaseURL, "catalog API base URL")
	flags.StringVar(&a.config.Snapshot, "snapshot", a.config.Snapshot, "snapshot file path")
	flags.StringVar(&a.config.AssetsDir, "assets-dir", a.config.AssetsDir, "image cache directory")
	flags.StringVar(&a.config.AssetExt, "asset-ext", a.config.AssetExt, "image file extension, without the dot")
	flags.IntVar(&a.config.PageSize, "page-size", a.config.PageSize, "cards requested per page")

	root.AddCommand(
		a.CreateSyncCommand(),
		a.CreateExportCommand(),
		a.CreateSetsCommand(),
		a.CreateVersionCommand(),
	)
	return root
}

// setupCommand rebuilds the logger once flags have been parsed.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// configFileFromArgs finds an explicit --config value before cobra parses flags.
func configFileFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if value, ok := strings.CutPrefix(arg, "--config="); ok {
			return value
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// ContextWithSignals returns a context canceled on SIGINT or SIGTERM.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ExitOnError prints err to stderr and exits with status 1. It does nothing
// for a nil err.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
	os.Exit(1)
}
