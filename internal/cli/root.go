package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/usagelog/internal/config"
	"github.com/roach88/usagelog/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	Workspace  string
	ConfigPath string

	// Getenv and Now are overridable for tests.
	Getenv func(string) string
	Now    func() time.Time

	cfg config.Config // resolved in PersistentPreRunE
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the usagelog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Getenv: os.Getenv, Now: time.Now})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:   "usagelog",
		Short: "usagelog - workbench usage event log",
		Long: `Fold recorded workbench usage into a per-day, per-workspace event log.

Records of the same kind and identity are merged: counts and durations add up,
launch file sets are united. Records of different kinds are never merged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $"+config.EnvDB+" or "+config.DefaultDB+")")
	cmd.PersistentFlags().StringVarP(&opts.Workspace, "workspace", "w", "", "workspace name (default "+config.DefaultWorkspace+")")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")

	// Add subcommands
	cmd.AddCommand(NewFoldCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewKindsCommand(opts))
	cmd.AddCommand(NewDaysCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))

	return cmd
}

// resolve layers defaults, environment, config file and explicit flags, then
// configures logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg := config.Default().Merge(config.FromEnv(o.Getenv))

	if o.ConfigPath != "" {
		fileCfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = cfg.Merge(fileCfg)
	}

	flags := cmd.Flags()
	var explicit config.Config
	if flags.Changed("db") {
		explicit.DB = o.Database
	}
	if flags.Changed("workspace") {
		explicit.Workspace = o.Workspace
	}
	if flags.Changed("format") {
		explicit.Format = o.Format
	}
	if o.Verbose {
		explicit.LogLevel = "debug"
	}
	cfg = cfg.Merge(explicit)

	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, ValidFormats))
	}
	level, err := cfg.Level()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid log level", err)
	}

	o.cfg = cfg
	o.Format = cfg.Format
	o.Database = cfg.DB
	o.Workspace = cfg.Workspace
	setupLogging(cmd.ErrOrStderr(), level)
	return nil
}

// today returns the partition day for the current time.
func (o *RootOptions) today() string {
	return store.Day(o.Now())
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
