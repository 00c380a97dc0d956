package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/usagelog/internal/store"
	"github.com/roach88/usagelog/internal/usage"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Day   string
	Kinds []string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the reconciled records of a day",
		Long: `Print the reconciled records stored for one day and workspace.

Records are ordered by kind, then by the order they were first recorded.

Examples:
  usagelog show --day 2024-03-01
  usagelog show --day 2024-03-01 --kind command --kind launch --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Day, "day", "d", "", "day to show, YYYY-MM-DD (default today)")
	cmd.Flags().StringSliceVarP(&opts.Kinds, "kind", "k", nil, "only show these record kinds")

	return cmd
}

func runShow(ctx context.Context, opts *ShowOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(cmd, opts.RootOptions)

	day, err := resolveDay(opts.RootOptions, opts.Day)
	if err != nil {
		return err
	}
	kinds, err := parseKinds(opts.Kinds)
	if err != nil {
		return err
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	events, err := st.Events(ctx, day, opts.Workspace, kinds...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	view, err := newPartitionView(day, opts.Workspace, events)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to render events", err)
	}
	if out.JSON() {
		return out.Success(view)
	}
	writePartitionText(out.Writer, view)
	return nil
}

// resolveDay validates day, defaulting to today.
func resolveDay(opts *RootOptions, day string) (string, error) {
	if day == "" {
		return opts.today(), nil
	}
	if _, err := time.Parse(store.DayLayout, day); err != nil {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("invalid --day %q", day), err)
	}
	return day, nil
}

func parseKinds(names []string) ([]usage.Kind, error) {
	kinds := make([]usage.Kind, 0, len(names))
	for _, name := range names {
		k, err := usage.ParseKind(name)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --kind", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
