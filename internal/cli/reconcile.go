package cli

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/usagelog/internal/tracker"
	"github.com/roach88/usagelog/internal/usage"
)

// ReconcileOptions holds flags for the reconcile command.
type ReconcileOptions struct {
	*RootOptions
	WithStore bool
}

// NewReconcileCommand creates the reconcile command.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReconcileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reconcile <batch.yaml>...",
		Short: "Merge batch files in memory and print the result",
		Long: `Merge the documents of batch files per day and workspace without writing
anything, and print the reduced records.

With --with-store the stored records of each partition are merged in first,
showing what fold would produce.

Examples:
  usagelog reconcile batches/*.yaml
  usagelog reconcile --with-store --db ./usage.db today.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.WithStore, "with-store", false, "start from the stored records of each partition")

	return cmd
}

type partitionKey struct{ day, workspace string }

func runReconcile(ctx context.Context, opts *ReconcileOptions, cmd *cobra.Command, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(cmd, opts.RootOptions)

	batches, err := loadBatches(opts.RootOptions, out, paths)
	if err != nil {
		return err
	}

	periods := make(map[partitionKey]*tracker.Period)
	var keys []partitionKey
	period := func(k partitionKey) *tracker.Period {
		p, ok := periods[k]
		if !ok {
			p = tracker.NewPeriod()
			periods[k] = p
			keys = append(keys, k)
		}
		return p
	}

	for _, b := range batches {
		k := partitionKey{day: b.Day, workspace: b.Workspace}
		p := period(k)
		if len(b.Events) == 0 {
			continue
		}
		if opts.WithStore && p.Len() == 0 {
			if err := seedFromStore(ctx, opts.RootOptions, p, k); err != nil {
				return err
			}
		}
		for _, e := range b.Events {
			if err := p.Add(e); err != nil {
				return WrapExitError(ExitFailure, "failed to merge "+b.Source, err)
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].workspace < keys[j].workspace
	})

	views := make([]PartitionView, 0, len(keys))
	for _, k := range keys {
		view, err := newPartitionView(k.day, k.workspace, sortEventsByKind(periods[k].Events()))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to render events", err)
		}
		views = append(views, view)
	}

	if out.JSON() {
		return out.Success(views)
	}
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(out.Writer)
		}
		writePartitionText(out.Writer, v)
	}
	return nil
}

// seedFromStore adds the stored records of k to an empty period.
func seedFromStore(ctx context.Context, opts *RootOptions, p *tracker.Period, k partitionKey) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	events, err := st.Events(ctx, k.day, k.workspace)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}
	for _, e := range events {
		if err := p.Add(e); err != nil {
			return WrapExitError(ExitCommandError, "failed to merge stored records", err)
		}
	}
	return nil
}

// sortEventsByKind orders events by kind name, keeping the order within a kind.
func sortEventsByKind(events []usage.Event) []usage.Event {
	slices.SortStableFunc(events, func(a, b usage.Event) int {
		return strings.Compare(string(a.Kind()), string(b.Kind()))
	})
	return events
}
