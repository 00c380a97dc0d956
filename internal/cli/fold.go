package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/usagelog/internal/batch"
	"github.com/roach88/usagelog/internal/tracker"
)

// FoldReport is the outcome of folding one batch document.
type FoldReport struct {
	Source    string `json:"source"`
	Day       string `json:"day"`
	Workspace string `json:"workspace"`
	Token     string `json:"token"`
	Applied   bool   `json:"applied"`
	Seq       int64  `json:"seq"`
	Incoming  int    `json:"incoming"` // records in the batch
	Reduced   int    `json:"reduced"`  // records after in-batch merging
	Before    int    `json:"before"`
	After     int    `json:"after"`
}

// NewFoldCommand creates the fold command.
func NewFoldCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fold <batch.yaml>...",
		Short: "Fold batch files into the event log",
		Long: `Load YAML batch files and fold every document into its day and workspace.

Every file is loaded and validated before anything is written. Documents
without a day use today's date; documents without a workspace use --workspace.
A document is applied at most once: its token (explicit or derived from its
content) is recorded with the flush.

Examples:
  usagelog fold --db ./usage.db batches/2024-03-01.yaml
  usagelog fold -w main --format json a.yaml b.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFold(cmd.Context(), rootOpts, cmd, args)
		},
	}
	return cmd
}

func runFold(ctx context.Context, opts *RootOptions, cmd *cobra.Command, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(cmd, opts)

	batches, err := loadBatches(opts, out, paths)
	if err != nil {
		return err
	}

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	reports := make([]FoldReport, 0, len(batches))
	for _, b := range batches {
		token, err := b.ResolveToken()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to derive token for "+b.Source, err)
		}

		period := tracker.NewPeriod(tracker.WithTokenGenerator(tracker.NewFixedGenerator(token)))
		for _, e := range b.Events {
			if err := period.Add(e); err != nil {
				return WrapExitError(ExitFailure, "failed to merge "+b.Source, err)
			}
		}
		reduced := period.Len()

		res, err := period.Flush(ctx, st, b.Day, b.Workspace)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to fold "+b.Source, err)
		}
		slog.Info("batch folded", "source", b.Source, "day", b.Day, "workspace", b.Workspace,
			"applied", res.Applied, "records", len(b.Events))

		reports = append(reports, FoldReport{
			Source:    b.Source,
			Day:       b.Day,
			Workspace: b.Workspace,
			Token:     token,
			Applied:   res.Applied,
			Seq:       res.Seq,
			Incoming:  len(b.Events),
			Reduced:   reduced,
			Before:    res.Before,
			After:     res.After,
		})
	}

	if out.JSON() {
		return out.Success(reports)
	}
	writeFoldText(out, reports)
	return nil
}

// loadBatches loads every file and fills in default day and workspace.
// In JSON mode a rejected document is also reported as an error response.
func loadBatches(opts *RootOptions, out *OutputFormatter, paths []string) ([]*batch.Batch, error) {
	var all []*batch.Batch
	for _, path := range paths {
		batches, err := batch.Load(path)
		if err != nil {
			code := ExitFailure
			if batch.ErrorCode(err) == batch.ErrCodeRead {
				code = ExitCommandError
			}
			var le *batch.LoadError
			if out.JSON() && errors.As(err, &le) {
				if werr := out.Error(le.Code, le.Message, map[string]string{"source": le.Source}); werr != nil {
					return nil, WrapExitError(ExitCommandError, "failed to write error", werr)
				}
			}
			return nil, WrapExitError(code, "failed to load batch", err)
		}
		slog.Debug("batch file loaded", "path", path, "documents", len(batches))
		all = append(all, batches...)
	}

	for _, b := range all {
		if b.Day == "" {
			b.Day = opts.today()
		}
		if b.Workspace == "" {
			b.Workspace = opts.Workspace
		}
	}
	return all, nil
}

func writeFoldText(out *OutputFormatter, reports []FoldReport) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, r := range reports {
		switch {
		case r.Incoming == 0:
			fmt.Fprintf(out.Writer, "%s %s: empty batch\n", yellow("skipped"), r.Source)
		case !r.Applied:
			fmt.Fprintf(out.Writer, "%s %s: already applied as flush %d\n", yellow("skipped"), r.Source, r.Seq)
		default:
			fmt.Fprintf(out.Writer, "%s %s -> %s/%s: flush %d, %s merged into %d (%d -> %d)\n",
				green("folded"), r.Source, r.Day, r.Workspace, r.Seq,
				plural(r.Incoming, "record"), r.Reduced, r.Before, r.After)
		}
		out.VerboseLog("  token %s", r.Token)
	}
}
