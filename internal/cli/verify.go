package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/usagelog/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Day string // optional - specific day only
	All bool   // every workspace
}

// VerifyPartition is the verification result for one partition.
type VerifyPartition struct {
	Day        string   `json:"day"`
	Workspace  string   `json:"workspace"`
	Flushes    int      `json:"flushes"`
	Stored     int      `json:"stored"`
	Rebuilt    int      `json:"rebuilt"`
	Consistent bool     `json:"consistent"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// VerifyResult holds the overall verification result.
type VerifyResult struct {
	Partitions    []VerifyPartition `json:"partitions"`
	AllConsistent bool              `json:"all_consistent"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay flushes and compare with the stored records",
		Long: `Rebuild partitions by replaying their recorded flushes in order and compare
the result with the stored records.

Exit codes:
  0 - All partitions are consistent
  1 - At least one partition differs from its replay
  2 - Command error (database not found, etc.)

Examples:
  usagelog verify --day 2024-03-01
  usagelog verify --all --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Day, "day", "d", "", "verify this day only")
	cmd.Flags().BoolVar(&opts.All, "all", false, "verify every workspace")

	return cmd
}

func runVerify(ctx context.Context, opts *VerifyOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(cmd, opts.RootOptions)

	if opts.Day != "" {
		if _, err := resolveDay(opts.RootOptions, opts.Day); err != nil {
			return err
		}
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	workspaces := []string{opts.Workspace}
	if opts.All {
		workspaces, err = st.Workspaces(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list workspaces", err)
		}
	}

	result := VerifyResult{Partitions: []VerifyPartition{}, AllConsistent: true}
	for _, ws := range workspaces {
		days := []string{opts.Day}
		if opts.Day == "" {
			days, err = st.Days(ctx, ws)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list days", err)
			}
		}
		for _, day := range days {
			p, err := verifyPartition(ctx, st, day, ws)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to verify %s/%s", day, ws), err)
			}
			result.Partitions = append(result.Partitions, p)
			if !p.Consistent {
				result.AllConsistent = false
			}
		}
	}

	if out.JSON() {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		writeVerifyText(out, result)
	}

	if !result.AllConsistent {
		return NewExitError(ExitFailure, "verification failed: stored records differ from replay")
	}
	return nil
}

func verifyPartition(ctx context.Context, st *store.Store, day, workspace string) (VerifyPartition, error) {
	res, err := st.Verify(ctx, day, workspace)
	if err != nil {
		return VerifyPartition{}, err
	}
	return VerifyPartition{
		Day:        res.Day,
		Workspace:  res.Workspace,
		Flushes:    res.Flushes,
		Stored:     res.Stored,
		Rebuilt:    res.Rebuilt,
		Consistent: res.Consistent,
		Mismatches: res.Mismatches,
	}, nil
}

func writeVerifyText(out *OutputFormatter, result VerifyResult) {
	if len(result.Partitions) == 0 {
		fmt.Fprintln(out.Writer, "No partitions found.")
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, p := range result.Partitions {
		status := green("ok")
		if !p.Consistent {
			status = red("MISMATCH")
		}
		fmt.Fprintf(out.Writer, "%s/%s: %s (%s, %s)\n",
			p.Day, p.Workspace, status, plural(p.Flushes, "flush"), plural(p.Stored, "record"))
		for _, m := range p.Mismatches {
			fmt.Fprintf(out.Writer, "  %s\n", m)
		}
	}
}
