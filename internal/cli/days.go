package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// DaysResult lists the days recorded for a workspace.
type DaysResult struct {
	Workspace string   `json:"workspace"`
	Days      []string `json:"days"`
}

// NewDaysCommand creates the days command.
func NewDaysCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "days",
		Short:         "List the days with records for the workspace",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out := newFormatter(cmd, rootOpts)

			st, err := openStore(rootOpts)
			if err != nil {
				return err
			}
			defer closeStore(st)

			days, err := st.Days(ctx, rootOpts.Workspace)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list days", err)
			}

			if out.JSON() {
				return out.Success(DaysResult{Workspace: rootOpts.Workspace, Days: days})
			}
			if len(days) == 0 {
				fmt.Fprintf(out.Writer, "No records for workspace %s.\n", rootOpts.Workspace)
				return nil
			}
			for _, d := range days {
				fmt.Fprintln(out.Writer, d)
			}
			return nil
		},
	}
}
