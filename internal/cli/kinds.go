package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/usagelog/internal/usage"
)

// NewKindsCommand creates the kinds command.
func NewKindsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List record kinds and how they merge",
		Long: `List every record kind with its identity, measure and aggregate fields.

Two records of the same kind merge when all identity fields are present and
equal. Measures are added, aggregates are united.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, rootOpts)
			infos := usage.Describe()
			if out.JSON() {
				return out.Success(infos)
			}
			writeKindsText(out, infos)
			return nil
		},
	}
}

func writeKindsText(out *OutputFormatter, infos []usage.KindInfo) {
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, info := range infos {
		identity := "(none)"
		if len(info.Identity) > 0 {
			identity = strings.Join(info.Identity, ", ")
		}
		fields := slices.Concat(info.Measures, info.Aggregates)
		fmt.Fprintf(out.Writer, "%s identity: %s; merges: %s\n",
			cyan(fmt.Sprintf("%-12s", info.Kind)), identity, strings.Join(fields, ", "))
	}
}
