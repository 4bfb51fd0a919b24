package debug

import (
	"fmt"
	"text/tabwriter"

	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/spf13/cobra"
)

var watchesCmd = &cobra.Command{
	Use:     "watches",
	Short:   "列出所有观察点",
	Aliases: []string{"ws", "watchpoints"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupWatchpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		targets := CurrentSession.board.Targets()
		if !all {
			t, err := CurrentSession.lookup("")
			if err != nil {
				return err
			}
			targets = []*target.Target{t}
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range targets {
			for _, wp := range t.Watchpoints() {
				fmt.Fprintf(w, "Watchpoint %d\t%s\t%#x\tlen=%d\t%s\tvalue=%#x\tmask=%#x\n",
					wp.ID, t.Name, uint64(wp.Address), wp.Length, wp.RW, wp.Value, wp.Mask)
			}
		}
		return w.Flush()
	},
}

func init() {
	debugRootCmd.AddCommand(watchesCmd)

	watchesCmd.Flags().BoolP("all", "a", false, "列出所有核心的观察点")
}
