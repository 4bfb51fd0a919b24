package debug

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "列出目标板上所有核心",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTargets,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "\tname\tcoreid\tstate\tsmp\tbreaks\twatches")
		for _, t := range CurrentSession.board.Targets() {
			mark := ""
			if t == CurrentSession.current {
				mark = "*"
			}
			group := "-"
			if t.SMP() {
				group = fmt.Sprintf("%d", t.Group())
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
				mark, t.Name, t.CoreID, t.State(), group, len(t.Breakpoints()), len(t.Watchpoints()))
		}
		return w.Flush()
	},
}

var targetCmd = &cobra.Command{
	Use:   "target <name>",
	Short: "切换当前核心",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTargets,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: target <name>")
		}
		t, err := CurrentSession.lookup(args[0])
		if err != nil {
			return err
		}
		CurrentSession.current = t
		fmt.Fprintf(cmd.OutOrStdout(), "current target: %s\n", t)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(targetsCmd)
	debugRootCmd.AddCommand(targetCmd)
}
