package debug

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hitzhangjie/hwdbg/pkg/disasm"
	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/spf13/cobra"
)

var breaksCmd = &cobra.Command{
	Use:     "breaks",
	Short:   "列出所有断点",
	Long:    "列出当前核心的断点，--all列出所有核心的断点。软件断点会显示被替换的原始指令。",
	Aliases: []string{"bs", "breakpoints"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
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
			for _, bp := range t.Breakpoints() {
				printBreakpoint(w, t, bp)
			}
		}
		return w.Flush()
	},
}

func printBreakpoint(w io.Writer, t *target.Target, bp target.Breakpoint) {
	fmt.Fprintf(w, "Breakpoint %d\t%s\t%s\t%s\tlen=%d", bp.ID, t.Name, bp.Kind, bp.Match, bp.Length)
	if !bp.IsSet {
		fmt.Fprint(w, "\t(not set)\n")
		return
	}
	if bp.Kind != target.Software || bp.Match.Kind != target.MatchAddress {
		fmt.Fprint(w, "\n")
		return
	}
	text := fmt.Sprintf("% x", bp.OrigInstr)
	insts, err := disasm.Decode(string(CurrentSession.soc.Arch), uint64(bp.Address()), bp.OrigInstr, 1, CurrentSession.syntax)
	if err == nil && len(insts) != 0 {
		text = insts[0].Text
	}
	fmt.Fprintf(w, "\torig: %s\n", text)
}

func init() {
	debugRootCmd.AddCommand(breaksCmd)

	breaksCmd.Flags().BoolP("all", "a", false, "列出所有核心的断点")
}
