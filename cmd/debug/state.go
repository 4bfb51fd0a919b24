package debug

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state <target> <state>",
	Short: "强制设置核心状态",
	Long: `强制设置核心状态，用于模拟核心掉电、复位等情况。

支持的状态: unknown, running, halted, reset, debug-running, unavailable`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTargets,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("usage: state <target> <state>")
		}
		t, err := CurrentSession.lookup(args[0])
		if err != nil {
			return err
		}
		state, err := target.ParseState(args[1])
		if err != nil {
			return err
		}
		c, err := CurrentSession.core(t)
		if err != nil {
			return err
		}
		c.SetState(state)
		fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", t.Name, state)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(stateCmd)
}
