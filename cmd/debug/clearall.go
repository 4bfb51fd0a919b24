package debug

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearallCmd = &cobra.Command{
	Use:   "clearall",
	Short: "清除所有的断点",
	Long:  `清除当前核心(及其smp组)上所有的断点，单个断点失败不影响其他断点的移除`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := CurrentSession.lookup("")
		if err != nil {
			return err
		}
		if err := CurrentSession.board.RemoveAllBreakpoints(t); err != nil {
			return fmt.Errorf("清除断点失败: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "清空断点成功")
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(clearallCmd)
}
