package debug

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unwatchallCmd = &cobra.Command{
	Use:   "unwatchall",
	Short: "移除所有的观察点",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupWatchpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := CurrentSession.lookup("")
		if err != nil {
			return err
		}
		if err := CurrentSession.board.RemoveAllWatchpoints(t); err != nil {
			return fmt.Errorf("移除观察点失败: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "清空观察点成功")
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(unwatchallCmd)
}
