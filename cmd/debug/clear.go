package debug

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear <address|asid>",
	Short: "清除指定地址的断点",
	Long: `清除指定地址的断点，上下文断点通过asid指定。

smp组内的断点会从组内每个核心上移除。`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: clear <address|asid>")
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		t, err := CurrentSession.lookup("")
		if err != nil {
			return err
		}

		// 移除断点
		if err := CurrentSession.board.RemoveBreakpoint(t, addr); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "breakpoint at %#x cleared\n", uint64(addr))
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(clearCmd)
}
