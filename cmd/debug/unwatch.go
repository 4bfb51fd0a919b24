package debug

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var unwatchCmd = &cobra.Command{
	Use:   "unwatch <address>",
	Short: "移除指定地址的观察点",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupWatchpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: unwatch <address>")
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		t, err := CurrentSession.lookup("")
		if err != nil {
			return err
		}
		if err := CurrentSession.board.RemoveWatchpoint(t, addr); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "watchpoint at %#x removed\n", uint64(addr))
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(unwatchCmd)
}
