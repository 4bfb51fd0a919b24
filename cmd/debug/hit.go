package debug

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var hitCmd = &cobra.Command{
	Use:   "hit [target]",
	Short: "查询触发暂停的观察点",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupWatchpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("usage: hit [target]")
		}
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		t, err := CurrentSession.lookup(name)
		if err != nil {
			return err
		}
		addr, rw, err := CurrentSession.board.HitWatchpoint(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s stopped by %s watchpoint at %#x\n", t.Name, rw, uint64(addr))
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(hitCmd)
}
