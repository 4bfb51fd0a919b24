package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/spf13/cobra"
)

var accessCmd = &cobra.Command{
	Use:   "access <addr> read|write [value]",
	Short: "模拟当前核心的一次数据访问",
	Long: `模拟当前核心的一次数据访问，匹配的观察点会被触发，核心随之暂停。
触发后可以通过hit命令查询触发的观察点。`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupMemory,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 || len(args) > 3 {
			return errors.New("usage: access <addr> read|write [value]")
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		rw, err := target.ParseRWMode(args[1])
		if err != nil {
			return err
		}
		var value uint64
		if len(args) == 3 {
			if value, err = strconv.ParseUint(args[2], 0, 64); err != nil {
				return fmt.Errorf("invalid value format: %s", args[2])
			}
		}

		t, err := CurrentSession.lookup("")
		if err != nil {
			return err
		}
		c, err := CurrentSession.core(t)
		if err != nil {
			return err
		}
		wp, err := c.Access(addr, rw, value)
		if err != nil {
			return err
		}
		if wp == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no watchpoint triggered")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s halted: %s\n", t.Name, wp)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(accessCmd)
}
