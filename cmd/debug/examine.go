package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var examineCmd = &cobra.Command{
	Use:     "x <addr> [len]",
	Short:   "查看指定内存位置的数据",
	Aliases: []string{"examine"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupMemory,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args) > 2 {
			return errors.New("usage: x <addr> [len]")
		}
		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		n := 16
		if len(args) == 2 {
			v, err := strconv.ParseUint(args[1], 0, 16)
			if err != nil || v == 0 {
				return fmt.Errorf("invalid length: %s", args[1])
			}
			n = int(v)
		}

		buf := make([]byte, n)
		if err := CurrentSession.soc.ReadMemory(uint64(addr), buf); err != nil {
			return err
		}
		// 每行16字节
		for off := 0; off < n; off += 16 {
			end := off + 16
			if end > n {
				end = n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%#x: % x\n", uint64(addr)+uint64(off), buf[off:end])
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(examineCmd)
}
