package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var setMemCmd = &cobra.Command{
	Use:   "setmem <addr> <byte>...",
	Short: "设置指定内存位置的值",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupMemory,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 检查参数数量
		if len(args) < 2 {
			return errors.New("usage: setmem <addr> <byte>...")
		}

		// 解析地址参数
		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}

		// 解析值参数
		data := make([]byte, 0, len(args)-1)
		for _, s := range args[1:] {
			v, err := strconv.ParseUint(s, 0, 8)
			if err != nil {
				return fmt.Errorf("invalid value format: %s", s)
			}
			data = append(data, byte(v))
		}

		// 读取当前内存值用于显示
		old := make([]byte, len(data))
		if err := CurrentSession.soc.ReadMemory(uint64(addr), old); err != nil {
			return fmt.Errorf("failed to read memory at address %#x: %v", uint64(addr), err)
		}

		// 写入新值
		if err := CurrentSession.soc.WriteMemory(uint64(addr), data); err != nil {
			return fmt.Errorf("failed to write memory at address %#x: %v", uint64(addr), err)
		}

		// 显示操作结果
		fmt.Fprintf(cmd.OutOrStdout(), "%#x: % x => % x\n", uint64(addr), old, data)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(setMemCmd)
}
