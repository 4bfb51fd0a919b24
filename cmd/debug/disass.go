package debug

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/disasm"
	"github.com/spf13/cobra"
)

var disassCmd = &cobra.Command{
	Use:   "disass [address]",
	Short: "反汇编机器指令",
	Long: `反汇编共享内存中的机器指令，默认从内存起始地址开始。

已设置软件断点的位置显示的是断点指令，原始指令可以通过breaks查看。`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupMemory,
	},
	Aliases: []string{"dis", "disassemble"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			max, _    = cmd.Flags().GetUint64("max")
			syntax, _ = cmd.Flags().GetString("syntax")
			soc       = CurrentSession.soc
		)
		if len(args) > 1 {
			return errors.New("usage: disass [address]")
		}
		if syntax == "" {
			syntax = CurrentSession.syntax
		}

		addr := soc.Memory().Base()
		if len(args) == 1 {
			v, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			addr = uint64(v)
		}

		// 指令最长15字节
		size := int(max) * 15
		if end := soc.Memory().Base() + uint64(soc.Memory().Size()); addr+uint64(size) > end {
			if addr >= end {
				return fmt.Errorf("address %#x out of memory", addr)
			}
			size = int(end - addr)
		}
		buf := make([]byte, size)
		if err := soc.ReadMemory(addr, buf); err != nil {
			return err
		}

		// disassemble instructions
		insts, err := disasm.Decode(string(soc.Arch), addr, buf, int(max), syntax)
		for _, inst := range insts {
			fmt.Fprintln(cmd.OutOrStdout(), inst)
		}
		return err
	},
}

func init() {
	debugRootCmd.AddCommand(disassCmd)

	disassCmd.Flags().Uint64P("max", "n", 10, "反汇编指令数量")
	disassCmd.Flags().StringP("syntax", "s", "", "反汇编指令语法，支持：go, gnu, intel")
}
