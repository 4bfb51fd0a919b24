package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/spf13/cobra"
)

var breakCmd = &cobra.Command{
	Use:   "break <address>",
	Short: "在当前核心添加断点",
	Long: `在当前核心添加断点。

断点有三种匹配方式:
- 指令地址: break 0x80000100 [--hw|--sw] [--len 4]
- 上下文(asid): break --context 42
- 地址+上下文: break --hybrid 0x80000100 --asid 42

上下文断点与hybrid断点总是硬件断点。smp组内的硬件断点会同步设置到组内
所有可达的核心，软件断点修改共享内存，只在当前核心登记，组内同一地址只能
有一个软件断点。`,
	Aliases: []string{"b", "breakpoint"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			hw, _        = cmd.Flags().GetBool("hw")
			sw, _        = cmd.Flags().GetBool("sw")
			length, _    = cmd.Flags().GetUint32("len")
			hybrid, _    = cmd.Flags().GetBool("hybrid")
			asid, _      = cmd.Flags().GetUint32("asid")
			contextID, _ = cmd.Flags().GetUint32("context")
			isContext    = cmd.Flags().Changed("context")
		)
		if hw && sw {
			return errors.New("--hw and --sw are exclusive")
		}
		kind := target.Software
		if hw {
			kind = target.Hardware
		}
		if length == 0 {
			length = CurrentSession.soc.Arch.BreakLen()
		}

		t, err := CurrentSession.lookup("")
		if err != nil {
			return err
		}
		b := CurrentSession.board

		var placed []target.Placement
		switch {
		case isContext:
			if len(args) != 0 || hybrid || sw {
				return errors.New("usage: break --context <asid>")
			}
			placed, err = b.AddContextBreakpoint(t, contextID, length, target.Hardware)
		case hybrid:
			if len(args) != 1 || !cmd.Flags().Changed("asid") || sw {
				return errors.New("usage: break --hybrid <address> --asid <asid>")
			}
			addr, perr := parseAddress(args[0])
			if perr != nil {
				return perr
			}
			placed, err = b.AddHybridBreakpoint(t, addr, asid, length, target.Hardware)
		default:
			if len(args) != 1 {
				return errors.New("参数错误")
			}
			addr, perr := parseAddress(args[0])
			if perr != nil {
				return perr
			}
			placed, err = b.AddBreakpoint(t, addr, length, kind)
		}

		// placements made before a failure stay in effect
		for _, p := range placed {
			fmt.Fprintf(cmd.OutOrStdout(), "breakpoint %d set on %s\n", p.ID, p.Target)
		}
		return err
	},
}

func init() {
	debugRootCmd.AddCommand(breakCmd)

	breakCmd.Flags().Bool("hw", false, "硬件断点")
	breakCmd.Flags().Bool("sw", false, "软件断点(默认)")
	breakCmd.Flags().Uint32P("len", "l", 0, "断点长度，默认为断点指令长度")
	breakCmd.Flags().Uint32("context", 0, "按上下文(asid)匹配")
	breakCmd.Flags().Bool("hybrid", false, "按地址+上下文匹配")
	breakCmd.Flags().Uint32("asid", 0, "hybrid断点的asid")
}

func parseAddress(locStr string) (target.Address, error) {
	v, err := strconv.ParseUint(locStr, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %v", err)
	}
	return target.Address(v), nil
}
