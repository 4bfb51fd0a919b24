package debug

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <address>",
	Short: "在当前核心添加观察点",
	Long: `在当前核心添加观察点。

--rw指定触发的访问类型(read、write、access)，--value与--mask限定触发时的值，
mask中置位的比特不参与比较。未指定--value时任意值都会触发。
smp组内的观察点会同步设置到组内所有可达的核心。`,
	Aliases: []string{"wp"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupWatchpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: watch <address> [--rw mode] [--len n] [--value v] [--mask m]")
		}
		var (
			mode, _   = cmd.Flags().GetString("rw")
			length, _ = cmd.Flags().GetUint32("len")
			value, _  = cmd.Flags().GetUint64("value")
			mask, _   = cmd.Flags().GetUint64("mask")
		)
		addr, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		rw, err := target.ParseRWMode(mode)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("mask") {
			mask = ^uint64(0)
			if cmd.Flags().Changed("value") {
				mask = 0
			}
		}

		t, err := CurrentSession.lookup("")
		if err != nil {
			return err
		}
		placed, err := CurrentSession.board.AddWatchpoint(t, addr, length, rw, value, mask)
		for _, p := range placed {
			fmt.Fprintf(cmd.OutOrStdout(), "watchpoint %d set on %s\n", p.ID, p.Target)
		}
		return err
	},
}

func init() {
	debugRootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("rw", "access", "触发的访问类型：read, write, access")
	watchCmd.Flags().Uint32P("len", "l", 4, "观察的长度")
	watchCmd.Flags().Uint64("value", 0, "触发时的值")
	watchCmd.Flags().Uint64("mask", 0, "值比较掩码，置位的比特被忽略")
}
