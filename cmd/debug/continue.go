package debug

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var continueCmd = &cobra.Command{
	Use:   "continue [target]",
	Short: "恢复核心运行",
	Long:  `恢复核心运行，核心上已触发的观察点同时被清除`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTargets,
	},
	Aliases: []string{"c"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("usage: continue [target]")
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		t, err := CurrentSession.lookup(name)
		if err != nil {
			return err
		}
		c, err := CurrentSession.core(t)
		if err != nil {
			return err
		}
		if err = c.Resume(); err != nil {
			return fmt.Errorf("continue error: %v", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s running\n", t.Name)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(continueCmd)
}
