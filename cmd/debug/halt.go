package debug

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var haltCmd = &cobra.Command{
	Use:   "halt [target]",
	Short: "暂停核心",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupTargets,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("usage: halt [target]")
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
		if err := c.Halt(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s halted\n", t.Name)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(haltCmd)
}
