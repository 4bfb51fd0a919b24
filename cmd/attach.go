/*
Copyright © 2020 hit.zhangjie@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/hwdbg/cmd/debug"
	"github.com/hitzhangjie/hwdbg/pkg/board"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// attachCmd represents the attach command
var attachCmd = &cobra.Command{
	Use:   "attach [board.yaml]",
	Short: "连接目标板并开始调试",
	Long: `连接目标板并开始调试。

目标板描述文件可以通过参数指定，也可以通过--board选项或者配置文件中的board指定。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errors.New("参数错误")
		}

		path := viper.GetString("board")
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no board description specified")
		}

		desc, err := board.Load(path)
		if err != nil {
			return err
		}
		b, soc, err := desc.Build()
		if err != nil {
			return fmt.Errorf("build board %s: %v", desc.Name, err)
		}
		fmt.Printf("attached to %s (%s), %d cores\n", desc.Name, soc.Arch, len(b.Targets()))

		debug.CurrentSession = debug.NewDebugSession(b, soc, viper.GetString("syntax")).AtExit(debug.Cleanup)
		return nil
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		// breakpoints and watchpoints are removed from the board when the session finishes
		debug.CurrentSession.Start()
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
