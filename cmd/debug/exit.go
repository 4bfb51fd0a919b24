package debug

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exitCmd = &cobra.Command{
	Use:     "exit",
	Short:   "结束调试会话",
	Aliases: []string{"quit", "q"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupOthers,
	},
	Run: func(cmd *cobra.Command, args []string) {
		CurrentSession.Stop()
	},
}

func init() {
	debugRootCmd.AddCommand(exitCmd)
}

// Cleanup 清理调试会话，移除所有核心上的断点、观察点
//
// 会话正常结束以及收到退出信号时都会调用，只执行一次。
func Cleanup() {
	s := CurrentSession
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cleaned {
		return
	}
	s.cleaned = true

	for _, t := range s.board.Targets() {
		if err := s.board.ClearTarget(t); err != nil {
			fmt.Fprintf(os.Stderr, "clear target %s, err: %v\n", t.Name, err)
		}
	}
	s.closeLiner()
}
