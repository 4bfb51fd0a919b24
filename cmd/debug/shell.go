package debug

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/cosiner/argv"
	"github.com/derekparker/trie"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
	"github.com/hitzhangjie/hwdbg/pkg/simulator"
	"github.com/hitzhangjie/hwdbg/pkg/target"
)

const (
	cmdGroupAnnotation = "cmd_group_annotation"

	cmdGroupBreakpoints = "1-breaks"
	cmdGroupWatchpoints = "2-watches"
	cmdGroupTargets     = "3-targets"
	cmdGroupMemory      = "4-memory"
	cmdGroupOthers      = "5-other"
	cmdGroupCobra       = "other"

	cmdGroupDelimiter = "-"

	prefix    = "hwdbg> "
	descShort = "hwdbg interactive debugging commands"
)

var debugRootCmd = &cobra.Command{
	Use:          "help [command]",
	Short:        descShort,
	SilenceUsage: true,
}

var (
	CurrentSession *DebugSession
)

// DebugSession 调试会话
type DebugSession struct {
	done   chan bool
	prefix string
	root   *cobra.Command
	liner  *liner.State
	last   string
	log    *logrus.Entry

	// mu serializes commands with the cleanup run from the signal handler
	mu      sync.Mutex
	board   *target.Board
	soc     *simulator.SoC
	current *target.Target
	syntax  string

	defers  []func()
	cleaned bool
}

// NewDebugSession 创建一个debug专用的交互管理器
func NewDebugSession(board *target.Board, soc *simulator.SoC, syntax string) *DebugSession {

	fn := func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		// 描述信息
		fmt.Fprintln(out, cmd.Short)
		fmt.Fprintln(out)

		// 使用信息
		fmt.Fprintln(out, cmd.Use)
		fmt.Fprintln(out, cmd.Flags().FlagUsages())

		// 命令分组
		usage := helpMessageByGroups(cmd)
		fmt.Fprintln(out, usage)
	}
	debugRootCmd.SetHelpFunc(fn)

	if syntax == "" {
		syntax = "gnu"
	}
	s := &DebugSession{
		done:   make(chan bool),
		prefix: prefix,
		root:   debugRootCmd,
		last:   "",
		log:    logflags.ShellLogger(),
		board:  board,
		soc:    soc,
		syntax: syntax,
	}
	if targets := board.Targets(); len(targets) != 0 {
		s.current = targets[0]
	}
	return s
}

func (s *DebugSession) Start() {
	s.liner = liner.NewLiner()
	s.liner.SetCompleter(completer)
	s.liner.SetTabCompletionStyle(liner.TabPrints)

	defer func() {
		for idx := len(s.defers) - 1; idx >= 0; idx-- {
			s.defers[idx]()
		}
		s.closeLiner()
	}()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		txt, err := s.liner.Prompt(s.prefix)
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				s.Stop()
				continue
			}
			fmt.Fprintf(os.Stderr, "read command: %v\n", err)
			s.Stop()
			continue
		}

		txt = strings.TrimSpace(txt)
		if len(txt) != 0 {
			s.last = txt
			s.liner.AppendHistory(txt)
		} else {
			txt = s.last
		}

		if err := s.Exec(txt); err != nil {
			s.log.Debugf("%q: %v", txt, err)
		}
	}
}

// Exec runs one command line.
func (s *DebugSession) Exec(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintln(s.root.ErrOrStderr(), err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if logflags.Shell() {
		s.log.Debugf("exec %q", args)
	}

	// cobra keeps flag values between executions
	resetFlags(s.root)
	s.root.SetArgs(args)
	return s.root.Execute()
}

func (s *DebugSession) closeLiner() {
	if s.liner != nil {
		s.liner.Close()
		s.liner = nil
	}
}

func (s *DebugSession) AtExit(fn func()) *DebugSession {
	s.defers = append(s.defers, fn)
	return s
}

func (s *DebugSession) Stop() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// Board 返回当前调试的目标板
func (s *DebugSession) Board() *target.Board {
	return s.board
}

// Current 返回当前选中的核心
func (s *DebugSession) Current() *target.Target {
	return s.current
}

// lookup returns the named target, or the current one when name is empty.
func (s *DebugSession) lookup(name string) (*target.Target, error) {
	if name == "" {
		if s.current == nil {
			return nil, errors.New("no target selected")
		}
		return s.current, nil
	}
	t, ok := s.board.Target(name)
	if !ok {
		return nil, fmt.Errorf("no such target: %s", name)
	}
	return t, nil
}

func (s *DebugSession) core(t *target.Target) (*simulator.Core, error) {
	c, ok := s.soc.Core(t.Name)
	if !ok {
		return nil, fmt.Errorf("target %s has no core", t.Name)
	}
	return c, nil
}

func splitArgs(line string) ([]string, error) {
	v, err := argv.Argv(line,
		func(s string) (string, error) {
			return "", fmt.Errorf("Backtick not supported in '%s'", s)
		},
		nil)
	if err != nil {
		return nil, err
	}
	if len(v) != 1 {
		return nil, fmt.Errorf("illegal command line '%s'", line)
	}
	return v[0], nil
}

func resetFlags(root *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	root.Flags().VisitAll(reset)
	for _, c := range root.Commands() {
		c.Flags().VisitAll(reset)
	}
}

var (
	cmdTrie     *trie.Trie
	cmdTrieOnce sync.Once
)

func completer(line string) []string {
	cmdTrieOnce.Do(func() {
		cmdTrie = trie.New()
		for _, c := range debugRootCmd.Commands() {
			// complete cmd
			cmdTrie.Add(c.Name(), nil)
			// complete cmd's aliases
			for _, alias := range c.Aliases {
				cmdTrie.Add(alias, nil)
			}
		}
	})
	cmds := cmdTrie.PrefixSearch(line)
	sort.Strings(cmds)
	return cmds
}

// helpMessageByGroups 将各个命令按照分组归类，再展示帮助信息
func helpMessageByGroups(cmd *cobra.Command) string {

	// key:group, val:sorted commands in same group
	groups := map[string][]string{}
	for _, c := range cmd.Commands() {
		// 如果没有指定命令分组，放入other组
		var groupName string
		v, ok := c.Annotations[cmdGroupAnnotation]
		if !ok {
			groupName = "other"
		} else {
			groupName = v
		}

		groupCmds := groups[groupName]
		groupCmds = append(groupCmds, fmt.Sprintf("  %-16s:%s", c.Name(), c.Short))
		sort.Strings(groupCmds)

		groups[groupName] = groupCmds
	}

	if len(groups[cmdGroupCobra]) != 0 {
		groups[cmdGroupOthers] = append(groups[cmdGroupOthers], groups[cmdGroupCobra]...)
	}
	delete(groups, cmdGroupCobra)

	// 按照分组名进行排序
	groupNames := []string{}
	for k := range groups {
		groupNames = append(groupNames, k)
	}
	sort.Strings(groupNames)

	// 按照group分组，并对组内命令进行排序
	buf := bytes.Buffer{}
	for _, groupName := range groupNames {
		commands := groups[groupName]

		group := strings.Split(groupName, cmdGroupDelimiter)[1]
		buf.WriteString(fmt.Sprintf("- [%s]\n", group))

		for _, cmd := range commands {
			buf.WriteString(fmt.Sprintf("%s\n", cmd))
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
