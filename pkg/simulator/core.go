package simulator

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
	"github.com/hitzhangjie/hwdbg/pkg/target"
	"github.com/sirupsen/logrus"
)

var (
	errUnavailable  = fmt.Errorf("%w: core unavailable", target.ErrUnspecified)
	errNotTriggered = fmt.Errorf("%w: no watchpoint triggered", target.ErrUnspecified)
)

// Core 模拟的一个核心，实现了target.Driver
//
// 硬件断点、context/hybrid断点和观察点占用核心自己的比较器；软件断点通过
// 修改共享内存实现，组内任意可达核心都可以移除。
type Core struct {
	soc   *SoC
	name  string
	state target.State
	log   *logrus.Entry

	hwSlots     int
	comparators []target.ID
	wpSlots     int
	watchpoints []target.Watchpoint

	triggered *target.Watchpoint
}

var _ target.Driver = (*Core)(nil)

// Name 返回核心名称
func (c *Core) Name() string {
	return c.name
}

// State 返回核心状态
func (c *Core) State() target.State {
	return c.state
}

// SetState 强制设置核心状态
func (c *Core) SetState(s target.State) {
	c.log.Debugf("state %s -> %s", c.state, s)
	c.state = s
}

// Halt 暂停核心
func (c *Core) Halt() error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	c.SetState(target.StateHalted)
	return nil
}

// Resume 恢复核心运行，同时清除已触发的观察点
func (c *Core) Resume() error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	c.triggered = nil
	c.SetState(target.StateRunning)
	return nil
}

// Comparators reports how many hardware breakpoint and watchpoint
// comparators are in use.
func (c *Core) Comparators() (breakpoints, watchpoints int) {
	return len(c.comparators), len(c.watchpoints)
}

func isPatch(bp *target.Breakpoint) bool {
	return bp.Kind == target.Software && bp.Match.Kind == target.MatchAddress
}

// AddBreakpoint 安装按地址匹配的断点
func (c *Core) AddBreakpoint(bp *target.Breakpoint) error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	if isPatch(bp) {
		return c.patch(bp)
	}
	return c.allocComparator(bp)
}

// AddContextBreakpoint 安装按asid匹配的断点，总是使用比较器
func (c *Core) AddContextBreakpoint(bp *target.Breakpoint) error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	return c.allocComparator(bp)
}

// AddHybridBreakpoint 安装按地址+asid匹配的断点，总是使用比较器
func (c *Core) AddHybridBreakpoint(bp *target.Breakpoint) error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	return c.allocComparator(bp)
}

// RemoveBreakpoint 移除断点
func (c *Core) RemoveBreakpoint(bp *target.Breakpoint) error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	if isPatch(bp) {
		return c.unpatch(bp)
	}

	for i, id := range c.comparators {
		if id != bp.ID {
			continue
		}
		c.comparators = append(c.comparators[:i], c.comparators[i+1:]...)
		bp.IsSet = false
		c.log.Debugf("released comparator of breakpoint %d", bp.ID)
		return nil
	}
	return fmt.Errorf("breakpoint %d not installed on %s: %w", bp.ID, c.name, target.ErrNotFound)
}

func (c *Core) allocComparator(bp *target.Breakpoint) error {
	if len(c.comparators) >= c.hwSlots {
		return target.ErrResourceNotAvailable
	}
	c.comparators = append(c.comparators, bp.ID)
	bp.IsSet = true
	c.log.Debugf("comparator %d -> %s", len(c.comparators)-1, bp)
	return nil
}

// patch saves the original instruction bytes and writes the breakpoint
// instruction into shared memory. The core has to be halted.
func (c *Core) patch(bp *target.Breakpoint) error {
	if c.state != target.StateHalted {
		return target.ErrNotHalted
	}
	instr := c.soc.Arch.breakInstr()
	if int(bp.Length) < len(instr) {
		return fmt.Errorf("%w: breakpoint length %d shorter than instruction %d", target.ErrUnspecified, bp.Length, len(instr))
	}

	orig := make([]byte, bp.Length)
	addr := uint64(bp.Match.Addr)
	if err := c.soc.mem.ReadAt(addr, orig); err != nil {
		return fmt.Errorf("%w: %v", target.ErrUnspecified, err)
	}
	if err := c.soc.mem.WriteAt(addr, instr); err != nil {
		return fmt.Errorf("%w: %v", target.ErrUnspecified, err)
	}
	bp.OrigInstr = orig
	bp.IsSet = true
	if logflags.Driver() {
		c.log.Debugf("patched %#x, saved % x", addr, orig)
	}
	return nil
}

func (c *Core) unpatch(bp *target.Breakpoint) error {
	if !bp.IsSet {
		return fmt.Errorf("breakpoint %d is not set: %w", bp.ID, target.ErrNotFound)
	}
	addr := uint64(bp.Match.Addr)
	if err := c.soc.mem.WriteAt(addr, bp.OrigInstr); err != nil {
		return fmt.Errorf("%w: %v", target.ErrUnspecified, err)
	}
	if logflags.Driver() {
		c.log.Debugf("restored % x at %#x", bp.OrigInstr, addr)
	}
	bp.IsSet = false
	bp.OrigInstr = nil
	return nil
}

// AddWatchpoint 占用一个观察点比较器
func (c *Core) AddWatchpoint(wp *target.Watchpoint) error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	if len(c.watchpoints) >= c.wpSlots {
		return target.ErrResourceNotAvailable
	}
	c.watchpoints = append(c.watchpoints, *wp)
	c.log.Debugf("watch comparator %d -> %s", len(c.watchpoints)-1, wp)
	return nil
}

// RemoveWatchpoint 释放观察点比较器
func (c *Core) RemoveWatchpoint(wp *target.Watchpoint) error {
	if c.state == target.StateUnavailable {
		return errUnavailable
	}
	for i, w := range c.watchpoints {
		if w.ID != wp.ID {
			continue
		}
		c.watchpoints = append(c.watchpoints[:i], c.watchpoints[i+1:]...)
		if c.triggered != nil && c.triggered.ID == wp.ID {
			c.triggered = nil
		}
		return nil
	}
	return fmt.Errorf("watchpoint %d not installed on %s: %w", wp.ID, c.name, target.ErrNotFound)
}

// HitWatchpoint 返回最近一次触发的观察点
func (c *Core) HitWatchpoint() (*target.Watchpoint, error) {
	if c.state == target.StateUnavailable {
		return nil, errUnavailable
	}
	if c.triggered == nil {
		return nil, errNotTriggered
	}
	wp := *c.triggered
	return &wp, nil
}

// Access simulates a data access of the core. When an installed watchpoint
// matches, it becomes the triggered watchpoint and the core halts.
//
// Bits set in a watchpoint's mask are ignored when comparing values, so an
// all-ones mask matches any value.
func (c *Core) Access(addr target.Address, rw target.RWMode, value uint64) (*target.Watchpoint, error) {
	if c.state == target.StateUnavailable {
		return nil, errUnavailable
	}
	if rw == target.Access {
		return nil, errors.New("an access is either a read or a write")
	}
	for i := range c.watchpoints {
		wp := &c.watchpoints[i]
		// wp.Address+wp.Length may wrap at the top of the address space
		if addr < wp.Address || addr-wp.Address >= target.Address(wp.Length) {
			continue
		}
		if wp.RW != target.Access && wp.RW != rw {
			continue
		}
		if value&^wp.Mask != wp.Value&^wp.Mask {
			continue
		}
		hit := *wp
		c.triggered = &hit
		c.SetState(target.StateHalted)
		c.log.Debugf("%s at %#x hit %s", rw, uint64(addr), wp)
		return c.HitWatchpoint()
	}
	return nil, nil
}
