package target

import (
	"fmt"
)

// GroupID SMP组编号，0表示不属于任何SMP组
type GroupID int

// Target 被调试的一个核心
//
// 每个核心独占自己的断点、观察点记录；SMP关系只通过组编号在Board中查询，
// 核心之间不互相持有引用。
type Target struct {
	Name   string // 核心名称
	CoreID int    // 核心编号

	driver      Driver
	smp         GroupID
	breakpoints *BreakpointRegistry
	watchpoints *WatchpointRegistry
}

// NewTarget 创建一个由drv驱动的核心
func NewTarget(name string, coreID int, drv Driver) *Target {
	return &Target{
		Name:        name,
		CoreID:      coreID,
		driver:      drv,
		breakpoints: newBreakpointRegistry(name),
		watchpoints: newWatchpointRegistry(name),
	}
}

// State 返回核心当前状态
func (t *Target) State() State {
	return t.driver.State()
}

// SMP reports whether t is a member of an SMP group.
func (t *Target) SMP() bool {
	return t.smp != 0
}

// Group returns the SMP group of t, 0 if none.
func (t *Target) Group() GroupID {
	return t.smp
}

// Breakpoints 返回该核心上记录的断点
func (t *Target) Breakpoints() []Breakpoint {
	return t.breakpoints.List()
}

// Watchpoints 返回该核心上记录的观察点
func (t *Target) Watchpoints() []Watchpoint {
	return t.watchpoints.List()
}

func (t *Target) String() string {
	return fmt.Sprintf("%s (core %d)", t.Name, t.CoreID)
}
