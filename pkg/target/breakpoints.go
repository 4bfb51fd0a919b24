package target

import (
	"errors"
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
	"github.com/sirupsen/logrus"
)

// BreakpointRegistry 某个核心上已经安装的断点，按添加顺序保存
//
// 一条记录存在于registry中，当且仅当驱动认为对应的断点已经安装在硬件上。
// 记录只在驱动确认安装成功后加入，在驱动确认移除成功后删除。
type BreakpointRegistry struct {
	log   *logrus.Entry
	items []*Breakpoint
}

func newBreakpointRegistry(owner string) *BreakpointRegistry {
	return &BreakpointRegistry{
		log: logflags.BreakpointsLogger().WithField("target", owner),
	}
}

// Len 返回断点数量
func (r *BreakpointRegistry) Len() int {
	return len(r.items)
}

// List returns copies of all breakpoints in insertion order.
func (r *BreakpointRegistry) List() []Breakpoint {
	res := make([]Breakpoint, 0, len(r.items))
	for _, bp := range r.items {
		res = append(res, bp.clone())
	}
	return res
}

// Find 按编号查找断点
func (r *BreakpointRegistry) Find(id ID) (Breakpoint, bool) {
	if idx := r.index(id); idx >= 0 {
		return r.items[idx].clone(), true
	}
	return Breakpoint{}, false
}

// FindByAddress returns the first breakpoint set at addr. A breakpoint
// with no address part, or with address zero, also matches when its asid
// equals addr, so address, context and hybrid breakpoints share one
// lookup path.
func (r *BreakpointRegistry) FindByAddress(addr Address) (Breakpoint, bool) {
	for _, bp := range r.items {
		if bp.Address() == addr || (bp.Address() == 0 && Address(bp.ASID()) == addr) {
			return bp.clone(), true
		}
	}
	return Breakpoint{}, false
}

// duplicate returns the tracked breakpoint that conflicts with key.
func (r *BreakpointRegistry) duplicate(key MatchKey) *Breakpoint {
	for _, bp := range r.items {
		switch key.Kind {
		case MatchContext:
			if bp.ASID() == key.ASID {
				return bp
			}
		case MatchHybrid:
			if bp.Address() == key.Addr && (bp.ASID() == key.ASID || bp.ASID() == 0) {
				return bp
			}
		default:
			if bp.Address() == key.Addr {
				return bp
			}
		}
	}
	return nil
}

// Add 通过驱动drv安装一个新断点，成功后记录下来并返回断点编号
//
// 与已有断点冲突时返回BreakpointExistsError，不会调用驱动；驱动安装失败时
// 丢弃记录并返回驱动的错误。
func (r *BreakpointRegistry) Add(drv Driver, key MatchKey, length uint32, kind BreakpointKind) (ID, error) {
	if dup := r.duplicate(key); dup != nil {
		err := BreakpointExistsError{Match: key, ID: dup.ID}
		r.log.Error(err)
		return 0, err
	}

	bp := newBreakpoint(key, length, kind)
	if err := installBreakpoint(drv, bp); err != nil {
		r.log.WithError(err).Errorf("can't add %s breakpoint at %s: %s", kind, key, reason(err))
		return 0, fmt.Errorf("can't add %s breakpoint at %s: %w", kind, key, err)
	}
	r.items = append(r.items, bp)

	if logflags.Breakpoints() {
		r.log.Debugf("added %s breakpoint at %s of length %#08x (BPID: %d)", bp.Kind, bp.Match, bp.Length, bp.ID)
	}
	return bp.ID, nil
}

// Remove 通过驱动drv移除编号为id的断点
//
// drv不一定属于当前registry所在的核心：SMP组内的软件断点可以经由任意可达
// 核心移除，但记录始终从当前registry删除。驱动失败时记录保持不变。
func (r *BreakpointRegistry) Remove(drv Driver, id ID) error {
	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("breakpoint %d: %w", id, ErrNotFound)
	}
	return r.free(drv, idx)
}

// RemoveAll removes every breakpoint through drv. It keeps going when a
// removal fails and returns the last error seen.
func (r *BreakpointRegistry) RemoveAll(drv Driver) error {
	r.log.Debug("delete all breakpoints")

	var retErr error
	snapshot := append([]*Breakpoint(nil), r.items...)
	for _, bp := range snapshot {
		if err := r.Remove(drv, bp.ID); err != nil {
			retErr = err
		}
	}
	return retErr
}

func (r *BreakpointRegistry) free(drv Driver, idx int) error {
	bp := r.items[idx]
	if err := drv.RemoveBreakpoint(bp); err != nil {
		r.log.WithError(err).Errorf("could not remove breakpoint %d", bp.ID)
		return fmt.Errorf("could not remove breakpoint %d at %s: %w", bp.ID, bp.Match, err)
	}

	copy(r.items[idx:], r.items[idx+1:])
	r.items[len(r.items)-1] = nil
	r.items = r.items[:len(r.items)-1]

	r.log.Debugf("free BPID: %d", bp.ID)
	return nil
}

func (r *BreakpointRegistry) index(id ID) int {
	for i, bp := range r.items {
		if bp.ID == id {
			return i
		}
	}
	return -1
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrResourceNotAvailable):
		return "resource not available"
	case errors.Is(err, ErrNotHalted):
		return "target not halted"
	default:
		return "unknown reason"
	}
}
