package target

import (
	"fmt"

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
	"github.com/sirupsen/logrus"
)

// WatchpointRegistry 某个核心上已经安装的观察点，按添加顺序保存
type WatchpointRegistry struct {
	log   *logrus.Entry
	items []*Watchpoint
}

func newWatchpointRegistry(owner string) *WatchpointRegistry {
	return &WatchpointRegistry{
		log: logflags.BreakpointsLogger().WithField("target", owner),
	}
}

// Len 返回观察点数量
func (r *WatchpointRegistry) Len() int {
	return len(r.items)
}

// List returns copies of all watchpoints in insertion order.
func (r *WatchpointRegistry) List() []Watchpoint {
	res := make([]Watchpoint, 0, len(r.items))
	for _, wp := range r.items {
		res = append(res, *wp)
	}
	return res
}

// FindByAddress 查找地址addr处的观察点
func (r *WatchpointRegistry) FindByAddress(addr Address) (Watchpoint, bool) {
	if idx := r.index(addr); idx >= 0 {
		return *r.items[idx], true
	}
	return Watchpoint{}, false
}

// Add installs a watchpoint through drv. Adding one identical to a tracked
// watchpoint is a no-op that returns the existing id; a watchpoint at the
// same address with different parameters is a WatchpointConflictError.
func (r *WatchpointRegistry) Add(drv Driver, addr Address, length uint32, rw RWMode, value, mask uint64) (ID, error) {
	if idx := r.index(addr); idx >= 0 {
		wp := r.items[idx]
		if !wp.sameParams(length, rw, value, mask) {
			err := WatchpointConflictError{Addr: addr, ID: wp.ID}
			r.log.Error(err)
			return 0, err
		}
		// ignore duplicate watchpoint
		return wp.ID, nil
	}

	wp := &Watchpoint{
		ID:      nextID(),
		Address: addr,
		Length:  length,
		RW:      rw,
		Value:   value,
		Mask:    mask,
	}
	if err := drv.AddWatchpoint(wp); err != nil {
		r.log.WithError(err).Errorf("can't add %s watchpoint at %#x, %s", rw, uint64(addr), reason(err))
		return 0, fmt.Errorf("can't add %s watchpoint at %#x: %w", rw, uint64(addr), err)
	}
	r.items = append(r.items, wp)

	r.log.Debugf("added %s watchpoint at %#x of length %#08x (WPID: %d)", wp.RW, uint64(wp.Address), wp.Length, wp.ID)
	return wp.ID, nil
}

// Remove 通过驱动drv移除地址addr处的观察点，驱动失败时记录保持不变
func (r *WatchpointRegistry) Remove(drv Driver, addr Address) error {
	idx := r.index(addr)
	if idx < 0 {
		return NoWatchpointError{Addr: addr}
	}
	return r.free(drv, idx)
}

// RemoveAll removes every watchpoint through drv. It keeps going when a
// removal fails and returns the last error seen.
func (r *WatchpointRegistry) RemoveAll(drv Driver) error {
	r.log.Debug("delete all watchpoints")

	var retErr error
	snapshot := append([]*Watchpoint(nil), r.items...)
	for _, wp := range snapshot {
		idx := r.indexOf(wp)
		if idx < 0 {
			continue
		}
		if err := r.free(drv, idx); err != nil {
			retErr = err
		}
	}
	return retErr
}

func (r *WatchpointRegistry) free(drv Driver, idx int) error {
	wp := r.items[idx]
	if err := drv.RemoveWatchpoint(wp); err != nil {
		r.log.WithError(err).Errorf("could not remove watchpoint %d", wp.ID)
		return fmt.Errorf("could not remove watchpoint %d at %#x: %w", wp.ID, uint64(wp.Address), err)
	}

	copy(r.items[idx:], r.items[idx+1:])
	r.items[len(r.items)-1] = nil
	r.items = r.items[:len(r.items)-1]

	r.log.Debugf("free WPID: %d", wp.ID)
	return nil
}

func (r *WatchpointRegistry) index(addr Address) int {
	for i, wp := range r.items {
		if wp.Address == addr {
			return i
		}
	}
	return -1
}

func (r *WatchpointRegistry) indexOf(wp *Watchpoint) int {
	for i, w := range r.items {
		if w == wp {
			return i
		}
	}
	return -1
}
