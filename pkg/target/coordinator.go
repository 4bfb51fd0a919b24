package target

import (
	"errors"
	"fmt"
)

// Placement 一条断点或观察点记录所在的核心
type Placement struct {
	Target string
	ID     ID
}

// AddBreakpoint 在地址addr处添加断点
//
// 硬件断点会添加到SMP组内所有可达核心上，遇到第一个失败的核心即返回，此前
// 已成功的核心不会回滚，返回值中包含这些已经完成的记录。SMP组共享内存，
// 软件断点只需要在t上设置一次。
//
// 组内已有其他核心登记了同一地址的软件断点时返回BreakpointExistsError，
// 不会再次修改共享内存。
func (b *Board) AddBreakpoint(t *Target, addr Address, length uint32, kind BreakpointKind) ([]Placement, error) {
	key := AddressKey(addr)
	targets := []*Target{t}
	if t.SMP() {
		switch kind {
		case Hardware:
			targets = b.reachableMembers(t)
		case Software:
			if owner, bp, ok := b.findSoftware(t, addr); ok {
				err := BreakpointExistsError{Match: key, ID: bp.ID}
				b.log.WithField("target", owner.Name).Error(err)
				return nil, fmt.Errorf("%s: %w", owner.Name, err)
			}
		}
	}
	return b.addBreakpoint(targets, key, length, kind)
}

// findSoftware returns the group member tracking a software breakpoint at
// addr.
func (b *Board) findSoftware(t *Target, addr Address) (*Target, Breakpoint, bool) {
	for _, curr := range b.Members(t) {
		bp, ok := curr.breakpoints.FindByAddress(addr)
		if ok && bp.Kind == Software && bp.Match.Kind == MatchAddress {
			return curr, bp, true
		}
	}
	return nil, Breakpoint{}, false
}

// AddContextBreakpoint 添加按asid匹配的断点，SMP组内所有可达核心都会添加
func (b *Board) AddContextBreakpoint(t *Target, asid uint32, length uint32, kind BreakpointKind) ([]Placement, error) {
	return b.addBreakpoint(b.reachableMembers(t), ContextKey(asid), length, kind)
}

// AddHybridBreakpoint 添加按地址+asid匹配的断点，SMP组内所有可达核心都会添加
func (b *Board) AddHybridBreakpoint(t *Target, addr Address, asid uint32, length uint32, kind BreakpointKind) ([]Placement, error) {
	return b.addBreakpoint(b.reachableMembers(t), HybridKey(addr, asid), length, kind)
}

func (b *Board) addBreakpoint(targets []*Target, key MatchKey, length uint32, kind BreakpointKind) ([]Placement, error) {
	var placed []Placement
	err := AbortOnFirst.run(targets, func(curr *Target) error {
		id, err := curr.breakpoints.Add(curr.driver, key, length, kind)
		if err != nil {
			return fmt.Errorf("%s: %w", curr.Name, err)
		}
		placed = append(placed, Placement{Target: curr.Name, ID: id})
		return nil
	})
	return placed, err
}

// RemoveBreakpoint removes the breakpoint at addr from t, or from every
// member of t's SMP group.
//
// Hardware records are removed core by core. A software breakpoint is
// tracked by exactly one member but is visible to all of them, so it is
// removed through whichever member can currently do it while the record is
// dropped from the member that tracks it. All members are processed even if
// some fail, and the last error is returned.
func (b *Board) RemoveBreakpoint(t *Target, addr Address) error {
	if !t.SMP() {
		bp, ok := t.breakpoints.FindByAddress(addr)
		if !ok {
			return NoBreakpointError{Addr: addr}
		}
		return t.breakpoints.Remove(t.driver, bp.ID)
	}

	var (
		found   int
		swOwner *Target
		swBP    Breakpoint
	)

	members := b.Members(t)
	retErr := BestEffort.run(members, func(curr *Target) error {
		bp, ok := curr.breakpoints.FindByAddress(addr)
		if !ok {
			return nil
		}
		found++

		if bp.Kind == Software {
			if swOwner != nil {
				b.log.WithField("target", curr.Name).Warnf("already found software breakpoint at %#x on %s", uint64(addr), swOwner.Name)
				return nil
			}
			swOwner, swBP = curr, bp
			return nil
		}
		return curr.breakpoints.Remove(curr.driver, bp.ID)
	})

	if found == 0 {
		err := NoBreakpointError{Addr: addr}
		b.log.Error(err)
		return err
	}

	if swOwner != nil {
		remover := selectRemover(swOwner, members)
		if remover == nil {
			b.log.Warnf("no halted target found to remove software breakpoint at %#x", uint64(addr))
			return retErr
		}
		b.log.Debugf("removing software breakpoint found on %s using %s (address=%#x)", swOwner.Name, remover.Name, uint64(addr))
		// TODO: retry through another reachable member when remover fails.
		if err := swOwner.breakpoints.Remove(remover.driver, swBP.ID); err != nil {
			retErr = err
		}
	}
	return retErr
}

// RemoveAllBreakpoints 移除t（或t所在SMP组所有核心）上的全部断点
func (b *Board) RemoveAllBreakpoints(t *Target) error {
	return BestEffort.run(b.Members(t), func(curr *Target) error {
		return curr.breakpoints.RemoveAll(curr.driver)
	})
}

// RemoveAllWatchpoints 移除t（或t所在SMP组所有核心）上的全部观察点
func (b *Board) RemoveAllWatchpoints(t *Target) error {
	return BestEffort.run(b.Members(t), func(curr *Target) error {
		return curr.watchpoints.RemoveAll(curr.driver)
	})
}

// ClearTarget drops everything tracked for t before it goes away: the
// breakpoints of its whole SMP group and its own watchpoints.
func (b *Board) ClearTarget(t *Target) error {
	retErr := b.RemoveAllBreakpoints(t)

	b.log.Debugf("delete all watchpoints for target: %s", t.Name)
	if err := t.watchpoints.RemoveAll(t.driver); err != nil {
		retErr = err
	}
	return retErr
}

// FindBreakpoint 在t上查找地址addr处的断点
func (b *Board) FindBreakpoint(t *Target, addr Address) (Breakpoint, bool) {
	return t.breakpoints.FindByAddress(addr)
}

// AddWatchpoint 添加观察点，SMP组内所有可达核心都会添加，遇到第一个错误即返回
func (b *Board) AddWatchpoint(t *Target, addr Address, length uint32, rw RWMode, value, mask uint64) ([]Placement, error) {
	var placed []Placement
	err := AbortOnFirst.run(b.reachableMembers(t), func(curr *Target) error {
		id, err := curr.watchpoints.Add(curr.driver, addr, length, rw, value, mask)
		if err != nil {
			return fmt.Errorf("%s: %w", curr.Name, err)
		}
		placed = append(placed, Placement{Target: curr.Name, ID: id})
		return nil
	})
	return placed, err
}

// RemoveWatchpoint removes the watchpoint at addr from t, or from every
// member of t's SMP group that has one. It fails with NoWatchpointError
// only when no member had a watchpoint at addr.
func (b *Board) RemoveWatchpoint(t *Target, addr Address) error {
	found := 0
	retErr := BestEffort.run(b.Members(t), func(curr *Target) error {
		if _, ok := curr.watchpoints.FindByAddress(addr); !ok {
			return nil
		}
		found++

		err := curr.watchpoints.Remove(curr.driver, addr)
		if err != nil {
			b.log.WithField("target", curr.Name).Errorf("failed to remove watchpoint at address %#x", uint64(addr))
		}
		return err
	})

	if found == 0 {
		err := NoWatchpointError{Addr: addr}
		b.log.WithField("target", t.Name).Error(err)
		return err
	}
	return retErr
}

// HitWatchpoint reports the address and access mode of the watchpoint that
// most recently triggered on t. No record is modified.
func (b *Board) HitWatchpoint(t *Target) (Address, RWMode, error) {
	wp, err := t.driver.HitWatchpoint()
	if err == nil && wp == nil {
		err = errors.New("driver reported no watchpoint")
	}
	if err != nil {
		return 0, 0, fmt.Errorf("%w: no triggered watchpoint on %s: %v", ErrUnspecified, t.Name, err)
	}

	b.log.Debugf("found hit watchpoint at %#x (WPID: %d)", uint64(wp.Address), wp.ID)
	return wp.Address, wp.RW, nil
}
