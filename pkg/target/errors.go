package target

import (
	"errors"
	"fmt"
)

// 驱动与断点管理共用的错误类型
var (
	ErrDuplicateBreakpoint   = errors.New("duplicate breakpoint")
	ErrConflictingWatchpoint = errors.New("conflicting watchpoint")
	ErrResourceNotAvailable  = errors.New("resource not available")
	ErrNotHalted             = errors.New("target not halted")
	ErrNotFound              = errors.New("not found")
	ErrUnspecified           = errors.New("unspecified failure")
)

// BreakpointExistsError is returned when trying to add a breakpoint whose
// address or asid is already tracked by the target.
type BreakpointExistsError struct {
	Match MatchKey // what was requested
	ID    ID       // the breakpoint already tracked
}

func (e BreakpointExistsError) Error() string {
	switch e.Match.Kind {
	case MatchContext:
		return fmt.Sprintf("duplicate breakpoint asid: %#08x (BP %d)", e.Match.ASID, e.ID)
	case MatchHybrid:
		return fmt.Sprintf("duplicate hybrid breakpoint %s (BP %d)", e.Match, e.ID)
	default:
		return fmt.Sprintf("duplicate breakpoint address: %#x (BP %d)", uint64(e.Match.Addr), e.ID)
	}
}

func (e BreakpointExistsError) Is(target error) bool {
	return target == ErrDuplicateBreakpoint
}

// WatchpointConflictError is returned when a watchpoint already exists at
// the address with a different length, value, mask or mode.
type WatchpointConflictError struct {
	Addr Address
	ID   ID
}

func (e WatchpointConflictError) Error() string {
	return fmt.Sprintf("address %#x already has watchpoint %d", uint64(e.Addr), e.ID)
}

func (e WatchpointConflictError) Is(target error) bool {
	return target == ErrConflictingWatchpoint
}

// NoBreakpointError is returned when trying to remove a breakpoint that is
// not tracked.
type NoBreakpointError struct {
	Addr Address
}

func (e NoBreakpointError) Error() string {
	return fmt.Sprintf("no breakpoint at address %#x found", uint64(e.Addr))
}

func (e NoBreakpointError) Is(target error) bool {
	return target == ErrNotFound
}

// NoWatchpointError is returned when trying to remove a watchpoint that is
// not tracked.
type NoWatchpointError struct {
	Addr Address
}

func (e NoWatchpointError) Error() string {
	return fmt.Sprintf("no watchpoint at address %#x found", uint64(e.Addr))
}

func (e NoWatchpointError) Is(target error) bool {
	return target == ErrNotFound
}
