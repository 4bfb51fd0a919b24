package target

import (
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
)

func TestMain(m *testing.M) {
	logflags.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeDriver records every call it receives and fails the ones it is told to.
type fakeDriver struct {
	state State

	calls      []string
	failAdd    map[Address]error
	failRemove map[Address]error

	hit    *Watchpoint
	hitErr error
}

func newFakeDriver(state State) *fakeDriver {
	return &fakeDriver{
		state:      state,
		failAdd:    map[Address]error{},
		failRemove: map[Address]error{},
	}
}

func (d *fakeDriver) State() State {
	return d.state
}

func bpKey(bp *Breakpoint) Address {
	if bp.Match.Kind == MatchContext {
		return Address(bp.Match.ASID)
	}
	return bp.Match.Addr
}

func (d *fakeDriver) addBreakpoint(op string, bp *Breakpoint) error {
	d.calls = append(d.calls, fmt.Sprintf("%s %d", op, bp.ID))
	if err := d.failAdd[bpKey(bp)]; err != nil {
		return err
	}
	if bp.Kind == Software && bp.Match.Kind == MatchAddress {
		bp.OrigInstr = make([]byte, bp.Length)
	}
	bp.IsSet = true
	return nil
}

func (d *fakeDriver) AddBreakpoint(bp *Breakpoint) error {
	return d.addBreakpoint("add", bp)
}

func (d *fakeDriver) AddContextBreakpoint(bp *Breakpoint) error {
	return d.addBreakpoint("add-context", bp)
}

func (d *fakeDriver) AddHybridBreakpoint(bp *Breakpoint) error {
	return d.addBreakpoint("add-hybrid", bp)
}

func (d *fakeDriver) RemoveBreakpoint(bp *Breakpoint) error {
	d.calls = append(d.calls, fmt.Sprintf("remove %d", bp.ID))
	if err := d.failRemove[bpKey(bp)]; err != nil {
		return err
	}
	bp.IsSet = false
	return nil
}

func (d *fakeDriver) AddWatchpoint(wp *Watchpoint) error {
	d.calls = append(d.calls, fmt.Sprintf("add-watch %d", wp.ID))
	return d.failAdd[wp.Address]
}

func (d *fakeDriver) RemoveWatchpoint(wp *Watchpoint) error {
	d.calls = append(d.calls, fmt.Sprintf("remove-watch %d", wp.ID))
	return d.failRemove[wp.Address]
}

func (d *fakeDriver) HitWatchpoint() (*Watchpoint, error) {
	return d.hit, d.hitErr
}

func (d *fakeDriver) reset() {
	d.calls = nil
}
