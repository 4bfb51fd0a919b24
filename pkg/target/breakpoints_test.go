package target

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakpointRegistry_Add(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	id, err := r.Add(drv, AddressKey(0x1000), 4, Hardware)
	require.NoError(t, err)

	bp, ok := r.Find(id)
	require.True(t, ok)
	assert.Equal(t, Address(0x1000), bp.Address())
	assert.Equal(t, uint32(0), bp.ASID())
	assert.Equal(t, uint32(4), bp.Length)
	assert.Equal(t, Hardware, bp.Kind)
	assert.True(t, bp.IsSet)
	assert.Nil(t, bp.OrigInstr, "only a software patch saves instruction bytes")
	assert.Equal(t, []string{fmt.Sprintf("add %d", id)}, drv.calls)

	id, err = r.Add(drv, ContextKey(7), 1<<28, Hardware)
	require.NoError(t, err)
	bp, _ = r.Find(id)
	assert.Nil(t, bp.OrigInstr)

	drv.failAdd[0x3000] = ErrResourceNotAvailable
	_, err = r.Add(drv, AddressKey(0x3000), 4, Software)
	require.Error(t, err)

	id, err = r.Add(drv, AddressKey(0x2000), 4, Software)
	require.NoError(t, err)
	bp, _ = r.Find(id)
	assert.Len(t, bp.OrigInstr, 4)
}

func TestBreakpointRegistry_AddDuplicate(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	id, err := r.Add(drv, AddressKey(0x1000), 4, Software)
	require.NoError(t, err)
	before := r.List()
	drv.reset()

	_, err = r.Add(drv, AddressKey(0x1000), 2, Hardware)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateBreakpoint))

	var exists BreakpointExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, id, exists.ID)
	assert.Contains(t, err.Error(), "0x1000")

	assert.Empty(t, drv.calls, "duplicate check must happen before the driver is called")
	assert.Equal(t, before, r.List())
}

func TestBreakpointRegistry_AddDriverFailure(t *testing.T) {
	for _, driverErr := range []error{ErrResourceNotAvailable, ErrNotHalted, errors.New("jtag timeout")} {
		r := newBreakpointRegistry("cpu0")
		drv := newFakeDriver(StateHalted)
		drv.failAdd[0x2000] = driverErr

		_, err := r.Add(drv, AddressKey(0x2000), 4, Software)
		require.Error(t, err)
		assert.True(t, errors.Is(err, driverErr))
		assert.Equal(t, 0, r.Len())

		// the failed attempt leaves nothing behind, the address is free again
		delete(drv.failAdd, 0x2000)
		_, err = r.Add(drv, AddressKey(0x2000), 4, Software)
		assert.NoError(t, err)
	}
}

func TestBreakpointRegistry_ContextDuplicate(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	_, err := r.Add(drv, ContextKey(5), 4, Hardware)
	require.NoError(t, err)

	_, err = r.Add(drv, ContextKey(5), 4, Hardware)
	assert.True(t, errors.Is(err, ErrDuplicateBreakpoint))
	assert.Contains(t, err.Error(), "asid")

	_, err = r.Add(drv, ContextKey(6), 4, Hardware)
	assert.NoError(t, err)

	// plain address breakpoints carry asid 0
	_, err = r.Add(drv, AddressKey(0x3000), 4, Hardware)
	require.NoError(t, err)
	_, err = r.Add(drv, ContextKey(0), 4, Hardware)
	assert.True(t, errors.Is(err, ErrDuplicateBreakpoint))

	assert.Equal(t, 3, r.Len())
}

func TestBreakpointRegistry_HybridDuplicate(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	_, err := r.Add(drv, AddressKey(0x2000), 4, Hardware)
	require.NoError(t, err)

	// same address as an asid-less breakpoint
	_, err = r.Add(drv, HybridKey(0x2000, 7), 4, Hardware)
	assert.True(t, errors.Is(err, ErrDuplicateBreakpoint))

	_, err = r.Add(drv, HybridKey(0x3000, 7), 4, Hardware)
	require.NoError(t, err)
	_, err = r.Add(drv, HybridKey(0x3000, 7), 4, Hardware)
	assert.True(t, errors.Is(err, ErrDuplicateBreakpoint))
	_, err = r.Add(drv, HybridKey(0x3000, 8), 4, Hardware)
	assert.NoError(t, err)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "add-hybrid", drv.calls[len(drv.calls)-1][:len("add-hybrid")])
}

func TestBreakpointRegistry_FindByAddress(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	plain, err := r.Add(drv, AddressKey(0x1000), 4, Hardware)
	require.NoError(t, err)
	ctx, err := r.Add(drv, ContextKey(0x42), 4, Hardware)
	require.NoError(t, err)

	bp, ok := r.FindByAddress(0x1000)
	require.True(t, ok)
	assert.Equal(t, plain, bp.ID)

	// context breakpoints are found by their asid
	bp, ok = r.FindByAddress(0x42)
	require.True(t, ok)
	assert.Equal(t, ctx, bp.ID)

	_, ok = r.FindByAddress(0x2000)
	assert.False(t, ok)

	// hybrid at address zero is reachable by its asid too
	r = newBreakpointRegistry("cpu1")
	hybrid, err := r.Add(drv, HybridKey(0, 0x77), 4, Hardware)
	require.NoError(t, err)
	bp, ok = r.FindByAddress(0x77)
	require.True(t, ok)
	assert.Equal(t, hybrid, bp.ID)
	assert.Equal(t, MatchHybrid, bp.Match.Kind)

	bp, ok = r.FindByAddress(0)
	require.True(t, ok)
	assert.Equal(t, hybrid, bp.ID)

	hybrid2, err := r.Add(drv, HybridKey(0x3000, 0x88), 4, Hardware)
	require.NoError(t, err)
	_, ok = r.FindByAddress(0x88)
	assert.False(t, ok, "hybrid with an address is only found by that address")
	bp, ok = r.FindByAddress(0x3000)
	require.True(t, ok)
	assert.Equal(t, hybrid2, bp.ID)
}

func TestBreakpointRegistry_InsertionOrder(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	addrs := []Address{0x3000, 0x1000, 0x2000, 0x500}
	for _, addr := range addrs {
		_, err := r.Add(drv, AddressKey(addr), 4, Hardware)
		require.NoError(t, err)
	}
	bp, _ := r.FindByAddress(0x1000)
	require.NoError(t, r.Remove(drv, bp.ID))

	var got []Address
	for _, bp := range r.List() {
		got = append(got, bp.Address())
	}
	assert.Equal(t, []Address{0x3000, 0x2000, 0x500}, got)
}

func TestBreakpointRegistry_RoundTrip(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	_, err := r.Add(drv, AddressKey(0x1000), 4, Hardware)
	require.NoError(t, err)
	before := r.List()

	id, err := r.Add(drv, AddressKey(0x2000), 4, Software)
	require.NoError(t, err)
	require.NoError(t, r.Remove(drv, id))

	assert.Equal(t, before, r.List())
}

func TestBreakpointRegistry_RemoveFailure(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	id, err := r.Add(drv, AddressKey(0x1000), 4, Software)
	require.NoError(t, err)

	drv.failRemove[0x1000] = ErrNotHalted
	err = r.Remove(drv, id)
	assert.True(t, errors.Is(err, ErrNotHalted))

	bp, ok := r.Find(id)
	require.True(t, ok, "record must survive a failed removal")
	assert.True(t, bp.IsSet)

	err = r.Remove(drv, id+1000)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBreakpointRegistry_RemoveThroughOtherDriver(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	owner := newFakeDriver(StateHalted)
	other := newFakeDriver(StateHalted)

	id, err := r.Add(owner, AddressKey(0x1000), 4, Software)
	require.NoError(t, err)
	owner.reset()

	require.NoError(t, r.Remove(other, id))
	assert.Empty(t, owner.calls)
	assert.Equal(t, []string{fmt.Sprintf("remove %d", id)}, other.calls)
	assert.Equal(t, 0, r.Len())
}

func TestBreakpointRegistry_RemoveAll(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	for _, addr := range []Address{0x1000, 0x2000, 0x3000} {
		_, err := r.Add(drv, AddressKey(addr), 4, Hardware)
		require.NoError(t, err)
	}
	drv.failRemove[0x2000] = ErrUnspecified
	drv.reset()

	err := r.RemoveAll(drv)
	assert.True(t, errors.Is(err, ErrUnspecified))
	assert.Len(t, drv.calls, 3)

	left := r.List()
	require.Len(t, left, 1)
	assert.Equal(t, Address(0x2000), left[0].Address())

	delete(drv.failRemove, 0x2000)
	assert.NoError(t, r.RemoveAll(drv))
	assert.Equal(t, 0, r.Len())
}

func TestBreakpointRegistry_ListIsCopy(t *testing.T) {
	r := newBreakpointRegistry("cpu0")
	drv := newFakeDriver(StateHalted)

	_, err := r.Add(drv, AddressKey(0x1000), 2, Software)
	require.NoError(t, err)

	l := r.List()
	l[0].Match.Addr = 0x9999
	l[0].OrigInstr[0] = 0xff

	bp, ok := r.FindByAddress(0x1000)
	require.True(t, ok)
	assert.Equal(t, byte(0), bp.OrigInstr[0])
}

func TestIDMonotonic(t *testing.T) {
	bps := newBreakpointRegistry("cpu0")
	wps := newWatchpointRegistry("cpu1")
	drv := newFakeDriver(StateHalted)

	var last ID
	for i := 0; i < 10; i++ {
		var (
			id  ID
			err error
		)
		if i%2 == 0 {
			id, err = bps.Add(drv, AddressKey(Address(0x1000+i)), 4, Hardware)
		} else {
			id, err = wps.Add(drv, Address(0x8000+i), 4, Write, 0, 0)
		}
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}

	// a failed install still consumes an id, ids are never handed out twice
	drv.failAdd[0x5000] = ErrResourceNotAvailable
	_, err := bps.Add(drv, AddressKey(0x5000), 4, Hardware)
	require.Error(t, err)
	delete(drv.failAdd, 0x5000)
	id, err := bps.Add(drv, AddressKey(0x5000), 4, Hardware)
	require.NoError(t, err)
	assert.Greater(t, id, last+1)
}
