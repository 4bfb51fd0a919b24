package target

// selectRemover picks the core through which a software breakpoint tracked
// by owner is physically removed: owner itself when halted, otherwise the
// first halted member, otherwise the first member that is not unavailable.
// It returns nil when no member can be used.
func selectRemover(owner *Target, members []*Target) *Target {
	if owner.State() == StateHalted {
		return owner
	}

	var available *Target
	for _, curr := range members {
		state := curr.State()
		if state == StateHalted {
			return curr
		}
		if available == nil && state != StateUnavailable {
			available = curr
		}
	}
	return available
}
