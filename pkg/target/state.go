package target

import "fmt"

// State 目标核心的运行状态
type State int

const (
	StateUnknown State = iota
	StateRunning
	StateHalted
	StateReset
	StateDebugRunning
	StateUnavailable
)

var stateNames = map[State]string{
	StateUnknown:      "unknown",
	StateRunning:      "running",
	StateHalted:       "halted",
	StateReset:        "reset",
	StateDebugRunning: "debug-running",
	StateUnavailable:  "unavailable",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState parses the textual form produced by State.String.
func ParseState(s string) (State, error) {
	for k, v := range stateNames {
		if v == s {
			return k, nil
		}
	}
	return StateUnknown, fmt.Errorf("invalid target state: %s", s)
}
