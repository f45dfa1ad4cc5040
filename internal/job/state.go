package job

// State tracks a job through its lifecycle. Cancelling covers the window
// between a cancel request and the backend process actually exiting.
type State string

const (
	StatePending    State = "pending"
	StateRunning    State = "running"
	StateCancelling State = "cancelling"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

func (s State) String() string {
	return string(s)
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Active reports whether a backend invocation may be in flight.
func (s State) Active() bool {
	return s == StateRunning || s == StateCancelling
}

// legalTransitions is the full transition table. Anything not listed is
// rejected as a no-op.
var legalTransitions = map[State][]State{
	StatePending:    {StateRunning, StateCancelled, StateFailed},
	StateRunning:    {StateSucceeded, StateFailed, StateCancelling, StateCancelled},
	StateCancelling: {StateCancelled},
}

func legal(from, to State) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
