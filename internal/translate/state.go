package translate

// State is the controller's position in the translation lifecycle.
type State int

const (
	// StateIdle means no text is waiting to be translated.
	StateIdle State = iota
	// StatePending means an edit is waiting out the quiescence window.
	StatePending
	// StateStreaming means a request is in flight and fragments are arriving.
	StateStreaming
	// StateDone means the latest request completed.
	StateDone
	// StateFailed means the latest request was rejected.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// stateMachine guards the controller's transitions.
type stateMachine struct {
	current     State
	transitions map[State][]State
	onEnter     map[State]func()
}

func newStateMachine() *stateMachine {
	return &stateMachine{
		current: StateIdle,
		transitions: map[State][]State{
			StateIdle:      {StateIdle, StatePending},
			StatePending:   {StateIdle, StatePending, StateStreaming},
			StateStreaming: {StateIdle, StatePending, StateDone, StateFailed},
			StateDone:      {StateIdle, StatePending},
			StateFailed:    {StateIdle, StatePending},
		},
		onEnter: make(map[State]func()),
	}
}

// transition moves to the given state if the move is allowed.
func (sm *stateMachine) transition(to State) bool {
	valid := false
	for _, s := range sm.transitions[sm.current] {
		if s == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	sm.current = to
	if fn := sm.onEnter[to]; fn != nil {
		fn()
	}
	return true
}
