package pipeline

// State is the lifecycle position of a single run.
type State string

const (
	StateIdle         State = "idle"
	StateExtracting   State = "extracting"
	StateTranscribing State = "transcribing"
	StateSummarizing  State = "summarizing"
	StateCleaningUp   State = "cleaning_up"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

var forward = map[State]State{
	StateIdle:         StateExtracting,
	StateExtracting:   StateTranscribing,
	StateTranscribing: StateSummarizing,
	StateSummarizing:  StateCleaningUp,
	StateCleaningUp:   StateDone,
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// CanTransition reports whether moving from s to next is a legal step.
func (s State) CanTransition(next State) bool {
	if s.Terminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	return forward[s] == next
}

func (s State) String() string { return string(s) }

// Observer receives every state change of a run, in order.
type Observer func(runID string, from, to State)
