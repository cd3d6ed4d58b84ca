package domain

// Transition classifies the status change between two consecutive runs. It
// drives the current run's notification decision and is never persisted.
type Transition int

const (
	// Unchanged covers both "still fine" and "still alerting".
	Unchanged Transition = iota
	// EnteredAlert means the status flipped GOOD -> BAD.
	EnteredAlert
	// ExitedAlert means the status flipped BAD -> GOOD.
	ExitedAlert
)

func (t Transition) String() string {
	switch t {
	case EnteredAlert:
		return "entered_alert"
	case ExitedAlert:
		return "exited_alert"
	default:
		return "unchanged"
	}
}

// Classify compares the previous run's status against the current one.
// Total over all boolean pairs; there is no error path.
func Classify(previous, current Status) Transition {
	switch {
	case previous == current:
		return Unchanged
	case current == StatusBad:
		return EnteredAlert
	default:
		return ExitedAlert
	}
}
