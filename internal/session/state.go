package session

import "strings"

// TimerMode selects how a practice session is paced.
type TimerMode int

const (
	TimerNone        TimerMode = iota // Self-paced, no countdown
	TimerOverall                      // One countdown for the whole session
	TimerPerQuestion                  // A fresh countdown per question
)

// TimerModes lists the modes in picker order.
var TimerModes = []TimerMode{TimerNone, TimerOverall, TimerPerQuestion}

func (m TimerMode) String() string {
	switch m {
	case TimerOverall:
		return "overall"
	case TimerPerQuestion:
		return "per-question"
	default:
		return "none"
	}
}

// Label returns the practice type shown to the user.
func (m TimerMode) Label() string {
	switch m {
	case TimerOverall:
		return "Overall Time"
	case TimerPerQuestion:
		return "Per Question Time"
	default:
		return "Self-Paced"
	}
}

// Timed reports whether the mode runs a countdown.
func (m TimerMode) Timed() bool { return m != TimerNone }

// ParseTimerMode accepts the mode names and labels.
func ParseTimerMode(s string) (TimerMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "self-paced", "self", "":
		return TimerNone, true
	case "overall", "overall time":
		return TimerOverall, true
	case "per-question", "per question time", "question":
		return TimerPerQuestion, true
	}
	return TimerNone, false
}

// Phase is the lifecycle phase of a session.
type Phase int

const (
	PhaseIdle    Phase = iota // Timed session not started yet
	PhaseRunning              // Accepting answers
	PhaseEnded                // Ledger frozen
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	default:
		return "idle"
	}
}

// Status is how a session resolved a question.
type Status int

const (
	StatusUnattempted Status = iota
	StatusCorrect
	StatusIncorrect
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	case StatusSkipped:
		return "skipped"
	default:
		return "unattempted"
	}
}
