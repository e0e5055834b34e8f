package wifi

import "fmt"

// OutcomeKind tells how far a connection attempt got, as seen from the latest history entry.
type OutcomeKind int

const (
	// OutcomeUnknown means the history could not be interpreted: no entry yet, or a malformed one.
	OutcomeUnknown OutcomeKind = iota
	OutcomeInProgress
	OutcomeComplete
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeInProgress:
		return "in-progress"
	case OutcomeComplete:
		return "complete"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the classification of a status snapshot for an ongoing attempt.
type Outcome struct {
	Kind  OutcomeKind `json:"kind"`
	Error ErrorCode   `json:"error"`
	Msg   string      `json:"msg,omitempty"`
	State string      `json:"state,omitempty"`
}

// Terminal reports whether polling should stop.
func (o Outcome) Terminal() bool {
	return o.Kind == OutcomeComplete || o.Kind == OutcomeFailed
}

// Message is the user facing text for the outcome, without the network prefix.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeInProgress:
		if o.State != "" {
			return "In progress: " + o.State
		}
		return "In progress"
	case OutcomeComplete:
		return "Connection complete"
	case OutcomeFailed:
		return fmt.Sprintf("Connection failed: %s (error %d)", o.Msg, int(o.Error))
	}
	return "Status unknown"
}

// Classify interprets the most recent connect history entry of a status.
// An entry with error 20 (attempt in progress) or last == 0 is still in progress;
// any other error code is terminal.
func Classify(status *Status) Outcome {
	if status == nil || len(status.ConnectHistory) == 0 {
		return Outcome{Kind: OutcomeUnknown}
	}
	hist := status.ConnectHistory[0]
	if hist.Error == nil {
		return Outcome{Kind: OutcomeUnknown, State: status.State}
	}
	code := ErrorCode(*hist.Error)
	if code == ErrInProgress || (hist.Last != nil && *hist.Last == 0) {
		return Outcome{Kind: OutcomeInProgress, Error: code, State: status.State}
	}
	if code == ErrNone {
		return Outcome{Kind: OutcomeComplete, Error: code, Msg: hist.Msg, State: status.State}
	}
	return Outcome{Kind: OutcomeFailed, Error: code, Msg: hist.Msg, State: status.State}
}
