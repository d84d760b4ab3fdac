package pipeline

import (
	"github.com/Veraticus/autobill/internal/model"
)

// State is a step of a single pipeline pass.
type State int

// Pipeline states. Finalized and Dropped are terminal.
const (
	Received State = iota
	Parsed
	DedupChecked
	Redacted
	Classified
	Finalized
	Dropped
)

var stateNames = map[State]string{
	Received:     "RECEIVED",
	Parsed:       "PARSED",
	DedupChecked: "DEDUP_CHECKED",
	Redacted:     "REDACTED",
	Classified:   "CLASSIFIED",
	Finalized:    "FINALIZED",
	Dropped:      "DROPPED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Finalized || s == Dropped
}

// next lists the legal successors of each state.
var next = map[State][]State{
	Received:     {Parsed, Dropped},
	Parsed:       {DedupChecked, Dropped},
	DedupChecked: {Redacted},
	Redacted:     {Classified},
	Classified:   {Finalized},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Outcome records how a pass ended and the states it went through.
type Outcome struct {
	Reason      error
	Candidate   *model.CandidateBill
	Transaction *model.FinalizedTransaction
	Trace       []State
	State       State
}

func (o *Outcome) advance(to State) {
	if !CanTransition(o.State, to) {
		panic("pipeline: illegal transition " + o.State.String() + " -> " + to.String())
	}
	o.State = to
	o.Trace = append(o.Trace, to)
}

func (o *Outcome) drop(reason error) {
	o.advance(Dropped)
	o.Reason = reason
}
