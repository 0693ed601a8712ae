// Package track implements the branch-track recorder (C9) of spec.md
// §4.9: a structured, newline-delimited event stream describing every
// fork, join, activation, and line pursued, for offline visualization.
package track

import (
	"encoding/json"
	"io"
)

// Kind is an event kind, per spec.md §4.9.
type Kind string

const (
	KindLogicLinePursue Kind = "logic_line_pursue"
	KindFork            Kind = "ccbranch_fork"
	KindJoin            Kind = "ccbranch_join"
	KindJoinForks       Kind = "ccbranch_join_forks"
	KindActivate        Kind = "ccbranch_activate"
	KindDeactivate      Kind = "ccbranch_deactivate"
)

// Event is one record of the stream, per spec.md §4.9's field list. All
// fields besides Kind and BranchID are optional depending on Kind; the
// omitempty tags keep the NDJSON terse the way the teacher's yaml.v2
// config keeps defaults terse.
type Event struct {
	Kind      Kind   `json:"kind"`
	BranchID  string `json:"branch_id"`
	ForkID    string `json:"fork_id,omitempty"`
	ParentID  string `json:"parent_id,omitempty"`
	IntoID    string `json:"into_id,omitempty"`
	FirstID   string `json:"first_id,omitempty"`
	SecondID  string `json:"second_id,omitempty"`
	FromID    string `json:"from_id,omitempty"`
	Condition string `json:"condition,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Recorder writes events as newline-delimited JSON to an underlying
// writer, per spec.md §4.9/§183's "newline-delimited record-per-line
// textual format".
type Recorder struct {
	enc *json.Encoder
	err error
}

// NewRecorder wraps w as an event sink.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

// Err returns the first write error encountered, if any.
func (r *Recorder) Err() error {
	return r.err
}

func (r *Recorder) emit(e Event) {
	if r.err != nil {
		return
	}
	if err := r.enc.Encode(e); err != nil {
		r.err = err
	}
}

// LogicLinePursue records that a branch consumed one logical line.
func (r *Recorder) LogicLinePursue(branchID, content string) {
	r.emit(Event{Kind: KindLogicLinePursue, BranchID: branchID, Content: content})
}

// Fork records a branch splitting into a fork under condition.
func (r *Recorder) Fork(branchID, forkID, condition string) {
	r.emit(Event{Kind: KindFork, BranchID: branchID, ForkID: forkID, ParentID: branchID, Condition: condition})
}

// Join records two branches merging two-way into into.
func (r *Recorder) Join(firstID, secondID, intoID string) {
	r.emit(Event{Kind: KindJoin, BranchID: intoID, FirstID: firstID, SecondID: secondID, IntoID: intoID})
}

// JoinForks records a lone remaining fork being absorbed back into its
// parent.
func (r *Recorder) JoinForks(fromID, intoID string) {
	r.emit(Event{Kind: KindJoinForks, BranchID: intoID, FromID: fromID, IntoID: intoID})
}

// Activate records a branch transitioning to the active state.
func (r *Recorder) Activate(branchID string) {
	r.emit(Event{Kind: KindActivate, BranchID: branchID})
}

// Deactivate records a branch transitioning to the inactive state.
func (r *Recorder) Deactivate(branchID string) {
	r.emit(Event{Kind: KindDeactivate, BranchID: branchID})
}

// Decode reads every event from an NDJSON stream, used by the visualize
// package and by tests.
func Decode(r io.Reader) ([]Event, error) {
	dec := json.NewDecoder(r)
	var events []Event
	for dec.More() {
		var e Event
		if err := dec.Decode(&e); err != nil {
			return events, err
		}
		events = append(events, e)
	}
	return events, nil
}
