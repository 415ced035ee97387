package history

import "encoding/json"

// Record is an opaque, caller-defined purchase payload. It is stored verbatim.
type Record = json.RawMessage

// State is the append-only purchase history.
type State struct {
	History []Record `json:"history"`
}

func NewState() State {
	return State{History: []Record{}}
}

func (s *State) Add(r Record) {
	s.History = append(s.History, append(Record(nil), r...))
}

func (s State) Len() int {
	return len(s.History)
}

func (s State) Clone() State {
	out := make([]Record, len(s.History))
	for i, r := range s.History {
		out[i] = append(Record(nil), r...)
	}
	return State{History: out}
}
