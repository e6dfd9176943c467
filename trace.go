package mal

import "time"

// Trace records one evaluation handled by a session: the source text, the
// printed result or error, and when it ran.
type Trace struct {
	Input     string `json:"input"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newTrace(input string) *Trace {
	return &Trace{
		Input:     input,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ToValue converts a trace to a mal map keyed by keywords.
func (t *Trace) ToValue() Value {
	m := map[Key]Value{
		{Kind: ValKeyword, Str: "input"}:     StringVal(t.Input),
		{Kind: ValKeyword, Str: "timestamp"}: StringVal(t.Timestamp),
		{Kind: ValKeyword, Str: "result"}:    NilVal(),
		{Kind: ValKeyword, Str: "error"}:     NilVal(),
	}
	if t.Error != "" {
		m[Key{Kind: ValKeyword, Str: "error"}] = StringVal(t.Error)
	} else {
		m[Key{Kind: ValKeyword, Str: "result"}] = StringVal(t.Result)
	}
	return MapVal(m)
}
