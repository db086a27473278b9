// Package flowrt is the runtime half of the flow toolkit: the state
// machine, timed sequencer, and variable store that generated flow units
// link against. Generated source carries only the model tables; all
// behavior, including the guard expression interpreter, lives here so a
// host program compiles against one stable library.
package flowrt

// State is one runtime state. Hook fields name actions in the registry and
// may be empty.
type State struct {
	Name    string
	OnEnter string
	OnExit  string
}

// Transition is one candidate edge, scanned in declared order on Emit.
// Condition is guard expression source; empty means always eligible.
type Transition struct {
	From      int
	To        int
	Event     string
	Condition string
}

// Step is one timed sequencer step. Duration is in seconds; negative
// durations behave as zero.
type Step struct {
	Name     string
	Duration float64
	OnStart  string
	OnUpdate string
	OnEnd    string
}

// Program is the baked model a generated unit hands to New.
type Program struct {
	Name        string
	States      []State
	Transitions []Transition
	Steps       []Step
}

// TriggerMap translates a physical input key name to the flow event it
// emits. The generated trigger unit declares one of these.
type TriggerMap map[string]string

// Lookup returns the event bound to key, if any.
func (m TriggerMap) Lookup(key string) (string, bool) {
	event, ok := m[key]
	return event, ok
}
