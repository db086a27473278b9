// Package flow holds the authoring model for a Flow: an event-driven state
// machine combined with a timed step sequence, plus the input triggers and
// variables the generated runtime is seeded with. The visual editor mutates
// these records directly; the model has no behavior of its own.
package flow

// VarType tags the single value slot of a Variable.
type VarType int

const (
	VarNumber VarType = iota
	VarBool
	VarString
)

// String returns the codec tag for the type ("number", "bool", "string").
func (t VarType) String() string {
	switch t {
	case VarBool:
		return "bool"
	case VarString:
		return "string"
	default:
		return "number"
	}
}

// ParseVarType is the inverse of VarType.String. Unknown names fall back to
// VarNumber, matching the codec's zero-value recovery rule.
func ParseVarType(s string) VarType {
	switch s {
	case "bool":
		return VarBool
	case "string":
		return VarString
	default:
		return VarNumber
	}
}

// State is one node of the state machine. OnEnter and OnExit name
// host-supplied actions and may be empty. X and Y are editor canvas
// coordinates, presentation only.
type State struct {
	Name    string
	OnEnter string
	OnExit  string
	X, Y    float64
}

// Transition is an edge between two states, identified by their positions
// in Flow.States. Condition is Expression Language source; empty means the
// transition is always eligible.
type Transition struct {
	From      int
	To        int
	Event     string
	Condition string
}

// SequenceStep is one timed step of the linear sequence. Duration is in
// seconds and should be >= 0. The three hook fields name host actions.
type SequenceStep struct {
	Name     string
	Duration float64
	OnStart  string
	OnUpdate string
	OnEnd    string
	X, Y     float64
}

// EventTrigger binds a physical input key to the emission of a named event.
type EventTrigger struct {
	Event string
	Key   string
}

// Variable seeds one slot of the runtime variable store. Exactly one of
// Num, Str, Bool is meaningful, selected by Type.
type Variable struct {
	Name string
	Type VarType
	Num  float64
	Str  string
	Bool bool
}

// Version is the persisted format version this build reads and writes.
const Version = 1

// Flow is the whole authoring unit. The codec replaces it wholesale on
// load; the generator reads it without mutating it.
type Flow struct {
	Name        string
	Version     int
	States      []State
	Transitions []Transition
	Steps       []SequenceStep
	Triggers    []EventTrigger
	Vars        []Variable
}

// New returns an empty named flow at the current format version.
func New(name string) *Flow {
	return &Flow{Name: name, Version: Version}
}
