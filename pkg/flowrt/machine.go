package flowrt

import (
	"strings"

	"github.com/myu/flowc/pkg/expr"
)

// Machine runs a Program: the event-driven state machine and the timed step
// sequencer, ticking independently in the host's frame loop. The machine is
// single-threaded and does work only when Start, Emit, or Update is called.
type Machine struct {
	prog Program

	// Vars and Registry are populated by the host before the first
	// Update or Emit.
	Vars     *Vars
	Registry *Registry

	current   int
	step      int
	stepTimer float64
}

// New builds a machine for prog. A nil registry gets a fresh empty one.
func New(prog Program, reg *Registry) *Machine {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Machine{
		prog:     prog,
		Vars:     NewVars(),
		Registry: reg,
	}
}

// CurrentState returns the index of the active state.
func (m *Machine) CurrentState() int { return m.current }

// CurrentStep returns the index of the active sequencer step.
func (m *Machine) CurrentStep() int { return m.step }

// StepTimer returns the seconds accumulated in the active step.
func (m *Machine) StepTimer() float64 { return m.stepTimer }

// StateName returns the name of the active state, or "" with no states.
func (m *Machine) StateName() string {
	if m.current < 0 || m.current >= len(m.prog.States) {
		return ""
	}
	return m.prog.States[m.current].Name
}

// Start resets both machines to index 0 and fires state 0's OnEnter and
// step 0's OnStart.
func (m *Machine) Start() {
	m.current = 0
	if len(m.prog.States) > 0 {
		m.Registry.fire(m.prog.States[0].OnEnter)
	}
	m.step = 0
	m.stepTimer = 0
	if len(m.prog.Steps) > 0 {
		m.Registry.fire(m.prog.Steps[0].OnStart)
	}
}

// Emit offers an event to the state machine. Transitions are scanned in
// declared order; the first one leaving the current state on this event
// whose condition holds is taken — old state's OnExit, then the new state's
// OnEnter — and scanning stops. No match is a no-op. Reports whether a
// transition was taken.
func (m *Machine) Emit(event string) bool {
	for _, t := range m.prog.Transitions {
		if t.From != m.current || t.Event != event {
			continue
		}
		if !m.evalCondition(t.Condition) {
			continue
		}
		if m.current >= 0 && m.current < len(m.prog.States) {
			m.Registry.fire(m.prog.States[m.current].OnExit)
		}
		m.current = t.To
		if m.current >= 0 && m.current < len(m.prog.States) {
			m.Registry.fire(m.prog.States[m.current].OnEnter)
		}
		return true
	}
	return false
}

// Update ticks the sequencer by dt seconds. The active step's OnUpdate
// fires unconditionally; once the step's duration elapses, OnEnd fires, the
// step advances cyclically (the sequence never terminates), the timer
// resets, and the next step's OnStart fires. With zero steps the sequencer
// is inert. The state machine is not advanced here.
func (m *Machine) Update(dt float64) {
	if len(m.prog.Steps) == 0 {
		return
	}
	s := m.prog.Steps[m.step]
	m.Registry.fireUpdate(s.OnUpdate, dt)
	m.stepTimer += dt

	dur := s.Duration
	if dur < 0 {
		dur = 0
	}
	if m.stepTimer >= dur {
		m.Registry.fire(s.OnEnd)
		m.step = (m.step + 1) % len(m.prog.Steps)
		m.stepTimer = 0
		m.Registry.fire(m.prog.Steps[m.step].OnStart)
	}
}

// bareChars is the set whose presence routes a condition through the full
// expression parser.
const bareChars = `><=!&|()"`

// evalCondition decides a transition guard. Empty conditions always hold.
// A condition with none of the expression operator characters, other than
// the literals true and false, is a bare identifier resolved without the
// parser: named condition callback first, then the bool store, then a
// non-zero check against the number store. Everything else is parsed and
// evaluated over the variable store; source that fails to parse never
// fires.
func (m *Machine) evalCondition(cond string) bool {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true
	}

	if !strings.ContainsAny(cond, bareChars) && cond != "true" && cond != "false" {
		if result, ok := m.Registry.condition(cond); ok {
			return result
		}
		if m.Vars.HasBool(cond) {
			return m.Vars.GetBool(cond)
		}
		return m.Vars.GetNumber(cond) != 0
	}

	v, err := expr.EvalString(cond, m.Vars)
	if err != nil {
		return false
	}
	return expr.Truthy(v)
}
