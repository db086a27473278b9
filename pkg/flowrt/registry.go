package flowrt

// Registry maps hook names to host-supplied callbacks. Each Machine owns
// (or is handed) one registry instance; there is no process-wide table.
// Domain logic is compiled into the host, so binding is late and by name:
// a hook with no registered callback is a safe no-op.
type Registry struct {
	actions    map[string]func()
	updates    map[string]func(dt float64)
	conditions map[string]func() bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:    make(map[string]func()),
		updates:    make(map[string]func(dt float64)),
		conditions: make(map[string]func() bool),
	}
}

// RegisterAction binds a callback for OnEnter, OnExit, OnStart, and OnEnd
// hooks named name.
func (r *Registry) RegisterAction(name string, fn func()) {
	r.actions[name] = fn
}

// RegisterUpdate binds a callback for OnUpdate hooks named name. The
// callback receives the frame's elapsed seconds.
func (r *Registry) RegisterUpdate(name string, fn func(dt float64)) {
	r.updates[name] = fn
}

// RegisterCondition binds a named boolean guard callback, consulted before
// the variable stores when a transition condition is a bare identifier.
func (r *Registry) RegisterCondition(name string, fn func() bool) {
	r.conditions[name] = fn
}

func (r *Registry) fire(name string) {
	if name == "" {
		return
	}
	if fn, ok := r.actions[name]; ok {
		fn()
	}
}

func (r *Registry) fireUpdate(name string, dt float64) {
	if name == "" {
		return
	}
	if fn, ok := r.updates[name]; ok {
		fn(dt)
	}
}

func (r *Registry) condition(name string) (result, ok bool) {
	fn, ok := r.conditions[name]
	if !ok {
		return false, false
	}
	return fn(), true
}
