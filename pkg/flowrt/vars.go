package flowrt

import "github.com/myu/flowc/pkg/expr"

// Vars is the runtime variable store: three independent typed maps with
// per-type get/set. Getters return the type's zero value for absent names.
// There is no transactionality; the store is mutated from the host's single
// update thread.
type Vars struct {
	nums  map[string]float64
	bools map[string]bool
	strs  map[string]string
}

// NewVars returns an empty store.
func NewVars() *Vars {
	return &Vars{
		nums:  make(map[string]float64),
		bools: make(map[string]bool),
		strs:  make(map[string]string),
	}
}

// SetNumber stores a number under name.
func (v *Vars) SetNumber(name string, val float64) {
	v.nums[name] = val
}

// GetNumber returns the number under name, or 0.
func (v *Vars) GetNumber(name string) float64 {
	return v.nums[name]
}

// SetBool stores a bool under name.
func (v *Vars) SetBool(name string, val bool) {
	v.bools[name] = val
}

// GetBool returns the bool under name, or false.
func (v *Vars) GetBool(name string) bool {
	return v.bools[name]
}

// SetString stores a string under name.
func (v *Vars) SetString(name string, val string) {
	v.strs[name] = val
}

// GetString returns the string under name, or "".
func (v *Vars) GetString(name string) string {
	return v.strs[name]
}

// HasBool reports whether name exists in the bool store.
func (v *Vars) HasBool(name string) bool {
	_, ok := v.bools[name]
	return ok
}

// Resolve implements expr.Resolver. The three stores form one conceptual
// namespace; when a name exists in more than one, string wins over bool
// wins over number.
func (v *Vars) Resolve(name string) (expr.Value, bool) {
	if s, ok := v.strs[name]; ok {
		return expr.String(s), true
	}
	if b, ok := v.bools[name]; ok {
		return expr.Bool(b), true
	}
	if n, ok := v.nums[name]; ok {
		return expr.Number(n), true
	}
	return nil, false
}
