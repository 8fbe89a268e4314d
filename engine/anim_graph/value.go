package anim_graph

import (
	"maps"
	"slices"
)

// ValueKind tags the content of a Value.
type ValueKind uint8

const (
	// ValueNone is the zero Value: false, 0.
	ValueNone ValueKind = iota
	ValueBool
	ValueFloat
)

// Value is the result of a value node: a bool or a float.
type Value struct {
	Kind ValueKind
	B    bool
	F    float32
}

// Bool wraps a bool.
func Bool(b bool) Value {
	return Value{Kind: ValueBool, B: b}
}

// Float wraps a float.
func Float(f float32) Value {
	return Value{Kind: ValueFloat, F: f}
}

// AsBool converts the value; floats are true when non-zero.
func (v Value) AsBool() bool {
	switch v.Kind {
	case ValueBool:
		return v.B
	case ValueFloat:
		return v.F != 0
	}
	return false
}

// AsFloat converts the value; bools become 0 or 1.
func (v Value) AsFloat() float32 {
	switch v.Kind {
	case ValueFloat:
		return v.F
	case ValueBool:
		if v.B {
			return 1
		}
	}
	return 0
}

// ParameterSet holds the named inputs of a graph. It is read during Tick and may be
// mutated freely between ticks, but not concurrently with a Tick reading it.
type ParameterSet struct {
	values map[string]Value
}

// NewParameterSet creates an empty parameter set.
//
// Returns:
//   - *ParameterSet: the parameter set
func NewParameterSet() *ParameterSet {
	return &ParameterSet{values: make(map[string]Value)}
}

// Set stores a value under name.
//
// Parameters:
//   - name: the parameter name
//   - v: the value
func (p *ParameterSet) Set(name string, v Value) {
	p.values[name] = v
}

// SetFloat stores a float parameter.
func (p *ParameterSet) SetFloat(name string, f float32) {
	p.Set(name, Float(f))
}

// SetBool stores a bool parameter.
func (p *ParameterSet) SetBool(name string, b bool) {
	p.Set(name, Bool(b))
}

// Get looks a parameter up. Unset parameters read as the zero Value.
//
// Parameters:
//   - name: the parameter name
//
// Returns:
//   - Value: the value
//   - bool: whether the parameter is set
func (p *ParameterSet) Get(name string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Names lists the set parameters in sorted order.
func (p *ParameterSet) Names() []string {
	if p == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(p.values))
}
