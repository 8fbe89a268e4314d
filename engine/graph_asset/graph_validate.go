package graph_asset

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedGraph is wrapped by every structural validation failure.
var ErrMalformedGraph = errors.New("malformed animation graph")

var graphValidate = validator.New()

// Validate checks field constraints, cross references, child categories and cycles.
// A graph that passes can be built into a player without further checks.
//
// Parameters:
//   - g: the graph to check
//
// Returns:
//   - error: nil, or an error wrapping ErrMalformedGraph
func Validate(g *Graph) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", ErrMalformedGraph)
	}
	if err := graphValidate.Struct(g); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}

	v := &graphValidator{g: g, machineOf: make(map[NodeID]NodeID)}
	if err := v.checkNodes(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	if err := v.checkRoot(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	if err := v.checkCycles(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	return nil
}

type graphValidator struct {
	g *Graph

	// machineOf maps each state to the state machine listing it.
	machineOf map[NodeID]NodeID
}

func (v *graphValidator) kind(id NodeID) (Kind, bool) {
	if id < 0 || int(id) >= len(v.g.Nodes) {
		return "", false
	}
	return v.g.Nodes[id].Kind, true
}

func (v *graphValidator) expect(from NodeID, role string, id NodeID, ok func(Kind) bool, want string) error {
	k, found := v.kind(id)
	if !found {
		return fmt.Errorf("node %d: %s references node %d out of range", from, role, id)
	}
	if !ok(k) {
		return fmt.Errorf("node %d: %s node %d is %s, want %s", from, role, id, k, want)
	}
	return nil
}

func (v *graphValidator) list(from NodeID, role string, id ListID, allowEmpty bool) ([]NodeID, error) {
	if id < 0 || int(id) >= len(v.g.ChildLists) {
		return nil, fmt.Errorf("node %d: %s list %d out of range", from, role, id)
	}
	l := v.g.ChildLists[id]
	if len(l) == 0 && !allowEmpty {
		return nil, fmt.Errorf("node %d: %s list is empty", from, role)
	}
	return l, nil
}

func isValue(k Kind) bool { return k.IsValue() }
func isPose(k Kind) bool  { return k.IsPose() }
func isState(k Kind) bool { return k == KindState }
func isTransition(k Kind) bool {
	return k == KindStateTransition
}

// isSubtree accepts pose nodes that may stand on their own; states and transitions only live inside machines.
func isSubtree(k Kind) bool {
	return k.IsPose() && k != KindState && k != KindStateTransition
}

func (v *graphValidator) checkNodes() error {
	g := v.g
	for i := range g.Nodes {
		id := NodeID(i)
		n := &g.Nodes[i]
		if n.payloadCount() != 1 || n.Payload() == nil {
			return fmt.Errorf("node %d: kind %s needs exactly its own payload", id, n.Kind)
		}

		var err error
		switch n.Kind {
		case KindParam:
			err = v.checkParam(id, n.Param.Parameter)
		case KindParamComparison:
			err = v.checkParam(id, n.ParamComparison.Parameter)
			if err == nil {
				err = checkOp(id, n.ParamComparison.Op)
			}
		case KindAnd:
			err = v.checkAnd(id, n.And)
		case KindStateCondition:
		case KindClip:
			if g.StringAt(n.Clip.Clip) == "" {
				err = fmt.Errorf("node %d: clip name %d missing", id, n.Clip.Clip)
			}
		case KindBlend:
			err = v.checkBlend(id, n.Blend)
		case KindSum:
			if err = v.expect(id, "base", n.Sum.Base, isSubtree, "pose"); err == nil {
				err = v.expect(id, "additive", n.Sum.Additive, isSubtree, "pose")
			}
		case KindPlayback:
			err = v.expect(id, "child", n.Playback.Child, isSubtree, "pose")
			if err == nil && n.Playback.SpeedValue != nil {
				err = v.expect(id, "speed value", *n.Playback.SpeedValue, isValue, "value")
			}
		case KindRandom:
			err = v.checkRandom(id, n.Random)
		case KindState:
			err = v.checkState(id, n.State)
		case KindStateMachine:
			err = v.checkStateMachine(id, n.StateMachine)
		case KindStateTransition:
			if err = v.expect(id, "destination", n.StateTransition.Destination, isState, "state"); err == nil {
				err = v.expect(id, "condition", n.StateTransition.Condition, isValue, "value")
			}
		}
		if err != nil {
			return err
		}
	}
	return v.checkDestinations()
}

func (v *graphValidator) checkParam(id NodeID, p ParamID) error {
	if p < 0 || int(p) >= len(v.g.Parameters) {
		return fmt.Errorf("node %d: parameter %d out of range", id, p)
	}
	return nil
}

func checkOp(id NodeID, op string) error {
	switch op {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpEqual, OpNotEqual:
		return nil
	}
	return fmt.Errorf("node %d: unknown comparison %q", id, op)
}

func (v *graphValidator) checkAnd(id NodeID, n *AndNode) error {
	children, err := v.list(id, "and", n.Children, true)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := v.expect(id, "and operand", c, isValue, "value"); err != nil {
			return err
		}
	}
	return nil
}

func (v *graphValidator) checkBlend(id NodeID, n *BlendNode) error {
	if err := v.expect(id, "factor", n.Factor, isValue, "value"); err != nil {
		return err
	}
	poses, err := v.list(id, "blend", n.Poses, false)
	if err != nil {
		return err
	}
	if len(poses) != len(n.Factors) {
		return fmt.Errorf("node %d: %d blend poses but %d factors", id, len(poses), len(n.Factors))
	}
	seen := make(map[float32]bool, len(n.Factors))
	for i, p := range poses {
		if err := v.expect(id, "blend pose", p, isSubtree, "pose"); err != nil {
			return err
		}
		if seen[n.Factors[i]] {
			return fmt.Errorf("node %d: duplicate blend factor %g", id, n.Factors[i])
		}
		seen[n.Factors[i]] = true
	}
	return nil
}

func (v *graphValidator) checkRandom(id NodeID, n *RandomNode) error {
	children, err := v.list(id, "random", n.Children, false)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := v.expect(id, "random child", c, isSubtree, "pose"); err != nil {
			return err
		}
	}
	return nil
}

func (v *graphValidator) checkState(id NodeID, n *StateNode) error {
	if v.g.StringAt(n.Name) == "" {
		return fmt.Errorf("node %d: state name %d missing", id, n.Name)
	}
	if err := v.expect(id, "state child", n.Child, isSubtree, "pose"); err != nil {
		return err
	}
	transitions, err := v.list(id, "transitions", n.Transitions, true)
	if err != nil {
		return err
	}
	for _, t := range transitions {
		if err := v.expect(id, "transition", t, isTransition, "state_transition"); err != nil {
			return err
		}
	}
	return nil
}

func (v *graphValidator) checkStateMachine(id NodeID, n *StateMachineNode) error {
	states, err := v.list(id, "states", n.States, false)
	if err != nil {
		return err
	}
	for _, s := range states {
		if err := v.expect(id, "state", s, isState, "state"); err != nil {
			return err
		}
		if other, dup := v.machineOf[s]; dup {
			return fmt.Errorf("node %d: state %d already belongs to state machine %d", id, s, other)
		}
		v.machineOf[s] = id
	}
	return nil
}

// checkDestinations requires every transition to stay inside the machine of the state it leaves.
func (v *graphValidator) checkDestinations() error {
	g := v.g
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Kind != KindState {
			continue
		}
		machine, owned := v.machineOf[NodeID(i)]
		if !owned {
			return fmt.Errorf("node %d: state is not listed by any state machine", i)
		}
		for _, t := range g.ListAt(n.State.Transitions) {
			dst := g.Nodes[t].StateTransition.Destination
			if v.machineOf[dst] != machine {
				return fmt.Errorf("node %d: transition %d leaves state machine %d", i, t, machine)
			}
		}
	}
	return nil
}

func (v *graphValidator) checkRoot() error {
	return v.expect(v.g.Root, "root", v.g.Root, isSubtree, "pose")
}

// checkCycles rejects evaluation cycles. Edges from a state to its transitions and from a
// transition to its destination are not evaluation edges: state machines loop through them.
func (v *graphValidator) checkCycles() error {
	const (
		unvisited = iota
		active
		done
	)
	g := v.g
	mark := make([]uint8, len(g.Nodes))

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		switch mark[id] {
		case active:
			return fmt.Errorf("node %d: evaluation cycle", id)
		case done:
			return nil
		}
		mark[id] = active
		for _, c := range v.evalEdges(id) {
			if err := visit(c); err != nil {
				return err
			}
		}
		mark[id] = done
		return nil
	}

	for i := range g.Nodes {
		if err := visit(NodeID(i)); err != nil {
			return err
		}
	}
	return nil
}

func (v *graphValidator) evalEdges(id NodeID) []NodeID {
	g := v.g
	n := &g.Nodes[id]
	switch n.Kind {
	case KindAnd:
		return g.ListAt(n.And.Children)
	case KindBlend:
		return append([]NodeID{n.Blend.Factor}, g.ListAt(n.Blend.Poses)...)
	case KindSum:
		return []NodeID{n.Sum.Base, n.Sum.Additive}
	case KindPlayback:
		if n.Playback.SpeedValue != nil {
			return []NodeID{n.Playback.Child, *n.Playback.SpeedValue}
		}
		return []NodeID{n.Playback.Child}
	case KindRandom:
		return g.ListAt(n.Random.Children)
	case KindState:
		return []NodeID{n.State.Child}
	case KindStateMachine:
		return g.ListAt(n.StateMachine.States)
	case KindStateTransition:
		return []NodeID{n.StateTransition.Condition}
	}
	return nil
}
