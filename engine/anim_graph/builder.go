package anim_graph

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"
)

// build resolves a validated cooked graph into the player's node arena.
func (p *animationPlayer) build(g *graph_asset.Graph) error {
	p.nodes = make([]node, len(g.Nodes))
	p.root = nodeIndex(g.Root)

	for id := range g.Nodes {
		if err := p.buildNode(g, nodeIndex(id)); err != nil {
			return err
		}
	}

	for i := range p.nodes {
		switch p.nodes[i].kind {
		case NodeKindState:
			p.buildBreakpoints(p.nodes[i].state)
		case NodeKindStateMachine:
			p.machines = append(p.machines, nodeIndex(i))
		}
	}

	if p.nodes[p.root].kind.IsValue() {
		return fmt.Errorf("%w: root node %d is a value node", ErrMalformedGraph, p.root)
	}
	return nil
}

func indices(ids []graph_asset.NodeID) []nodeIndex {
	out := make([]nodeIndex, len(ids))
	for k, id := range ids {
		out[k] = nodeIndex(id)
	}
	return out
}

func (p *animationPlayer) buildNode(g *graph_asset.Graph, i nodeIndex) error {
	an := &g.Nodes[i]
	kind, ok := nodeKindFromAsset(an.Kind)
	if !ok {
		return fmt.Errorf("%w: node %d has unknown kind %q", ErrMalformedGraph, i, an.Kind)
	}

	n := node{kind: kind, pose: newPoseState(0)}
	switch kind {
	case NodeKindParam:
		n.param = &paramNode{name: g.Parameters[an.Param.Parameter]}

	case NodeKindParamComparison:
		c := an.ParamComparison
		n.comparison = &comparisonNode{name: g.Parameters[c.Parameter], op: c.Op, value: c.Value}

	case NodeKindAnd:
		n.and = &andNode{children: indices(g.ListAt(an.And.Children))}

	case NodeKindStateCondition:
		n.condition = &stateConditionNode{phase: an.StateCondition.Phase}

	case NodeKindClip:
		c := an.Clip
		var flags PhaseFlags
		if c.LoopEnabled() {
			flags |= PhaseWrap
		}
		if c.SyncEnabled() {
			flags |= PhaseSync
		}
		if c.Reversed {
			flags |= PhaseReversed
		}
		n.pose = newPoseState(flags)
		n.clip = &clipNode{
			handle:   resource.ClipHandle(g.StringAt(c.Clip)),
			sampling: pose.NewSamplingContext(p.skeleton.PackedJointCount()),
		}

	case NodeKindBlend:
		b := an.Blend
		poses := indices(g.ListAt(b.Poses))
		if len(poses) == 0 || len(poses) != len(b.Factors) {
			return fmt.Errorf("%w: blend node %d needs one factor per pose", ErrMalformedGraph, i)
		}
		order := make([]int, len(poses))
		for k := range order {
			order[k] = k
		}
		slices.SortStableFunc(order, func(x, y int) int { return cmp.Compare(b.Factors[x], b.Factors[y]) })

		bn := &blendNode{
			factor:     nodeIndex(b.Factor),
			poses:      make([]nodeIndex, len(poses)),
			factors:    make([]float32, len(poses)),
			prevFactor: float32(math.NaN()),
		}
		for k, o := range order {
			bn.poses[k] = poses[o]
			bn.factors[k] = b.Factors[o]
		}
		n.pose = newPoseState(PhaseWrap | PhaseSync)
		n.blend = bn

	case NodeKindSum:
		n.pose = newPoseState(PhaseWrap | PhaseSync)
		n.sum = &sumNode{base: nodeIndex(an.Sum.Base), additive: nodeIndex(an.Sum.Additive)}

	case NodeKindPlayback:
		pb := an.Playback
		n.pose = newPoseState(PhaseCopy)
		n.pose.copySource = nodeIndex(pb.Child)
		n.playback = &playbackNode{child: nodeIndex(pb.Child), speed: pb.SpeedOrDefault(), speedValue: noNode}
		if pb.SpeedValue != nil {
			n.playback.speedValue = nodeIndex(*pb.SpeedValue)
		}

	case NodeKindRandom:
		children := indices(g.ListAt(an.Random.Children))
		if len(children) == 0 {
			return fmt.Errorf("%w: random node %d has no children", ErrMalformedGraph, i)
		}
		n.pose = newPoseState(PhaseCopy)
		n.random = &randomNode{children: children, selected: noNode}

	case NodeKindState:
		s := an.State
		n.pose = newPoseState(PhaseCopy)
		n.pose.copySource = nodeIndex(s.Child)
		n.state = &stateNode{
			name:        g.StringAt(s.Name),
			child:       nodeIndex(s.Child),
			transitions: indices(g.ListAt(s.Transitions)),
		}

	case NodeKindStateMachine:
		states := indices(g.ListAt(an.StateMachine.States))
		if len(states) == 0 {
			return fmt.Errorf("%w: state machine %d has no states", ErrMalformedGraph, i)
		}
		n.pose = newPoseState(PhaseCopy)
		n.machine = &stateMachineNode{states: states, current: noNode}

	case NodeKindStateTransition:
		t := an.StateTransition
		curve, ok := transitionCurves[t.Curve]
		if !ok {
			return fmt.Errorf("%w: transition %d has unknown curve %q", ErrMalformedGraph, i, t.Curve)
		}
		n.transition = &transitionNode{
			destination:        nodeIndex(t.Destination),
			condition:          nodeIndex(t.Condition),
			length:             t.Duration,
			reversible:         t.Reversible,
			curve:              curve,
			source:             noNode,
			currentSource:      noNode,
			currentDestination: nodeIndex(t.Destination),
		}
	}

	p.nodes[i] = n
	return nil
}

// buildBreakpoints collects the StateCondition literals of every outgoing transition,
// sorted and de-duplicated, each with its transitions in declaration order.
func (p *animationPlayer) buildBreakpoints(s *stateNode) {
	byPhase := make(map[float32][]nodeIndex)
	for _, t := range s.transitions {
		for _, phase := range p.collectBreakpoints(p.nodes[t].transition.condition, nil) {
			if !slices.Contains(byPhase[phase], t) {
				byPhase[phase] = append(byPhase[phase], t)
			}
		}
	}

	s.breakpoints = make([]breakpoint, 0, len(byPhase))
	for phase, ts := range byPhase {
		s.breakpoints = append(s.breakpoints, breakpoint{phase: phase, transitions: ts})
	}
	slices.SortFunc(s.breakpoints, func(a, b breakpoint) int { return cmp.Compare(a.phase, b.phase) })
}
