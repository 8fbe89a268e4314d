package anim_graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
)

type paramNode struct {
	name string
}

type comparisonNode struct {
	name  string
	op    string
	value float32
}

type andNode struct {
	children []nodeIndex
}

type stateConditionNode struct {
	phase float32
}

// compute evaluates value node i. Pose nodes evaluate to the zero Value.
func (p *animationPlayer) compute(i nodeIndex, vc valueContext) Value {
	n := &p.nodes[i]
	switch n.kind {
	case NodeKindParam:
		v, _ := vc.params.Get(n.param.name)
		return v

	case NodeKindParamComparison:
		v, _ := vc.params.Get(n.comparison.name)
		return Bool(compare(n.comparison.op, v.AsFloat(), n.comparison.value))

	case NodeKindAnd:
		for _, c := range n.and.children {
			if !p.compute(c, vc).AsBool() {
				return Bool(false)
			}
		}
		return Bool(true)

	case NodeKindStateCondition:
		if !vc.probing {
			return Bool(false)
		}
		if vc.reversed {
			return Bool(vc.probe <= n.condition.phase)
		}
		return Bool(vc.probe >= n.condition.phase)
	}
	return Value{}
}

func compare(op string, lhs, rhs float32) bool {
	switch op {
	case graph_asset.OpGreater:
		return lhs > rhs
	case graph_asset.OpGreaterEqual:
		return lhs >= rhs
	case graph_asset.OpLess:
		return lhs < rhs
	case graph_asset.OpLessEqual:
		return lhs <= rhs
	case graph_asset.OpEqual:
		return lhs == rhs
	case graph_asset.OpNotEqual:
		return lhs != rhs
	}
	panic(fmt.Sprintf("anim_graph: unknown comparison %q", op))
}

// collectBreakpoints appends every StateCondition literal reachable from value node i.
func (p *animationPlayer) collectBreakpoints(i nodeIndex, out []float32) []float32 {
	n := &p.nodes[i]
	switch n.kind {
	case NodeKindStateCondition:
		return append(out, n.condition.phase)
	case NodeKindAnd:
		for _, c := range n.and.children {
			out = p.collectBreakpoints(c, out)
		}
	}
	return out
}
