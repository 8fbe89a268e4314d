package anim_graph

import (
	"math"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
)

// NodeKind is the closed set of node kinds a graph is built from.
type NodeKind uint8

const (
	NodeKindParam NodeKind = iota
	NodeKindParamComparison
	NodeKindAnd
	NodeKindStateCondition
	NodeKindClip
	NodeKindBlend
	NodeKindSum
	NodeKindPlayback
	NodeKindRandom
	NodeKindState
	NodeKindStateMachine
	NodeKindStateTransition
)

var nodeKindNames = [...]string{
	NodeKindParam:           "Param",
	NodeKindParamComparison: "ParamComparison",
	NodeKindAnd:             "And",
	NodeKindStateCondition:  "StateCondition",
	NodeKindClip:            "Clip",
	NodeKindBlend:           "Blend",
	NodeKindSum:             "Sum",
	NodeKindPlayback:        "Playback",
	NodeKindRandom:          "Random",
	NodeKindState:           "State",
	NodeKindStateMachine:    "StateMachine",
	NodeKindStateTransition: "StateTransition",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsValue reports whether the kind evaluates to a Value rather than emitting pose jobs.
//
// Returns:
//   - bool: true for Param, ParamComparison, And and StateCondition
func (k NodeKind) IsValue() bool {
	return k <= NodeKindStateCondition
}

// nodeKindFromAsset maps an asset kind tag onto a NodeKind.
func nodeKindFromAsset(k graph_asset.Kind) (NodeKind, bool) {
	switch k {
	case graph_asset.KindParam:
		return NodeKindParam, true
	case graph_asset.KindParamComparison:
		return NodeKindParamComparison, true
	case graph_asset.KindAnd:
		return NodeKindAnd, true
	case graph_asset.KindStateCondition:
		return NodeKindStateCondition, true
	case graph_asset.KindClip:
		return NodeKindClip, true
	case graph_asset.KindBlend:
		return NodeKindBlend, true
	case graph_asset.KindSum:
		return NodeKindSum, true
	case graph_asset.KindPlayback:
		return NodeKindPlayback, true
	case graph_asset.KindRandom:
		return NodeKindRandom, true
	case graph_asset.KindState:
		return NodeKindState, true
	case graph_asset.KindStateMachine:
		return NodeKindStateMachine, true
	case graph_asset.KindStateTransition:
		return NodeKindStateTransition, true
	}
	return 0, false
}

// PhaseFlags govern how a pose node derives its next phase.
type PhaseFlags uint8

const (
	// PhaseCopy mirrors the phase of copySource instead of advancing independently.
	PhaseCopy PhaseFlags = 1 << iota
	// PhaseWrap wraps the phase into [0,1) instead of clamping it.
	PhaseWrap
	// PhaseReversed advances the phase towards 0.
	PhaseReversed
	// PhaseSync adopts the frame's sync phase when the frame has sync enabled.
	PhaseSync
)

// nodeIndex addresses the player's node arena.
type nodeIndex int32

const noNode nodeIndex = -1

// poseState is the playback state every pose node carries.
type poseState struct {
	phase      float32
	duration   float32
	flags      PhaseFlags
	copySource nodeIndex
	lastTick   uint32
	played     bool

	// lastJob is the handle the job pass returned on lastTick. A node reached from
	// several parents emits its jobs once and hands every later parent this handle.
	lastJob JobHandle

	// durationTick is the tick whose duration pass last visited the node.
	durationTick uint32
}

func newPoseState(flags PhaseFlags) poseState {
	return poseState{
		phase:      float32(math.NaN()),
		flags:      flags,
		copySource: noNode,
		lastJob:    InvalidJob,
	}
}

// node is one arena entry. kind selects which payload pointer is set.
type node struct {
	kind NodeKind
	pose poseState

	param      *paramNode
	comparison *comparisonNode
	and        *andNode
	condition  *stateConditionNode
	clip       *clipNode
	blend      *blendNode
	sum        *sumNode
	playback   *playbackNode
	random     *randomNode
	state      *stateNode
	machine    *stateMachineNode
	transition *transitionNode
}
