// Package graph_asset defines the cooked animation graph: a flat node table whose
// payloads reference other nodes, names, parameters and child lists by index.
// It is read once when a player is built and never consulted again.
package graph_asset

// NodeID indexes Graph.Nodes.
type NodeID int32

// ListID indexes Graph.ChildLists.
type ListID int32

// StringID indexes Graph.Strings.
type StringID int32

// ParamID indexes Graph.Parameters.
type ParamID int32

// Kind is the node kind tag as it appears in the asset.
type Kind string

const (
	KindParam           Kind = "param"
	KindParamComparison Kind = "param_comparison"
	KindAnd             Kind = "and"
	KindStateCondition  Kind = "state_condition"
	KindClip            Kind = "clip"
	KindBlend           Kind = "blend"
	KindSum             Kind = "sum"
	KindPlayback        Kind = "playback"
	KindRandom          Kind = "random"
	KindState           Kind = "state"
	KindStateMachine    Kind = "state_machine"
	KindStateTransition Kind = "state_transition"
)

// IsValue reports whether nodes of this kind produce a value rather than a pose.
//
// Returns:
//   - bool: true for param, param_comparison, and, state_condition
func (k Kind) IsValue() bool {
	switch k {
	case KindParam, KindParamComparison, KindAnd, KindStateCondition:
		return true
	}
	return false
}

// IsPose reports whether nodes of this kind produce pose jobs.
//
// Returns:
//   - bool: true for every pose node kind
func (k Kind) IsPose() bool {
	switch k {
	case KindClip, KindBlend, KindSum, KindPlayback, KindRandom, KindState, KindStateMachine, KindStateTransition:
		return true
	}
	return false
}

// Comparison operators accepted by ParamComparison nodes.
const (
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpEqual        = "=="
	OpNotEqual     = "!="
)

// Transition blend curve names.
const (
	CurveLinear     = "linear"
	CurveInQuad     = "in_quad"
	CurveOutQuad    = "out_quad"
	CurveInOutQuad  = "in_out_quad"
	CurveInOutCubic = "in_out_cubic"
	CurveInOutSine  = "in_out_sine"
)

// Graph is a cooked animation graph.
type Graph struct {
	// Name identifies the graph in logs and metrics.
	Name string `yaml:"name" validate:"required"`

	// Root is the pose node evaluated every tick.
	Root NodeID `yaml:"root" validate:"gte=0"`

	// Strings holds clip and state names.
	Strings []string `yaml:"strings,omitempty"`

	// Parameters holds parameter names read by param and param_comparison nodes.
	Parameters []string `yaml:"parameters,omitempty" validate:"dive,required"`

	// ChildLists holds every node list referenced by and, blend, random, state and state_machine nodes.
	ChildLists [][]NodeID `yaml:"child_lists,omitempty"`

	// Nodes is the node table.
	Nodes []Node `yaml:"nodes" validate:"required,min=1,dive"`
}

// Node is one entry of the node table. Exactly the payload matching Kind is set.
type Node struct {
	Kind Kind `yaml:"kind" validate:"required,oneof=param param_comparison and state_condition clip blend sum playback random state state_machine state_transition"`

	Param           *ParamNode           `yaml:"param,omitempty"`
	ParamComparison *ParamComparisonNode `yaml:"param_comparison,omitempty"`
	And             *AndNode             `yaml:"and,omitempty"`
	StateCondition  *StateConditionNode  `yaml:"state_condition,omitempty"`
	Clip            *ClipNode            `yaml:"clip,omitempty"`
	Blend           *BlendNode           `yaml:"blend,omitempty"`
	Sum             *SumNode             `yaml:"sum,omitempty"`
	Playback        *PlaybackNode        `yaml:"playback,omitempty"`
	Random          *RandomNode          `yaml:"random,omitempty"`
	State           *StateNode           `yaml:"state,omitempty"`
	StateMachine    *StateMachineNode    `yaml:"state_machine,omitempty"`
	StateTransition *StateTransitionNode `yaml:"state_transition,omitempty"`
}

// ParamNode reads a parameter verbatim.
type ParamNode struct {
	Parameter ParamID `yaml:"parameter" validate:"gte=0"`
}

// ParamComparisonNode compares a float parameter against a literal.
type ParamComparisonNode struct {
	Parameter ParamID `yaml:"parameter" validate:"gte=0"`
	Op        string  `yaml:"op" validate:"required"`
	Value     float32 `yaml:"value"`
}

// AndNode is true when every child value node is true. An empty list is true.
type AndNode struct {
	Children ListID `yaml:"children" validate:"gte=0"`
}

// StateConditionNode is true once the enclosing state's probed phase reaches Phase.
type StateConditionNode struct {
	Phase float32 `yaml:"phase" validate:"gte=0,lte=1"`
}

// ClipNode samples one clip. Loop and Sync default to true.
type ClipNode struct {
	Clip     StringID `yaml:"clip" validate:"gte=0"`
	Loop     *bool    `yaml:"loop,omitempty"`
	Sync     *bool    `yaml:"sync,omitempty"`
	Reversed bool     `yaml:"reversed,omitempty"`
}

// LoopEnabled reports whether the clip wraps its phase.
//
// Returns:
//   - bool: Loop, or true when unset
func (c *ClipNode) LoopEnabled() bool {
	return c.Loop == nil || *c.Loop
}

// SyncEnabled reports whether the clip adopts a broadcast sync phase.
//
// Returns:
//   - bool: Sync, or true when unset
func (c *ClipNode) SyncEnabled() bool {
	return c.Sync == nil || *c.Sync
}

// BlendNode interpolates between pose children ordered by Factors.
type BlendNode struct {
	Factor  NodeID    `yaml:"factor" validate:"gte=0"`
	Poses   ListID    `yaml:"poses" validate:"gte=0"`
	Factors []float32 `yaml:"factors" validate:"required,min=1"`
}

// SumNode adds Additive on top of Base relative to the rest pose.
type SumNode struct {
	Base     NodeID `yaml:"base" validate:"gte=0"`
	Additive NodeID `yaml:"additive" validate:"gte=0"`
}

// PlaybackNode scales time for its subtree by Speed, or by a float value node when SpeedValue is set.
type PlaybackNode struct {
	Child      NodeID   `yaml:"child" validate:"gte=0"`
	Speed      *float32 `yaml:"speed,omitempty"`
	SpeedValue *NodeID  `yaml:"speed_value,omitempty"`
}

// SpeedOrDefault returns the constant speed multiplier.
//
// Returns:
//   - float32: Speed, or 1 when unset
func (p *PlaybackNode) SpeedOrDefault() float32 {
	if p.Speed == nil {
		return 1
	}
	return *p.Speed
}

// RandomNode plays one uniformly chosen child, rerolling when it finishes.
type RandomNode struct {
	Children ListID `yaml:"children" validate:"gte=0"`
}

// StateNode is one state of a state machine.
type StateNode struct {
	Name        StringID `yaml:"name" validate:"gte=0"`
	Child       NodeID   `yaml:"child" validate:"gte=0"`
	Transitions ListID   `yaml:"transitions" validate:"gte=0"`
}

// StateMachineNode starts in the first listed state.
type StateMachineNode struct {
	States ListID `yaml:"states" validate:"gte=0"`
}

// StateTransitionNode blends from the state it leaves into Destination over Duration seconds.
type StateTransitionNode struct {
	Destination NodeID  `yaml:"destination" validate:"gte=0"`
	Condition   NodeID  `yaml:"condition" validate:"gte=0"`
	Duration    float32 `yaml:"duration" validate:"gt=0"`
	Reversible  bool    `yaml:"reversible,omitempty"`
	Curve       string  `yaml:"curve,omitempty" validate:"omitempty,oneof=linear in_quad out_quad in_out_quad in_out_cubic in_out_sine"`
}

// Payload returns the payload matching n.Kind, or nil when it is missing.
//
// Returns:
//   - any: one of the *XxxNode payload pointers, or nil
func (n *Node) Payload() any {
	switch n.Kind {
	case KindParam:
		return nilIfNil(n.Param)
	case KindParamComparison:
		return nilIfNil(n.ParamComparison)
	case KindAnd:
		return nilIfNil(n.And)
	case KindStateCondition:
		return nilIfNil(n.StateCondition)
	case KindClip:
		return nilIfNil(n.Clip)
	case KindBlend:
		return nilIfNil(n.Blend)
	case KindSum:
		return nilIfNil(n.Sum)
	case KindPlayback:
		return nilIfNil(n.Playback)
	case KindRandom:
		return nilIfNil(n.Random)
	case KindState:
		return nilIfNil(n.State)
	case KindStateMachine:
		return nilIfNil(n.StateMachine)
	case KindStateTransition:
		return nilIfNil(n.StateTransition)
	}
	return nil
}

// nilIfNil keeps a typed nil pointer from turning into a non-nil interface.
func nilIfNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}

// payloadCount returns how many payload pointers are set.
func (n *Node) payloadCount() int {
	c := 0
	for _, set := range []bool{
		n.Param != nil, n.ParamComparison != nil, n.And != nil, n.StateCondition != nil,
		n.Clip != nil, n.Blend != nil, n.Sum != nil, n.Playback != nil,
		n.Random != nil, n.State != nil, n.StateMachine != nil, n.StateTransition != nil,
	} {
		if set {
			c++
		}
	}
	return c
}

// StringAt returns the entry of the string table, or "" when out of range.
//
// Parameters:
//   - id: the string index
//
// Returns:
//   - string: the string
func (g *Graph) StringAt(id StringID) string {
	if id < 0 || int(id) >= len(g.Strings) {
		return ""
	}
	return g.Strings[id]
}

// ListAt returns a child list, or nil when out of range.
//
// Parameters:
//   - id: the list index
//
// Returns:
//   - []NodeID: the node IDs of the list
func (g *Graph) ListAt(id ListID) []NodeID {
	if id < 0 || int(id) >= len(g.ChildLists) {
		return nil
	}
	return g.ChildLists[id]
}
