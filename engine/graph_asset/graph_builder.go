package graph_asset

// Builder assembles a Graph in code, interning names and parameters as it goes.
// Build validates the result, so a Builder can be used without knowing the table layout.
type Builder struct {
	g       Graph
	strings map[string]StringID
	params  map[string]ParamID
}

// TransitionOption configures a transition created by Builder.Transition.
type TransitionOption func(*StateTransitionNode)

// Reversible makes a transition reverse while its condition stops holding.
//
// Returns:
//   - TransitionOption: the option
func Reversible() TransitionOption {
	return func(t *StateTransitionNode) {
		t.Reversible = true
	}
}

// Curve sets the transition's blend curve by name.
//
// Parameters:
//   - name: one of the Curve* constants
//
// Returns:
//   - TransitionOption: the option
func Curve(name string) TransitionOption {
	return func(t *StateTransitionNode) {
		t.Curve = name
	}
}

// ClipOption configures a clip created by Builder.Clip.
type ClipOption func(*ClipNode)

// NoLoop clamps the clip phase instead of wrapping it.
//
// Returns:
//   - ClipOption: the option
func NoLoop() ClipOption {
	off := false
	return func(c *ClipNode) {
		c.Loop = &off
	}
}

// NoSync keeps the clip on its own phase even when a parent broadcasts one.
//
// Returns:
//   - ClipOption: the option
func NoSync() ClipOption {
	off := false
	return func(c *ClipNode) {
		c.Sync = &off
	}
}

// ReversedClip plays the clip from its end towards its start.
//
// Returns:
//   - ClipOption: the option
func ReversedClip() ClipOption {
	return func(c *ClipNode) {
		c.Reversed = true
	}
}

// NewBuilder starts an empty graph.
//
// Parameters:
//   - name: the graph name
//
// Returns:
//   - *Builder: the builder
func NewBuilder(name string) *Builder {
	return &Builder{
		g:       Graph{Name: name, Root: -1},
		strings: make(map[string]StringID),
		params:  make(map[string]ParamID),
	}
}

func (b *Builder) add(n Node) NodeID {
	b.g.Nodes = append(b.g.Nodes, n)
	return NodeID(len(b.g.Nodes) - 1)
}

func (b *Builder) str(s string) StringID {
	if id, ok := b.strings[s]; ok {
		return id
	}
	id := StringID(len(b.g.Strings))
	b.g.Strings = append(b.g.Strings, s)
	b.strings[s] = id
	return id
}

func (b *Builder) param(name string) ParamID {
	if id, ok := b.params[name]; ok {
		return id
	}
	id := ParamID(len(b.g.Parameters))
	b.g.Parameters = append(b.g.Parameters, name)
	b.params[name] = id
	return id
}

func (b *Builder) list(ids []NodeID) ListID {
	b.g.ChildLists = append(b.g.ChildLists, append(make([]NodeID, 0, len(ids)), ids...))
	return ListID(len(b.g.ChildLists) - 1)
}

// Param adds a node reading the named parameter.
func (b *Builder) Param(name string) NodeID {
	return b.add(Node{Kind: KindParam, Param: &ParamNode{Parameter: b.param(name)}})
}

// Compare adds a node comparing the named float parameter against value.
func (b *Builder) Compare(name, op string, value float32) NodeID {
	return b.add(Node{Kind: KindParamComparison, ParamComparison: &ParamComparisonNode{
		Parameter: b.param(name), Op: op, Value: value,
	}})
}

// And adds a conjunction of value nodes.
func (b *Builder) And(children ...NodeID) NodeID {
	return b.add(Node{Kind: KindAnd, And: &AndNode{Children: b.list(children)}})
}

// StateCondition adds a node that holds once the probed state phase reaches phase.
func (b *Builder) StateCondition(phase float32) NodeID {
	return b.add(Node{Kind: KindStateCondition, StateCondition: &StateConditionNode{Phase: phase}})
}

// Clip adds a clip node sampling the named clip.
func (b *Builder) Clip(clip string, opts ...ClipOption) NodeID {
	c := &ClipNode{Clip: b.str(clip)}
	for _, opt := range opts {
		opt(c)
	}
	return b.add(Node{Kind: KindClip, Clip: c})
}

// Blend adds a blend over poses placed at factors, driven by the factor value node.
func (b *Builder) Blend(factor NodeID, poses []NodeID, factors []float32) NodeID {
	return b.add(Node{Kind: KindBlend, Blend: &BlendNode{
		Factor: factor, Poses: b.list(poses), Factors: append([]float32(nil), factors...),
	}})
}

// Sum adds additive on top of base.
func (b *Builder) Sum(base, additive NodeID) NodeID {
	return b.add(Node{Kind: KindSum, Sum: &SumNode{Base: base, Additive: additive}})
}

// Playback scales time below child by a constant speed.
func (b *Builder) Playback(child NodeID, speed float32) NodeID {
	return b.add(Node{Kind: KindPlayback, Playback: &PlaybackNode{Child: child, Speed: &speed}})
}

// PlaybackBy scales time below child by a float value node.
func (b *Builder) PlaybackBy(child, speed NodeID) NodeID {
	return b.add(Node{Kind: KindPlayback, Playback: &PlaybackNode{Child: child, SpeedValue: &speed}})
}

// Random adds a node playing one randomly chosen child at a time.
func (b *Builder) Random(children ...NodeID) NodeID {
	return b.add(Node{Kind: KindRandom, Random: &RandomNode{Children: b.list(children)}})
}

// State adds a named state around child. Transitions are attached with Transition.
func (b *Builder) State(name string, child NodeID) NodeID {
	return b.add(Node{Kind: KindState, State: &StateNode{
		Name: b.str(name), Child: child, Transitions: b.list(nil),
	}})
}

// Transition adds a transition leaving from towards to when cond holds.
func (b *Builder) Transition(from, to, cond NodeID, duration float32, opts ...TransitionOption) NodeID {
	t := &StateTransitionNode{Destination: to, Condition: cond, Duration: duration}
	for _, opt := range opts {
		opt(t)
	}
	id := b.add(Node{Kind: KindStateTransition, StateTransition: t})

	if from >= 0 && int(from) < len(b.g.Nodes) && b.g.Nodes[from].State != nil {
		l := b.g.Nodes[from].State.Transitions
		b.g.ChildLists[l] = append(b.g.ChildLists[l], id)
	}
	return id
}

// StateMachine adds a machine over states; the first state is the entry state.
func (b *Builder) StateMachine(states ...NodeID) NodeID {
	return b.add(Node{Kind: KindStateMachine, StateMachine: &StateMachineNode{States: b.list(states)}})
}

// Root marks the node evaluated every tick.
func (b *Builder) Root(id NodeID) *Builder {
	b.g.Root = id
	return b
}

// Build validates and returns the graph. The builder must not be reused afterwards.
//
// Returns:
//   - *Graph: the graph
//   - error: an error wrapping ErrMalformedGraph
func (b *Builder) Build() (*Graph, error) {
	g := b.g
	if err := Validate(&g); err != nil {
		return nil, err
	}
	return &g, nil
}
