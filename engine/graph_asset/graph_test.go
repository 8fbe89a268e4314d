package graph_asset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const locomotionYAML = `
name: locomotion
root: 6
strings: [idle, walk, Idle, Walk]
parameters: [Speed]
child_lists:
  - [5]
  - []
  - [3, 4]
nodes:
  - kind: clip
    clip: {clip: 0}
  - kind: clip
    clip: {clip: 1}
  - kind: param_comparison
    param_comparison: {parameter: 0, op: ">", value: 0.1}
  - kind: state
    state: {name: 2, child: 0, transitions: 0}
  - kind: state
    state: {name: 3, child: 1, transitions: 1}
  - kind: state_transition
    state_transition: {destination: 4, condition: 2, duration: 0.2}
  - kind: state_machine
    state_machine: {states: 2}
`

func buildLocomotion(t *testing.T) *Graph {
	t.Helper()
	b := NewBuilder("locomotion")
	idleClip := b.Clip("idle")
	walkClip := b.Clip("walk")
	moving := b.Compare("Speed", OpGreater, 0.1)
	idle := b.State("Idle", idleClip)
	walk := b.State("Walk", walkClip)
	b.Transition(idle, walk, moving, 0.2)
	g, err := b.Root(b.StateMachine(idle, walk)).Build()
	require.NoError(t, err)
	return g
}

func TestDecodeMatchesBuilder(t *testing.T) {
	decoded, err := Decode(strings.NewReader(locomotionYAML))
	require.NoError(t, err)

	built := buildLocomotion(t)
	if diff := cmp.Diff(built, decoded); diff != "" {
		t.Fatalf("decoded graph mismatch (-built +decoded):\n%s", diff)
	}

	a, err := Fingerprint(built)
	require.NoError(t, err)
	b, err := Fingerprint(decoded)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestEncodeRoundTrip(t *testing.T) {
	g := buildLocomotion(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(g, back))
}

func TestFingerprintChangesWithContent(t *testing.T) {
	g := buildLocomotion(t)
	before, err := Fingerprint(g)
	require.NoError(t, err)

	g.Nodes[5].StateTransition.Duration = 0.3
	after, err := Fingerprint(g)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestClipDefaults(t *testing.T) {
	g := buildLocomotion(t)
	c := g.Nodes[0].Clip
	assert.True(t, c.LoopEnabled())
	assert.True(t, c.SyncEnabled())
	assert.False(t, c.Reversed)
	assert.Equal(t, "idle", g.StringAt(c.Clip))
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("name: x\nroot: 0\nnodez: []\n"))
	assert.Error(t, err)
}

func TestValidateRejectsMalformedGraphs(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder) NodeID
		want  string
	}{
		{
			name: "blend pose is a value node",
			build: func(b *Builder) NodeID {
				f := b.Param("f")
				return b.Blend(f, []NodeID{f}, []float32{0})
			},
			want: "want pose",
		},
		{
			name: "empty blend list",
			build: func(b *Builder) NodeID {
				return b.Blend(b.Param("f"), nil, []float32{0})
			},
			want: "empty",
		},
		{
			name: "factor count mismatch",
			build: func(b *Builder) NodeID {
				return b.Blend(b.Param("f"), []NodeID{b.Clip("a"), b.Clip("b")}, []float32{0})
			},
			want: "factors",
		},
		{
			name: "duplicate factor",
			build: func(b *Builder) NodeID {
				return b.Blend(b.Param("f"), []NodeID{b.Clip("a"), b.Clip("b")}, []float32{1, 1})
			},
			want: "duplicate",
		},
		{
			name: "unknown comparison",
			build: func(b *Builder) NodeID {
				return b.Blend(b.Compare("f", "=~", 1), []NodeID{b.Clip("a")}, []float32{0})
			},
			want: "unknown comparison",
		},
		{
			name: "out of range child",
			build: func(b *Builder) NodeID {
				return b.Sum(b.Clip("a"), 99)
			},
			want: "out of range",
		},
		{
			name: "transition condition is a pose",
			build: func(b *Builder) NodeID {
				idle := b.State("Idle", b.Clip("idle"))
				walk := b.State("Walk", b.Clip("walk"))
				b.Transition(idle, walk, b.Clip("oops"), 0.2)
				return b.StateMachine(idle, walk)
			},
			want: "want value",
		},
		{
			name: "transition leaves its machine",
			build: func(b *Builder) NodeID {
				idle := b.State("Idle", b.Clip("idle"))
				other := b.State("Other", b.Clip("other"))
				b.Transition(idle, other, b.Param("go"), 0.2)
				b.StateMachine(other)
				return b.StateMachine(idle)
			},
			want: "leaves state machine",
		},
		{
			name: "orphan state",
			build: func(b *Builder) NodeID {
				b.State("Lost", b.Clip("idle"))
				return b.Clip("idle")
			},
			want: "not listed",
		},
		{
			name: "root is a state",
			build: func(b *Builder) NodeID {
				s := b.State("Idle", b.Clip("idle"))
				b.StateMachine(s)
				return s
			},
			want: "root",
		},
		{
			name: "non-positive transition duration",
			build: func(b *Builder) NodeID {
				idle := b.State("Idle", b.Clip("idle"))
				walk := b.State("Walk", b.Clip("walk"))
				b.Transition(idle, walk, b.Param("go"), 0)
				return b.StateMachine(idle, walk)
			},
			want: "Duration",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder("bad")
			_, err := b.Root(tc.build(b)).Build()
			require.ErrorIs(t, err, ErrMalformedGraph)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidateRejectsCycles(t *testing.T) {
	g := &Graph{
		Name:       "cycle",
		Root:       0,
		ChildLists: [][]NodeID{{1}, {0}},
		Nodes: []Node{
			{Kind: KindRandom, Random: &RandomNode{Children: 0}},
			{Kind: KindRandom, Random: &RandomNode{Children: 1}},
		},
	}
	err := Validate(g)
	require.ErrorIs(t, err, ErrMalformedGraph)
	assert.Contains(t, err.Error(), "cycle")
}

func TestValidateRejectsMismatchedPayload(t *testing.T) {
	g := &Graph{
		Name:    "mismatch",
		Strings: []string{"a"},
		Nodes:   []Node{{Kind: KindClip, Sum: &SumNode{}}},
	}
	assert.ErrorIs(t, Validate(g), ErrMalformedGraph)
}
