package anim_graph

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPosesEndpointsAndSegments(t *testing.T) {
	poses := []nodeIndex{10, 11, 12, 13}
	factors := []float32{-1, 0, 0.5, 2}

	for k, f := range factors {
		got := selectPoses(poses, factors, f)
		assert.Equal(t, blendSelection{first: poses[k], second: noNode}, got, "exact factor %g", f)
	}

	tests := []struct {
		f    float32
		want blendSelection
	}{
		{f: -5, want: blendSelection{first: 10, second: noNode}},
		{f: 9, want: blendSelection{first: 13, second: noNode}},
		{f: float32(math.NaN()), want: blendSelection{first: 10, second: noNode}},
		{f: -0.5, want: blendSelection{first: 10, second: 11, weight: 0.5}},
		{f: 0.125, want: blendSelection{first: 11, second: 12, weight: 0.25}},
		{f: 1.25, want: blendSelection{first: 12, second: 13, weight: 0.5}},
	}
	for _, tc := range tests {
		got := selectPoses(poses, factors, tc.f)
		assert.Equal(t, tc.want, got, "factor %g", tc.f)
	}

	for f := float32(0.01); f < 0.5; f += 0.01 {
		s := selectPoses(poses, factors, f)
		assert.Equal(t, nodeIndex(11), s.first)
		assert.Equal(t, nodeIndex(12), s.second)
		assert.Greater(t, s.weight, float32(0))
		assert.Less(t, s.weight, float32(1))
		assert.InDelta(t, f/0.5, s.weight, 1e-6)
	}
}

func TestBlendNodeOutput(t *testing.T) {
	var blend graph_asset.NodeID
	g := buildGraph(t, "blend", func(b *graph_asset.Builder) graph_asset.NodeID {
		// declared out of order; the player sorts by factor
		blend = b.Blend(b.Param("f"),
			[]graph_asset.NodeID{b.Clip("run"), b.Clip("walk")},
			[]float32{1, 0})
		return blend
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("walk", 1, 0), holdClip("run", 3, 10)})
	out := newOut(p)
	params := NewParameterSet()

	params.SetFloat("f", 0.25)
	p.Tick(0.1, params, out)
	assert.InDelta(t, 2.5, out.Translations[0][0], 1e-5)
	assert.Equal(t, []JobKind{JobSample, JobSample, JobBlend}, jobKinds(p.Jobs()))
	assert.InDelta(t, 1.5, p.nodes[blend].pose.duration, 1e-6)

	params.SetFloat("f", 1)
	p.Tick(0.1, params, out)
	assert.InDelta(t, 10, out.Translations[0][0], 1e-5)
	assert.Equal(t, []JobKind{JobSample}, jobKinds(p.Jobs()))
	assert.Equal(t, resource.ClipHandle("run"), p.Jobs()[0].Clip)
	assert.Equal(t, float32(3), p.nodes[blend].pose.duration)
}

func TestBlendSelectionCachedWhileFactorUnchanged(t *testing.T) {
	var blend graph_asset.NodeID
	g := buildGraph(t, "cache", func(b *graph_asset.Builder) graph_asset.NodeID {
		blend = b.Blend(b.Param("f"), []graph_asset.NodeID{b.Clip("a"), b.Clip("b")}, []float32{0, 1})
		return blend
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("a", 1, 0), holdClip("b", 1, 1)})
	params := NewParameterSet()
	params.SetFloat("f", 0.5)
	p.Tick(0.1, params, nil)

	bn := p.nodes[blend].blend
	bn.selection.weight = 0.9
	p.Tick(0.1, params, nil)
	assert.Equal(t, float32(0.9), bn.selection.weight, "unchanged factor must not reselect")

	params.SetFloat("f", 0.25)
	p.Tick(0.1, params, nil)
	assert.Equal(t, float32(0.25), bn.selection.weight)
	assert.Equal(t, float32(0.25), bn.prevFactor)
}

func TestSumAddsRelativeToRest(t *testing.T) {
	g := buildGraph(t, "sum", func(b *graph_asset.Builder) graph_asset.NodeID {
		return b.Sum(b.Clip("base"), b.Clip("lean"))
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("base", 1, 1), holdClip("lean", 2, 2)})
	out := newOut(p)
	p.Tick(0.1, nil, out)

	assert.InDelta(t, 3, out.Translations[0][0], 1e-5)
	jobs := p.Jobs()
	if diff := cmp.Diff([]JobKind{JobSample, JobSample, JobSum}, jobKinds(jobs)); diff != "" {
		t.Fatalf("job kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, JobHandle(0), jobs[2].A)
	assert.Equal(t, JobHandle(1), jobs[2].B)
	assert.Equal(t, JobHandle(2), p.RootJob())
}

func TestRandomRerollsWhenChildFinishes(t *testing.T) {
	var random graph_asset.NodeID
	var children []graph_asset.NodeID
	g := buildGraph(t, "random", func(b *graph_asset.Builder) graph_asset.NodeID {
		children = []graph_asset.NodeID{b.Clip("a", graph_asset.NoLoop()), b.Clip("b", graph_asset.NoLoop())}
		random = b.Random(children...)
		return random
	})
	clips := []*model.AnimationClip{holdClip("a", 1, 0), holdClip("b", 1, 1)}

	run := func() []nodeIndex {
		p := newTestPlayer(t, g, clips, WithSeed(42))
		var picks []nodeIndex
		for k := range 30 {
			p.Tick(0.125, nil, nil)
			sel := p.nodes[random].random.selected
			assert.Contains(t, []nodeIndex{nodeIndex(children[0]), nodeIndex(children[1])}, sel)
			assert.Equal(t, sel, p.nodes[random].pose.copySource)

			// 8 steps of 0.125 reach phase 1; the tick after starts a new pick at 0
			if k%9 == 0 {
				assert.Equal(t, float32(0), p.nodes[sel].pose.phase, "tick %d", k)
				picks = append(picks, sel)
			} else {
				assert.Greater(t, p.nodes[sel].pose.phase, float32(0), "tick %d", k)
			}
		}
		return picks
	}

	first := run()
	assert.Len(t, first, 4)
	assert.Equal(t, first, run(), "same seed, same picks")
}

func TestSharedNodeTicksOncePerTick(t *testing.T) {
	var clip graph_asset.NodeID
	g := buildGraph(t, "shared", func(b *graph_asset.Builder) graph_asset.NodeID {
		clip = b.Clip("c", graph_asset.NoSync())
		return b.Sum(clip, clip)
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("c", 1, 1)})
	out := newOut(p)

	for range 4 {
		p.Tick(0.1, nil, out)
	}
	jobs := p.Jobs()
	if diff := cmp.Diff([]JobKind{JobSample, JobSum}, jobKinds(jobs)); diff != "" {
		t.Fatalf("job kinds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, JobHandle(0), jobs[1].A)
	assert.Equal(t, JobHandle(0), jobs[1].B)
	assert.InDelta(t, 0.3, p.nodes[clip].pose.phase, 1e-6, "advanced once per tick")
	assert.InDelta(t, 0.3, jobs[0].Phase, 1e-6)
	assert.InDelta(t, 2, out.Translations[0][0], 1e-5)
}

func TestSharedRandomRollsOncePerTick(t *testing.T) {
	var random graph_asset.NodeID
	g := buildGraph(t, "shared-random", func(b *graph_asset.Builder) graph_asset.NodeID {
		random = b.Random(b.Clip("a", graph_asset.NoLoop()), b.Clip("b", graph_asset.NoLoop()))
		return b.Sum(random, random)
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("a", 0.5, 0), holdClip("b", 0.5, 1)})

	for k := range 12 {
		p.Tick(0.125, nil, nil)
		jobs := p.Jobs()
		require.Equal(t, []JobKind{JobSample, JobSum}, jobKinds(jobs), "tick %d", k)
		assert.Equal(t, jobs[1].A, jobs[1].B)
		assert.InDelta(t, 0.5, p.nodes[random].pose.duration, 1e-6)
	}
}
