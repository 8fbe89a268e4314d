package anim_graph

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipPhaseWrapsAfterWholeDurations(t *testing.T) {
	tests := []struct {
		duration float32
		step     float32
		reversed bool
	}{
		{duration: 1, step: 0.125},
		{duration: 2, step: 0.1},
		{duration: 2, step: 0.1, reversed: true},
		{duration: 0.8, step: 1.0 / 30},
		{duration: 0.8, step: 1.0 / 30, reversed: true},
		{duration: 3, step: 0.5, reversed: true},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("d=%g/dt=%g/rev=%v", tc.duration, tc.step, tc.reversed), func(t *testing.T) {
			var clip graph_asset.NodeID
			g := buildGraph(t, "wrap", func(b *graph_asset.Builder) graph_asset.NodeID {
				var opts []graph_asset.ClipOption
				if tc.reversed {
					opts = append(opts, graph_asset.ReversedClip())
				}
				clip = b.Clip("loop", opts...)
				return clip
			})
			p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("loop", tc.duration, 0)})

			p.Tick(tc.step, nil, nil)
			p.Tick(tc.step, nil, nil)
			start := p.nodes[clip].pose.phase

			// two whole durations
			steps := int(2*tc.duration/tc.step + 0.5)
			for range steps {
				p.Tick(tc.step, nil, nil)
				phase := p.nodes[clip].pose.phase
				require.GreaterOrEqual(t, phase, float32(0))
				require.Less(t, phase, float32(1))
			}
			assert.InDelta(t, 0, circularDistance(start, p.nodes[clip].pose.phase), 1e-4)
		})
	}
}

func TestReversedClipMirrorsForwardAdvance(t *testing.T) {
	for _, loop := range []bool{true, false} {
		t.Run(fmt.Sprintf("loop=%v", loop), func(t *testing.T) {
			phases := func(reversed bool) []float32 {
				var clip graph_asset.NodeID
				g := buildGraph(t, "dir", func(b *graph_asset.Builder) graph_asset.NodeID {
					var opts []graph_asset.ClipOption
					if !loop {
						opts = append(opts, graph_asset.NoLoop())
					}
					if reversed {
						opts = append(opts, graph_asset.ReversedClip())
					}
					clip = b.Clip("c", opts...)
					return clip
				})
				p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("c", 2, 0)})
				var out []float32
				for range 5 {
					p.Tick(0.1, nil, nil)
					out = append(out, p.nodes[clip].pose.phase)
				}
				return out
			}

			fwd := phases(false)
			rev := phases(true)
			assert.Equal(t, float32(0), fwd[0])
			if loop {
				assert.Equal(t, float32(0), rev[0], "reversed looping clips start at 1, which wraps to 0")
			} else {
				assert.Equal(t, float32(1), rev[0])
			}

			for k := 1; k < len(fwd); k++ {
				df := fwd[k] - fwd[k-1]
				dr := rev[k] - rev[k-1]
				if dr > 0.5 {
					dr -= 1
				}
				assert.InDelta(t, 0.05, df, 1e-5)
				assert.InDelta(t, -df, dr, 1e-5)
			}
		})
	}
}

func TestZeroDurationReportsFinished(t *testing.T) {
	var clip graph_asset.NodeID
	g := buildGraph(t, "zero", func(b *graph_asset.Builder) graph_asset.NodeID {
		clip = b.Clip("ghost", graph_asset.NoLoop())
		return clip
	})
	p := newTestPlayer(t, g, nil)
	p.Tick(0.1, nil, nil)

	assert.Zero(t, p.nodes[clip].pose.duration)
	assert.Equal(t, float32(1), p.nextPhaseUnwrapped(nodeIndex(clip)))
}

func TestSyncPhaseReachesEverySyncedDescendant(t *testing.T) {
	var short, long, free, scaled, blend graph_asset.NodeID
	g := buildGraph(t, "sync", func(b *graph_asset.Builder) graph_asset.NodeID {
		short = b.Clip("short")
		long = b.Clip("long")
		free = b.Clip("free", graph_asset.NoSync())
		scaled = b.Playback(long, 3)
		blend = b.Blend(b.Param("f"), []graph_asset.NodeID{short, scaled}, []float32{0, 1})
		return b.Sum(blend, free)
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{
		holdClip("short", 0.5, 0),
		holdClip("long", 4, 1),
		holdClip("free", 1, 0),
	})

	params := NewParameterSet()
	params.SetFloat("f", 0.5)
	for range 6 {
		p.Tick(0.1, params, nil)
		bp := p.nodes[blend].pose.phase
		assert.Equal(t, bp, p.nodes[short].pose.phase)
		assert.Equal(t, bp, p.nodes[long].pose.phase)
	}

	p.ctx.frame = stackFrame{Speed: 0.1, SyncEnabled: true, SyncPhase: 0.37}
	for _, id := range []graph_asset.NodeID{short, long, scaled, blend} {
		assert.Equal(t, float32(0.37), p.nextPhaseUnwrapped(nodeIndex(id)), "node %d", id)
	}
	assert.NotEqual(t, float32(0.37), p.nextPhaseUnwrapped(nodeIndex(free)))
	p.ctx.frame = stackFrame{}
}

func TestPlaybackScalesSubtreeTime(t *testing.T) {
	var fixed, driven graph_asset.NodeID
	g := buildGraph(t, "speed", func(b *graph_asset.Builder) graph_asset.NodeID {
		fixed = b.Clip("a", graph_asset.NoSync())
		driven = b.Clip("b", graph_asset.NoSync())
		return b.Sum(b.Playback(fixed, 2), b.PlaybackBy(driven, b.Param("rate")))
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("a", 1, 0), holdClip("b", 1, 0)})

	params := NewParameterSet()
	params.SetFloat("rate", 0.5)
	p.Tick(0.125, params, nil)
	p.Tick(0.125, params, nil)

	assert.Equal(t, float32(0.25), p.nodes[fixed].pose.phase)
	assert.Equal(t, float32(0.0625), p.nodes[driven].pose.phase)
	assert.Equal(t, stackFrame{Speed: 0.125}, p.ctx.frame)
}

func TestFirstPlayTracksConsecutiveTicks(t *testing.T) {
	var clip graph_asset.NodeID
	g := buildGraph(t, "first", func(b *graph_asset.Builder) graph_asset.NodeID {
		clip = b.Clip("c")
		return clip
	})
	p := newTestPlayer(t, g, []*model.AnimationClip{holdClip("c", 1, 0)})
	i := nodeIndex(clip)

	p.ctx.tick = 1
	assert.True(t, p.isFirstPlay(i))
	p.mark(i)
	assert.False(t, p.isFirstPlay(i))

	p.ctx.tick = 2
	assert.False(t, p.isFirstPlay(i))
	p.ctx.tick = 4
	assert.True(t, p.isFirstPlay(i))

	p.ctx.tick = ^uint32(0)
	p.mark(i)
	p.ctx.tick = 0
	assert.False(t, p.isFirstPlay(i), "tick counter wraparound")

	p.restart(i)
	assert.True(t, p.isFirstPlay(i))
}
