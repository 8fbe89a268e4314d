package anim_graph

import (
	"io"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSkeleton(t *testing.T) *model.Skeleton {
	t.Helper()
	s, err := model.NewSkeleton("rig", []model.Bone{
		{Name: "root", ParentIndex: -1, RestTransform: model.IdentityTransform()},
	})
	require.NoError(t, err)
	return s
}

// holdClip keeps the root joint at x for its whole duration, so a pose's x translation
// tells which clips contributed to it.
func holdClip(name string, duration, x float32) *model.AnimationClip {
	return &model.AnimationClip{
		Name:           name,
		Duration:       duration,
		TicksPerSecond: 1,
		Channels: []model.AnimationChannel{{
			BoneIndex: 0,
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: [3]float32{x, 0, 0}},
				{Time: duration, Value: [3]float32{x, 0, 0}},
			},
		}},
	}
}

func newTestPlayer(t *testing.T, g *graph_asset.Graph, clips []*model.AnimationClip, opts ...AnimationPlayerBuilderOption) *animationPlayer {
	t.Helper()
	mopts := make([]resource.ManagerBuilderOption, 0, len(clips))
	for _, c := range clips {
		mopts = append(mopts, resource.WithClip(c))
	}
	opts = append([]AnimationPlayerBuilderOption{WithSeed(7), WithLogger(discardLogger())}, opts...)
	pl, err := NewAnimationPlayer(g, testSkeleton(t), resource.NewManager(mopts...), opts...)
	require.NoError(t, err)
	return pl.(*animationPlayer)
}

func buildGraph(t *testing.T, name string, f func(b *graph_asset.Builder) graph_asset.NodeID) *graph_asset.Graph {
	t.Helper()
	b := graph_asset.NewBuilder(name)
	g, err := b.Root(f(b)).Build()
	require.NoError(t, err)
	return g
}

func jobKinds(jobs []Job) []JobKind {
	out := make([]JobKind, len(jobs))
	for k, j := range jobs {
		out[k] = j.Kind
	}
	return out
}

func newOut(p *animationPlayer) *pose.Pose {
	return pose.NewPose(p.skeleton.JointCount())
}

// circularDistance is the distance between two phases on the unit circle.
func circularDistance(a, b float32) float32 {
	d := a - b
	if d < 0 {
		d = -d
	}
	for d >= 1 {
		d--
	}
	return min(d, 1-d)
}
