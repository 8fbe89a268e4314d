package anim_graph_test

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/anim_graph"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"
)

func ExampleNewAnimationPlayer() {
	b := graph_asset.NewBuilder("locomotion")
	idle := b.State("Idle", b.Clip("idle"))
	walk := b.State("Walk", b.Clip("walk"))
	b.Transition(idle, walk, b.Compare("Speed", graph_asset.OpGreater, 0.1), 0.2)
	g, err := b.Root(b.StateMachine(idle, walk)).Build()
	if err != nil {
		fmt.Println(err)
		return
	}

	skeleton, err := model.NewSkeleton("rig", []model.Bone{
		{Name: "root", ParentIndex: -1, RestTransform: model.IdentityTransform()},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	clips := resource.NewManager(
		resource.WithClip(&model.AnimationClip{Name: "idle", Duration: 2, TicksPerSecond: 1}),
		resource.WithClip(&model.AnimationClip{Name: "walk", Duration: 1, TicksPerSecond: 1}),
	)

	player, err := anim_graph.NewAnimationPlayer(g, skeleton, clips,
		anim_graph.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		fmt.Println(err)
		return
	}

	params := anim_graph.NewParameterSet()
	params.SetFloat("Speed", 1)
	out := pose.NewRestPose(skeleton)
	for range 2 {
		player.Tick(0.05, params, out)
		var kinds []string
		for _, j := range player.Jobs() {
			kinds = append(kinds, j.Kind.String())
		}
		fmt.Println(player.CurrentStates(), kinds)
	}
	// Output:
	// [Idle->Walk] [Sample Backup Sample Blend Backup]
	// [Idle->Walk] [Restore Sample Blend Backup]
}
