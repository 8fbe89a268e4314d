package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/anim_graph"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/loader"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/profiler"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"

	"github.com/spf13/cobra"
)

// defaultClipSeconds is the duration of synthetic clips not named by --clip.
const defaultClipSeconds = 1

type simulateOptions struct {
	ticks int
	dt    float32
	sets  []string
	clips []string
	model string
	seed  uint64
}

func newSimulateCmd() *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate <graph.yaml>",
		Short: "Tick a graph and print each tick's states and job kinds",
		Long: `Tick a graph with a parameter schedule and print one line per tick.

Without --model every clip the graph references is a synthetic clip on a one bone
skeleton; --clip sets its duration. With --model the skeleton and clips are imported
from a glTF or GLB file.`,
		Example: `  animgraph simulate locomotion.yaml --ticks 40 --set 21:Speed=1 --clip idle=2 --clip walk=1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.ticks, "ticks", 60, "number of ticks to evaluate")
	f.Float32Var(&opts.dt, "dt", 1.0/30, "seconds per tick")
	f.StringArrayVar(&opts.sets, "set", nil, "parameter write TICK:NAME=VALUE, repeatable")
	f.StringArrayVar(&opts.clips, "clip", nil, "synthetic clip duration NAME=SECONDS, repeatable")
	f.StringVar(&opts.model, "model", "", "glTF or GLB file providing the skeleton and clips")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for random nodes")
	return cmd
}

func runSimulate(cmd *cobra.Command, path string, opts simulateOptions) error {
	if opts.ticks < 0 {
		return errors.New("--ticks must not be negative")
	}
	g, err := graph_asset.Load(path)
	if err != nil {
		return err
	}
	sched, err := parseSchedule(opts.sets)
	if err != nil {
		return err
	}

	logger := slog.Default()
	var (
		mgr      resource.Manager
		skeleton *model.Skeleton
	)
	if opts.model != "" {
		mgr = resource.NewManager(
			resource.WithLoader(loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger))),
			resource.WithLogger(logger),
		)
		set, err := mgr.LoadFile(cmd.Context(), opts.model)
		if err != nil {
			return err
		}
		if set.Skeleton == nil {
			return fmt.Errorf("%s: no skin to animate", opts.model)
		}
		skeleton = set.Skeleton
	} else {
		durations, err := parseClipDurations(opts.clips)
		if err != nil {
			return err
		}
		mgr, skeleton, err = syntheticResources(g, durations, logger)
		if err != nil {
			return err
		}
	}

	popts := []anim_graph.AnimationPlayerBuilderOption{
		anim_graph.WithLogger(logger),
		anim_graph.WithProfiler(profiler.NewProfiler(profiler.WithLogger(logger))),
	}
	if cmd.Flags().Changed("seed") {
		popts = append(popts, anim_graph.WithSeed(opts.seed))
	}
	player, err := anim_graph.NewAnimationPlayer(g, skeleton, mgr, popts...)
	if err != nil {
		return err
	}

	return simulate(cmd.OutOrStdout(), player, sched, opts.ticks, opts.dt, pose.NewRestPose(skeleton))
}

// simulate ticks player and writes one line per tick: index, machine states and job kinds.
func simulate(w io.Writer, player anim_graph.AnimationPlayer, sched schedule, ticks int, dt float32, out *pose.Pose) error {
	params := anim_graph.NewParameterSet()
	for tick := 1; tick <= ticks; tick++ {
		sched.apply(tick, params)
		player.Tick(dt, params, out)

		states := player.CurrentStates()
		if len(states) == 0 {
			states = []string{"-"}
		}
		jobs := player.Jobs()
		kinds := make([]string, len(jobs))
		for k, j := range jobs {
			kinds[k] = j.Kind.String()
		}
		if _, err := fmt.Fprintf(w, "%4d  %-24s %s\n", tick, strings.Join(states, ","), strings.Join(kinds, " ")); err != nil {
			return err
		}
	}
	return nil
}

// syntheticResources builds a one bone skeleton and a constant clip for every clip
// the graph references.
func syntheticResources(g *graph_asset.Graph, durations map[string]float32, logger *slog.Logger) (resource.Manager, *model.Skeleton, error) {
	skeleton, err := model.NewSkeleton("synthetic", []model.Bone{
		{Name: "root", ParentIndex: -1, RestTransform: model.IdentityTransform()},
	})
	if err != nil {
		return nil, nil, err
	}
	mgr := resource.NewManager(resource.WithSkeleton(skeleton), resource.WithLogger(logger))

	names := clipNames(g)
	for _, name := range names {
		d, ok := durations[name]
		if !ok {
			d = defaultClipSeconds
		}
		clip := &model.AnimationClip{
			Name:           name,
			Duration:       d,
			TicksPerSecond: 1,
			Channels: []model.AnimationChannel{{
				BoneIndex:    0,
				PositionKeys: []model.VectorKeyframe{{Time: 0, Value: [3]float32{0, 0, 0}}},
			}},
		}
		if _, err := mgr.RegisterClip(clip); err != nil {
			return nil, nil, err
		}
	}
	for name := range durations {
		if !slices.Contains(names, name) {
			logger.Warn("clip not referenced by the graph", "clip", name)
		}
	}
	return mgr, skeleton, nil
}

// clipNames returns the distinct clip names referenced by clip nodes, sorted.
func clipNames(g *graph_asset.Graph) []string {
	var names []string
	for i := range g.Nodes {
		if c := g.Nodes[i].Clip; c != nil {
			names = append(names, g.StringAt(c.Clip))
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}
