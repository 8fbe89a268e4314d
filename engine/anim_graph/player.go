// Package anim_graph evaluates animation graphs. A player walks its node arena twice per
// tick, first settling durations and state machine decisions, then emitting a queue of
// deferred pose jobs that the mixer executes in order to produce the output pose.
package anim_graph

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/profiler"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"

	"github.com/google/uuid"
)

var (
	// ErrMalformedGraph is returned when the cooked graph fails validation.
	ErrMalformedGraph = graph_asset.ErrMalformedGraph

	// ErrMissingSkeleton is returned when a player is built without a skeleton.
	ErrMissingSkeleton = errors.New("missing skeleton")

	// ErrMissingClipProvider is returned when a player is built without a clip provider.
	ErrMissingClipProvider = errors.New("missing clip provider")
)

// ClipProvider resolves clip handles to loaded clips. resource.Manager satisfies it.
type ClipProvider interface {
	// Clip resolves a handle.
	//
	// Parameters:
	//   - h: the clip handle
	//
	// Returns:
	//   - *model.AnimationClip: the clip, or nil
	//   - bool: false when the clip is not loaded
	Clip(h resource.ClipHandle) (*model.AnimationClip, bool)
}

// animationPlayer is the implementation of the AnimationPlayer interface.
type animationPlayer struct {
	id       uuid.UUID
	name     string
	logger   *slog.Logger
	profiler profiler.Profiler
	seed     uint64
	seeded   bool

	skeleton *model.Skeleton
	clips    ClipProvider

	nodes    []node
	root     nodeIndex
	machines []nodeIndex

	ctx     playerContext
	rootJob JobHandle

	rest    *pose.Pose
	pool    *pose.Pool
	slots   []*pose.Pose
	outputs []*pose.Pose
	layers  [2]pose.Layer
	missing map[resource.ClipHandle]struct{}
}

// AnimationPlayer evaluates one cooked graph against one skeleton.
// A player is not safe for concurrent use; distinct players may be ticked concurrently.
type AnimationPlayer interface {
	// ID returns the unique identifier of the player.
	//
	// Returns:
	//   - uuid.UUID: the player ID
	ID() uuid.UUID

	// Name returns the name of the graph the player evaluates.
	//
	// Returns:
	//   - string: the graph name
	Name() string

	// Tick advances the graph by timeStep seconds and writes the resulting pose into out.
	// A nil out evaluates the graph without copying the result.
	//
	// Parameters:
	//   - timeStep: the elapsed time in seconds
	//   - params: the parameter set read by value nodes; nil reads every parameter as unset
	//   - out: the caller-owned pose sized for the player's skeleton
	Tick(timeStep float32, params *ParameterSet, out *pose.Pose)

	// Jobs returns a copy of the job queue emitted by the last tick.
	//
	// Returns:
	//   - []Job: the jobs in execution order
	Jobs() []Job

	// RootJob returns the handle of the job holding the last tick's output pose.
	//
	// Returns:
	//   - JobHandle: the root job, or InvalidJob before the first tick
	RootJob() JobHandle

	// TickIndex returns the number of ticks evaluated so far, wrapping at the uint32 range.
	//
	// Returns:
	//   - uint32: the tick index
	TickIndex() uint32

	// CurrentStates reports the active node of every state machine in graph order:
	// the state name, or "Source->Destination" while a transition runs.
	//
	// Returns:
	//   - []string: one entry per state machine
	CurrentStates() []string

	// SavedPoseSlotCount returns how many saved-pose slots transitions have claimed.
	//
	// Returns:
	//   - uint32: the slot count
	SavedPoseSlotCount() uint32

	// Skeleton returns the skeleton the player animates.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton
	Skeleton() *model.Skeleton
}

var _ AnimationPlayer = &animationPlayer{}

// NewAnimationPlayer builds a player from a cooked graph. The graph is validated and
// resolved into the player's node arena; it is not referenced afterwards.
//
// Parameters:
//   - graph: the cooked graph
//   - skeleton: the skeleton to animate
//   - clips: resolves the clip handles the graph references
//   - options: a variadic list of AnimationPlayerBuilderOption functions
//
// Returns:
//   - AnimationPlayer: the ready-to-tick player
//   - error: an error wrapping ErrMalformedGraph, ErrMissingSkeleton or ErrMissingClipProvider
func NewAnimationPlayer(graph *graph_asset.Graph, skeleton *model.Skeleton, clips ClipProvider, options ...AnimationPlayerBuilderOption) (AnimationPlayer, error) {
	if skeleton == nil {
		return nil, fmt.Errorf("new animation player: %w", ErrMissingSkeleton)
	}
	if clips == nil {
		return nil, fmt.Errorf("new animation player: %w", ErrMissingClipProvider)
	}
	if err := graph_asset.Validate(graph); err != nil {
		return nil, fmt.Errorf("new animation player: %w", err)
	}

	p := &animationPlayer{
		id:       uuid.New(),
		name:     graph.Name,
		logger:   slog.Default(),
		skeleton: skeleton,
		clips:    clips,
		rootJob:  InvalidJob,
		missing:  make(map[resource.ClipHandle]struct{}),
	}
	for _, opt := range options {
		opt(p)
	}
	if !p.seeded {
		p.seed = rand.Uint64()
	}
	p.ctx.rng = rand.New(rand.NewPCG(p.seed, p.seed^0x9e3779b97f4a7c15))
	p.logger = p.logger.With("player_id", p.id.String(), "graph", p.name)

	if err := p.build(graph); err != nil {
		return nil, fmt.Errorf("new animation player %q: %w", p.name, err)
	}

	p.rest = pose.NewRestPose(skeleton)
	p.pool = pose.NewPool(skeleton.JointCount())

	p.logger.Debug("animation player built",
		"nodes", len(p.nodes),
		"root", p.nodes[p.root].kind.String(),
		"state_machines", len(p.machines),
	)
	return p, nil
}

func (p *animationPlayer) ID() uuid.UUID {
	return p.id
}

func (p *animationPlayer) Name() string {
	return p.name
}

func (p *animationPlayer) Tick(timeStep float32, params *ParameterSet, out *pose.Pose) {
	start := time.Now()
	p.rootJob = p.evaluate(timeStep, params)
	p.mix(out, p.rootJob)
	if p.profiler != nil {
		p.profiler.RecordTick(p.name, len(p.ctx.jobs), time.Since(start))
	}
}

func (p *animationPlayer) Jobs() []Job {
	return slices.Clone(p.ctx.jobs)
}

func (p *animationPlayer) RootJob() JobHandle {
	return p.rootJob
}

func (p *animationPlayer) TickIndex() uint32 {
	return p.ctx.tick
}

func (p *animationPlayer) CurrentStates() []string {
	out := make([]string, 0, len(p.machines))
	for _, mi := range p.machines {
		out = append(out, p.describe(p.nodes[mi].machine.current))
	}
	return out
}

func (p *animationPlayer) describe(i nodeIndex) string {
	if i == noNode {
		return ""
	}
	n := &p.nodes[i]
	switch n.kind {
	case NodeKindState:
		return n.state.name
	case NodeKindStateTransition:
		return p.describe(n.transition.currentSource) + "->" + p.describe(n.transition.currentDestination)
	}
	return n.kind.String()
}

func (p *animationPlayer) SavedPoseSlotCount() uint32 {
	return p.ctx.slotCount
}

func (p *animationPlayer) Skeleton() *model.Skeleton {
	return p.skeleton
}
