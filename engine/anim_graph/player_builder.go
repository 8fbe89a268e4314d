package anim_graph

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/profiler"

	"github.com/google/uuid"
)

// AnimationPlayerBuilderOption is a functional option for configuring an AnimationPlayer
// via NewAnimationPlayer.
type AnimationPlayerBuilderOption func(*animationPlayer)

// WithLogger sets the logger used for transition and missing clip events.
// The player adds player_id and graph attributes to it.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - AnimationPlayerBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) AnimationPlayerBuilderOption {
	return func(p *animationPlayer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSeed makes Random node selection reproducible.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - AnimationPlayerBuilderOption: option function to apply
func WithSeed(seed uint64) AnimationPlayerBuilderOption {
	return func(p *animationPlayer) {
		p.seed = seed
		p.seeded = true
	}
}

// WithProfiler reports every tick and missing clip sample to prof.
//
// Parameters:
//   - prof: the profiler, which may be shared between players
//
// Returns:
//   - AnimationPlayerBuilderOption: option function to apply
func WithProfiler(prof profiler.Profiler) AnimationPlayerBuilderOption {
	return func(p *animationPlayer) {
		p.profiler = prof
	}
}

// WithName overrides the graph name used in logs and metrics.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - AnimationPlayerBuilderOption: option function to apply
func WithName(name string) AnimationPlayerBuilderOption {
	return func(p *animationPlayer) {
		if name != "" {
			p.name = name
		}
	}
}

// WithID sets the player ID instead of generating one.
//
// Parameters:
//   - id: the player ID
//
// Returns:
//   - AnimationPlayerBuilderOption: option function to apply
func WithID(id uuid.UUID) AnimationPlayerBuilderOption {
	return func(p *animationPlayer) {
		p.id = id
	}
}
