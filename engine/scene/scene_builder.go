package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/anim_graph"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene ticks its players. Scenes start active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithPlayers adds initial players to the scene, each with an empty parameter set.
// IDs are assigned in argument order starting at 1.
//
// Parameters:
//   - players: the players to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPlayers(players ...anim_graph.AnimationPlayer) SceneBuilderOption {
	return func(s *scene) {
		for _, p := range players {
			s.add(p, nil)
		}
	}
}

// WithTickWorkers sets the number of worker goroutines Tick fans players out to.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of tick workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithTickWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.tickWorkers = n
	}
}

// WithLogger sets the logger used for player registration and tick failures.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
