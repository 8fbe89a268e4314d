package resource

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/loader"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// ManagerBuilderOption is a functional option for configuring a Manager via NewManager.
type ManagerBuilderOption func(*manager)

// WithLoader is an option builder that sets the Loader used by LoadFile and LoadFiles.
//
// Parameters:
//   - l: the model loader
//
// Returns:
//   - ManagerBuilderOption: a function that applies the loader option to a manager
func WithLoader(l loader.Loader) ManagerBuilderOption {
	return func(m *manager) {
		m.loader = l
	}
}

// WithLogger is an option builder that sets the manager's logger.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - ManagerBuilderOption: a function that applies the logger option to a manager
func WithLogger(logger *slog.Logger) ManagerBuilderOption {
	return func(m *manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithConcurrency is an option builder that bounds how many files LoadFiles imports at once.
//
// Parameters:
//   - n: the maximum number of concurrent imports; values below 1 are ignored
//
// Returns:
//   - ManagerBuilderOption: a function that applies the concurrency option to a manager
func WithConcurrency(n int) ManagerBuilderOption {
	return func(m *manager) {
		if n > 0 {
			m.concurrency = n
		}
	}
}

// WithClip is an option builder that pre-registers a clip under its name.
//
// Parameters:
//   - clip: the clip to register; nil or unnamed clips are ignored
//
// Returns:
//   - ManagerBuilderOption: a function that applies the clip option to a manager
func WithClip(clip *model.AnimationClip) ManagerBuilderOption {
	return func(m *manager) {
		if clip != nil && clip.Name != "" {
			m.clips[ClipHandle(clip.Name)] = clip
		}
	}
}

// WithSkeleton is an option builder that pre-registers a skeleton under its name.
//
// Parameters:
//   - s: the skeleton to register; nil or unnamed skeletons are ignored
//
// Returns:
//   - ManagerBuilderOption: a function that applies the skeleton option to a manager
func WithSkeleton(s *model.Skeleton) ManagerBuilderOption {
	return func(m *manager) {
		if s != nil && s.Name != "" {
			m.skeletons[s.Name] = s
		}
	}
}
