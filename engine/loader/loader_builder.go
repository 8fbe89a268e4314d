package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger used for import diagnostics.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSkinIndex is an option builder that selects which glTF skin becomes the skeleton.
// The default is the first skin.
//
// Parameters:
//   - index: the skin index
//
// Returns:
//   - LoaderBuilderOption: a function that applies the skin option to a loader
func WithSkinIndex(index int) LoaderBuilderOption {
	return func(l *loader) {
		l.opts.skinIndex = index
	}
}

// WithSkeletonName is an option builder that overrides the name given to imported skeletons.
//
// Parameters:
//   - name: the skeleton name
//
// Returns:
//   - LoaderBuilderOption: a function that applies the name option to a loader
func WithSkeletonName(name string) LoaderBuilderOption {
	return func(l *loader) {
		l.opts.skeletonName = name
	}
}

// WithSkeletonOnly is an option builder that skips clip extraction.
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithSkeletonOnly() LoaderBuilderOption {
	return func(l *loader) {
		l.opts.skipClips = true
	}
}

// WithAnimationSet is an option builder that pre-populates the cache with a set.
//
// Parameters:
//   - key: the cache key for the set
//   - set: the set to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache option to a loader
func WithAnimationSet(key string, set *model.AnimationSet) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[key] = set
	}
}
