package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/loader"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"

	"golang.org/x/sync/errgroup"
)

// ClipHandle is the opaque key a graph uses to reference an animation clip.
// Handles are clip names; a handle may be referenced before (or after) its clip is loaded.
type ClipHandle string

var (
	// ErrInvalidResource is returned when a nil or unnamed resource is registered.
	ErrInvalidResource = errors.New("invalid resource")
)

// manager is the implementation of the Manager interface.
type manager struct {
	mu sync.RWMutex

	logger      *slog.Logger
	loader      loader.Loader
	concurrency int

	skeletons map[string]*model.Skeleton
	clips     map[ClipHandle]*model.AnimationClip
}

// Manager is a thread-safe registry of skeletons and animation clips.
// Players look clips up on every tick, so lookups may race with loading and unloading.
type Manager interface {
	// RegisterSkeleton adds or replaces a skeleton under its name.
	//
	// Parameters:
	//   - s: the skeleton to register
	//
	// Returns:
	//   - error: ErrInvalidResource if s is nil or unnamed
	RegisterSkeleton(s *model.Skeleton) error

	// Skeleton looks up a skeleton by name.
	//
	// Parameters:
	//   - name: the skeleton name
	//
	// Returns:
	//   - *model.Skeleton: the skeleton, or nil
	//   - bool: whether the skeleton is registered
	Skeleton(name string) (*model.Skeleton, bool)

	// RegisterClip adds or replaces a clip under a handle derived from its name.
	//
	// Parameters:
	//   - clip: the clip to register
	//
	// Returns:
	//   - ClipHandle: the handle the clip is reachable under
	//   - error: ErrInvalidResource if clip is nil or unnamed
	RegisterClip(clip *model.AnimationClip) (ClipHandle, error)

	// Clip resolves a handle. A false result means "not loaded"; players then sample the rest pose.
	//
	// Parameters:
	//   - h: the clip handle
	//
	// Returns:
	//   - *model.AnimationClip: the clip, or nil
	//   - bool: whether the clip is loaded
	Clip(h ClipHandle) (*model.AnimationClip, bool)

	// UnloadClip removes a clip. Graphs referencing it keep running against the rest pose.
	//
	// Parameters:
	//   - h: the clip handle
	//
	// Returns:
	//   - bool: whether a clip was removed
	UnloadClip(h ClipHandle) bool

	// ClipHandles lists the loaded clips in sorted order.
	//
	// Returns:
	//   - []ClipHandle: the handles of every loaded clip
	ClipHandles() []ClipHandle

	// LoadFile imports a model file through the loader and registers its skeleton and clips.
	//
	// Parameters:
	//   - ctx: cancels the load before it starts
	//   - path: the model file path
	//
	// Returns:
	//   - *model.AnimationSet: the imported set
	//   - error: error if no loader is configured or importing fails
	LoadFile(ctx context.Context, path string) (*model.AnimationSet, error)

	// LoadFiles imports several model files concurrently. The first failure cancels the rest.
	//
	// Parameters:
	//   - ctx: the parent context
	//   - paths: the model file paths
	//
	// Returns:
	//   - error: the first import error, if any
	LoadFiles(ctx context.Context, paths ...string) error
}

var _ Manager = &manager{}

// NewManager creates a new resource Manager with the provided options applied.
//
// Parameters:
//   - options: a variadic list of ManagerBuilderOption functions to configure the Manager
//
// Returns:
//   - Manager: a new, empty Manager unless options pre-populate it
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		logger:      slog.Default(),
		concurrency: 4,
		skeletons:   make(map[string]*model.Skeleton),
		clips:       make(map[ClipHandle]*model.AnimationClip),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *manager) RegisterSkeleton(s *model.Skeleton) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("skeleton: %w", ErrInvalidResource)
	}
	m.mu.Lock()
	m.skeletons[s.Name] = s
	m.mu.Unlock()
	return nil
}

func (m *manager) Skeleton(name string) (*model.Skeleton, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.skeletons[name]
	return s, ok
}

func (m *manager) RegisterClip(clip *model.AnimationClip) (ClipHandle, error) {
	if clip == nil || clip.Name == "" {
		return "", fmt.Errorf("clip: %w", ErrInvalidResource)
	}
	h := ClipHandle(clip.Name)

	m.mu.Lock()
	_, replaced := m.clips[h]
	m.clips[h] = clip
	m.mu.Unlock()

	if replaced {
		m.logger.Debug("clip replaced", "clip", h)
	}
	return h, nil
}

func (m *manager) Clip(h ClipHandle) (*model.AnimationClip, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clips[h]
	return c, ok
}

func (m *manager) UnloadClip(h ClipHandle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clips[h]; !ok {
		return false
	}
	delete(m.clips, h)
	return true
}

func (m *manager) ClipHandles() []ClipHandle {
	m.mu.RLock()
	handles := make([]ClipHandle, 0, len(m.clips))
	for h := range m.clips {
		handles = append(handles, h)
	}
	m.mu.RUnlock()
	slices.Sort(handles)
	return handles
}

func (m *manager) LoadFile(ctx context.Context, path string) (*model.AnimationSet, error) {
	if m.loader == nil {
		return nil, fmt.Errorf("load %s: no loader configured", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := m.loader.Load(path)
	if err != nil {
		return nil, err
	}

	if set.Skeleton != nil {
		if err := m.RegisterSkeleton(set.Skeleton); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	for _, clip := range set.Clips {
		if _, err := m.RegisterClip(clip); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	m.logger.Info("resources loaded", "path", path, "clips", len(set.Clips))
	return set, nil
}

func (m *manager) LoadFiles(ctx context.Context, paths ...string) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, path := range paths {
		g.Go(func() error {
			_, err := m.LoadFile(gCtx, path)
			return err
		})
	}
	return g.Wait()
}
