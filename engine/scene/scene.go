package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/anim_graph"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
)

// ErrClosed is returned by Tick after Close.
var ErrClosed = errors.New("scene closed")

// Scene ticks a collection of animation players as one batch, fanning the players out
// over a pool of reusable workers. Each player owns a parameter set and an output pose
// sized for its skeleton.
// Scenes can be hot-swapped via the Active flag; an inactive scene ignores Tick.
// Thread-safe for concurrent access, but parameter sets must not be written while a
// Tick is in flight.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently ticking its players.
	Active() bool

	// SetActive sets whether this scene ticks its players.
	SetActive(active bool)

	// Add registers a player with the scene.
	//
	// Parameters:
	//   - player: the player to tick
	//   - params: the player's parameter set; nil allocates an empty one
	//
	// Returns:
	//   - uint64: the ID assigned to the player within this scene
	Add(player anim_graph.AnimationPlayer, params *anim_graph.ParameterSet) uint64

	// Remove unregisters a player.
	//
	// Parameters:
	//   - id: the ID returned by Add
	//
	// Returns:
	//   - bool: false if no player has that ID
	Remove(id uint64) bool

	// Player looks up a registered player.
	//
	// Parameters:
	//   - id: the ID returned by Add
	//
	// Returns:
	//   - anim_graph.AnimationPlayer: the player
	//   - bool: false if no player has that ID
	Player(id uint64) (anim_graph.AnimationPlayer, bool)

	// Params returns the parameter set the player reads on every tick.
	//
	// Parameters:
	//   - id: the ID returned by Add
	//
	// Returns:
	//   - *anim_graph.ParameterSet: the parameter set, or nil for an unknown ID
	Params(id uint64) *anim_graph.ParameterSet

	// Pose returns the pose written by the player's last tick.
	// The pose is overwritten by the next Tick.
	//
	// Parameters:
	//   - id: the ID returned by Add
	//
	// Returns:
	//   - *pose.Pose: the output pose, or nil for an unknown ID
	Pose(id uint64) *pose.Pose

	// IDs returns the IDs of all registered players in ascending order.
	IDs() []uint64

	// Tick advances every registered player by timeStep seconds and waits for all of them.
	// A player that panics is reported in the returned error; the others still complete.
	//
	// Parameters:
	//   - timeStep: the elapsed time in seconds
	//
	// Returns:
	//   - error: ErrClosed after Close, or the joined failures of individual players
	Tick(timeStep float32) error

	// Close stops the worker pool. The scene cannot be ticked afterwards.
	Close()
}

// entry is one registered player with its per-player state.
type entry struct {
	player anim_graph.AnimationPlayer
	params *anim_graph.ParameterSet
	out    *pose.Pose
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu     *sync.RWMutex
	logger *slog.Logger
	name   string
	active bool
	closed bool

	entries map[uint64]*entry
	order   []uint64
	nextID  uint64

	// tickPool manages a bounded set of reusable goroutines for the per-player work of
	// Tick. Workers persist across frames.
	tickPool    worker.DynamicWorkerPool
	tickWorkers int
	errs        []error
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:          &sync.RWMutex{},
		logger:      slog.Default(),
		name:        name,
		active:      true,
		entries:     make(map[uint64]*entry),
		nextID:      1,
		tickWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the pool after options so WithTickWorkers can override the default.
	s.tickPool = worker.NewDynamicWorkerPool(s.tickWorkers, 256, 1*time.Second)
	s.logger = s.logger.With("scene", s.name)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Add(player anim_graph.AnimationPlayer, params *anim_graph.ParameterSet) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(player, params)
}

// add registers a player. Callers hold the write lock, or own the scene exclusively as
// the builder options do.
func (s *scene) add(player anim_graph.AnimationPlayer, params *anim_graph.ParameterSet) uint64 {
	if params == nil {
		params = anim_graph.NewParameterSet()
	}
	id := s.nextID
	s.nextID++
	s.entries[id] = &entry{
		player: player,
		params: params,
		out:    pose.NewRestPose(player.Skeleton()),
	}
	s.order = append(s.order, id)
	s.logger.Debug("player added", "id", id, "graph", player.Name())
	return id
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return false
	}
	delete(s.entries, id)
	if k := slices.Index(s.order, id); k >= 0 {
		s.order = slices.Delete(s.order, k, k+1)
	}
	s.logger.Debug("player removed", "id", id, "graph", e.player.Name())
	return true
}

func (s *scene) Player(id uint64) (anim_graph.AnimationPlayer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.player, true
}

func (s *scene) Params(id uint64) *anim_graph.ParameterSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return e.params
	}
	return nil
}

func (s *scene) Pose(id uint64) *pose.Pose {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return e.out
	}
	return nil
}

func (s *scene) IDs() []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

func (s *scene) Tick(timeStep float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.active || len(s.order) == 0 {
		return nil
	}

	// Each task writes only its own error slot. A WaitGroup provides the per-frame
	// barrier since pool.Wait() blocks until workers idle-exit.
	s.errs = slices.Grow(s.errs[:0], len(s.order))[:len(s.order)]
	clear(s.errs)
	var wg sync.WaitGroup
	for k, id := range s.order {
		e := s.entries[id]
		wg.Add(1)
		s.tickPool.SubmitTask(worker.Task{
			ID: k,
			Do: func() (any, error) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						s.errs[k] = fmt.Errorf("player %d (%s): %v", id, e.player.Name(), r)
					}
				}()
				e.player.Tick(timeStep, e.params, e.out)
				return nil, nil
			},
		})
	}
	wg.Wait()

	err := errors.Join(s.errs...)
	if err != nil {
		s.logger.Warn("scene tick failed", "error", err)
	}
	return err
}

func (s *scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.tickPool.Stop()
}
