package anim_graph

import (
	"fmt"
	"math/rand/v2"
)

// stackFrame carries the playback parameters a subtree inherits.
type stackFrame struct {
	// Speed is the time step scaled by every enclosing Playback multiplier.
	Speed float32

	// SyncEnabled makes Sync-flagged nodes adopt SyncPhase.
	SyncEnabled bool

	// SyncPhase is the broadcast master phase.
	SyncPhase float32
}

// playerContext is the per-player evaluation state threaded through both passes.
type playerContext struct {
	frame stackFrame

	jobs      []Job
	tick      uint32
	slotCount uint32

	params *ParameterSet

	rng *rand.Rand
}

// enter installs f and returns the frame it replaced. Pair with restore:
//
//	defer ctx.restore(ctx.enter(f))
func (c *playerContext) enter(f stackFrame) stackFrame {
	prev := c.frame
	c.frame = f
	return prev
}

func (c *playerContext) restore(prev stackFrame) {
	c.frame = prev
}

// claimSlots reserves n consecutive saved-pose slots.
func (c *playerContext) claimSlots(n uint32) uint32 {
	first := c.slotCount
	c.slotCount += n
	return first
}

// valueContext is what a value node may observe while being computed.
type valueContext struct {
	params *ParameterSet

	// probing is set while a state machine tests transition conditions at a state phase.
	probing bool

	// probe is the state phase under test.
	probe float32

	// reversed is set when the probed state is playing backwards.
	reversed bool
}

func (c *playerContext) plainValues() valueContext {
	return valueContext{params: c.params}
}

func (c *playerContext) probeValues(phase float32, reversed bool) valueContext {
	return valueContext{params: c.params, probing: true, probe: phase, reversed: reversed}
}

// checkHandle panics when h does not address an already emitted job.
func (c *playerContext) checkHandle(h JobHandle) {
	if h < 0 || int(h) >= len(c.jobs) {
		panic(fmt.Sprintf("anim_graph: job handle %d outside queue of %d jobs", h, len(c.jobs)))
	}
}
