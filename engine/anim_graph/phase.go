package anim_graph

import (
	"github.com/Carmen-Shannon/oxy-animgraph/common"
)

// isFirstPlay reports whether node i starts (or restarts) playing this tick: it was
// neither ticked on the previous tick nor already on this one.
func (p *animationPlayer) isFirstPlay(i nodeIndex) bool {
	ps := &p.nodes[i].pose
	t := p.ctx.tick
	return !ps.played || (ps.lastTick != t && ps.lastTick != t-1)
}

func (p *animationPlayer) mark(i nodeIndex) {
	ps := &p.nodes[i].pose
	ps.lastTick = p.ctx.tick
	ps.played = true
}

// restart makes node i and the subtree it plays through report first play on its next tick.
// Their durations are recomputed on the next visit.
func (p *animationPlayer) restart(i nodeIndex) {
	n := &p.nodes[i]
	n.pose.played = false
	n.pose.durationTick = p.ctx.tick - 1
	switch n.kind {
	case NodeKindPlayback:
		p.restart(n.playback.child)
	case NodeKindState:
		p.restart(n.state.child)
	case NodeKindRandom:
		if n.random.selected != noNode {
			p.restart(n.random.selected)
		}
	}
}

// owner follows copy sources to the node that actually advances i's phase.
func (p *animationPlayer) owner(i nodeIndex) nodeIndex {
	for i != noNode && p.nodes[i].pose.flags&PhaseCopy != 0 {
		i = p.nodes[i].pose.copySource
	}
	return i
}

// phaseOf returns the committed phase of i, resolving copy sources.
func (p *animationPlayer) phaseOf(i nodeIndex) float32 {
	o := p.owner(i)
	if o == noNode {
		return 0
	}
	return p.nodes[o].pose.phase
}

// rateDuration is the time span one full phase covers: the fixed length for
// transitions, the computed duration for everything else.
func (p *animationPlayer) rateDuration(i nodeIndex) float32 {
	n := &p.nodes[i]
	if n.kind == NodeKindStateTransition {
		return n.transition.length
	}
	return n.pose.duration
}

// nextPhaseUnwrapped computes the phase node i would move to this tick without committing it.
func (p *animationPlayer) nextPhaseUnwrapped(i nodeIndex) float32 {
	n := &p.nodes[i]
	ps := &n.pose

	if ps.flags&PhaseCopy != 0 {
		if ps.copySource == noNode {
			return 1
		}
		if n.kind == NodeKindPlayback {
			defer p.ctx.restore(p.ctx.enter(p.playbackFrame(n.playback)))
		}
		return p.nextPhaseUnwrapped(ps.copySource)
	}

	if ps.flags&PhaseSync != 0 && p.ctx.frame.SyncEnabled {
		return p.ctx.frame.SyncPhase
	}

	d := p.rateDuration(i)
	if d == 0 {
		return 1
	}

	reversed := ps.flags&PhaseReversed != 0
	if p.isFirstPlay(i) {
		if reversed {
			return 1
		}
		return 0
	}

	step := p.ctx.frame.Speed / d
	if reversed {
		return ps.phase - step
	}
	return ps.phase + step
}

// settle maps an unwrapped phase into range the way node i commits it.
func settle(flags PhaseFlags, phase float32) float32 {
	if flags&PhaseWrap != 0 {
		return common.Fract(phase)
	}
	return common.Clamp01(phase)
}

// applyNextPhase commits the next phase of node i. Copy nodes have nothing to commit.
func (p *animationPlayer) applyNextPhase(i nodeIndex) {
	ps := &p.nodes[i].pose
	if ps.flags&PhaseCopy != 0 {
		return
	}
	next := p.nextPhaseUnwrapped(i)
	ps.phase = settle(ps.flags, next)
}
