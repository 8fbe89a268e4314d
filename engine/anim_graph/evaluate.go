package anim_graph

import (
	"fmt"
)

// updateDuration runs the duration pass for node i: it settles which children are
// active this tick and recomputes the node's duration from theirs. A node is visited
// at most once per tick; refreshDuration forces another visit.
func (p *animationPlayer) updateDuration(i nodeIndex) {
	n := &p.nodes[i]
	if n.pose.durationTick == p.ctx.tick {
		return
	}
	n.pose.durationTick = p.ctx.tick
	switch n.kind {
	case NodeKindClip:
		n.pose.duration = 0
		if clip, ok := p.clips.Clip(n.clip.handle); ok && clip != nil {
			n.pose.duration = clip.Duration
		}
	case NodeKindBlend:
		p.blendDuration(i)
	case NodeKindSum:
		p.sumDuration(i)
	case NodeKindPlayback:
		p.playbackDuration(i)
	case NodeKindRandom:
		p.randomDuration(i)
	case NodeKindState:
		p.stateDuration(i)
	case NodeKindStateMachine:
		p.machineDuration(i)
	case NodeKindStateTransition:
		p.transitionDuration(i)
	}
}

// refreshDuration recomputes the duration of node i after its active children changed
// later in the same tick.
func (p *animationPlayer) refreshDuration(i nodeIndex) {
	p.nodes[i].pose.durationTick = p.ctx.tick - 1
	p.updateDuration(i)
}

// tick runs the job pass for node i and returns the job holding its pose. A node that
// already ran this tick returns its earlier handle without advancing again.
func (p *animationPlayer) tick(i nodeIndex) JobHandle {
	if ps := &p.nodes[i].pose; ps.played && ps.lastTick == p.ctx.tick {
		return ps.lastJob
	}

	var h JobHandle
	switch p.nodes[i].kind {
	case NodeKindClip:
		h = p.tickClip(i)
	case NodeKindBlend:
		h = p.tickBlend(i)
	case NodeKindSum:
		h = p.tickSum(i)
	case NodeKindPlayback:
		h = p.tickPlayback(i)
	case NodeKindRandom:
		h = p.tickRandom(i)
	case NodeKindState:
		h = p.tickState(i)
	case NodeKindStateMachine:
		h = p.tickMachine(i)
	case NodeKindStateTransition:
		h = p.tickTransition(i)
	default:
		panic(fmt.Sprintf("anim_graph: tick on value node %d (%s)", i, p.nodes[i].kind))
	}
	p.nodes[i].pose.lastJob = h
	return h
}

// evaluate runs both passes from the root under a frame carrying timeStep as speed.
func (p *animationPlayer) evaluate(timeStep float32, params *ParameterSet) JobHandle {
	c := &p.ctx
	c.tick++
	c.jobs = c.jobs[:0]
	c.params = params

	root := stackFrame{Speed: timeStep}
	c.frame = root

	p.updateDuration(p.root)

	h := p.tick(p.root)
	if c.frame != root {
		panic("anim_graph: stack frame not restored at end of tick")
	}
	c.checkHandle(h)
	return h
}
