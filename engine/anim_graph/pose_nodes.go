package anim_graph

import (
	"math"

	"github.com/Carmen-Shannon/oxy-animgraph/common"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"
)

type clipNode struct {
	handle   resource.ClipHandle
	sampling *pose.SamplingContext
}

// blendSelection is the outcome of selectPoses: a single child, or a pair with the weight of second.
type blendSelection struct {
	first  nodeIndex
	second nodeIndex
	weight float32
}

type blendNode struct {
	factor  nodeIndex
	poses   []nodeIndex
	factors []float32

	prevFactor float32
	selected   bool
	selection  blendSelection
}

type sumNode struct {
	base     nodeIndex
	additive nodeIndex
}

type playbackNode struct {
	child nodeIndex
	speed float32
	// speedValue, when set, replaces speed with a float value node.
	speedValue nodeIndex
}

type randomNode struct {
	children []nodeIndex
	selected nodeIndex
}

// selectPoses locates f among the sorted factors. Values at or beyond either end, and
// exact factor matches, select a single child.
func selectPoses(poses []nodeIndex, factors []float32, f float32) blendSelection {
	last := len(factors) - 1
	if math.IsNaN(float64(f)) || f <= factors[0] {
		return blendSelection{first: poses[0], second: noNode}
	}
	if f >= factors[last] {
		return blendSelection{first: poses[last], second: noNode}
	}
	for k := 0; k < last; k++ {
		lo, hi := factors[k], factors[k+1]
		if f == lo {
			return blendSelection{first: poses[k], second: noNode}
		}
		if f < hi {
			return blendSelection{first: poses[k], second: poses[k+1], weight: (f - lo) / (hi - lo)}
		}
	}
	return blendSelection{first: poses[last], second: noNode}
}

func (p *animationPlayer) blendDuration(i nodeIndex) {
	n := &p.nodes[i]
	b := n.blend
	f := p.compute(b.factor, p.ctx.plainValues()).AsFloat()
	if !b.selected || f != b.prevFactor {
		b.selection = selectPoses(b.poses, b.factors, f)
		b.prevFactor = f
		b.selected = true
	}

	s := b.selection
	p.updateDuration(s.first)
	if s.second == noNode {
		n.pose.duration = p.nodes[s.first].pose.duration
		return
	}
	p.updateDuration(s.second)
	n.pose.duration = common.Lerp(p.nodes[s.first].pose.duration, p.nodes[s.second].pose.duration, s.weight)
}

// syncedFrame broadcasts phase to a subtree at the current speed.
func (p *animationPlayer) syncedFrame(phase float32) stackFrame {
	return stackFrame{Speed: p.ctx.frame.Speed, SyncEnabled: true, SyncPhase: phase}
}

func (p *animationPlayer) tickClip(i nodeIndex) JobHandle {
	p.applyNextPhase(i)
	p.mark(i)
	n := &p.nodes[i]
	return p.ctx.emitSample(n.clip.handle, n.pose.phase, i)
}

func (p *animationPlayer) tickBlend(i nodeIndex) JobHandle {
	p.applyNextPhase(i)
	p.mark(i)
	n := &p.nodes[i]
	s := n.blend.selection

	defer p.ctx.restore(p.ctx.enter(p.syncedFrame(n.pose.phase)))
	a := p.tick(s.first)
	if s.second == noNode {
		return a
	}
	b := p.tick(s.second)
	return p.ctx.emitBlend(a, b, s.weight)
}

func (p *animationPlayer) sumDuration(i nodeIndex) {
	n := &p.nodes[i]
	p.updateDuration(n.sum.base)
	p.updateDuration(n.sum.additive)
	n.pose.duration = max(p.nodes[n.sum.base].pose.duration, p.nodes[n.sum.additive].pose.duration)
}

func (p *animationPlayer) tickSum(i nodeIndex) JobHandle {
	p.applyNextPhase(i)
	p.mark(i)
	n := &p.nodes[i]

	defer p.ctx.restore(p.ctx.enter(p.syncedFrame(n.pose.phase)))
	base := p.tick(n.sum.base)
	additive := p.tick(n.sum.additive)
	return p.ctx.emitSum(base, additive)
}

// playbackFrame scales the current frame's speed by the node's multiplier.
func (p *animationPlayer) playbackFrame(pb *playbackNode) stackFrame {
	speed := pb.speed
	if pb.speedValue != noNode {
		speed = p.compute(pb.speedValue, p.ctx.plainValues()).AsFloat()
	}
	f := p.ctx.frame
	f.Speed *= speed
	return f
}

func (p *animationPlayer) playbackDuration(i nodeIndex) {
	n := &p.nodes[i]
	defer p.ctx.restore(p.ctx.enter(p.playbackFrame(n.playback)))
	p.updateDuration(n.playback.child)
	n.pose.duration = p.nodes[n.playback.child].pose.duration
}

func (p *animationPlayer) tickPlayback(i nodeIndex) JobHandle {
	n := &p.nodes[i]
	defer p.ctx.restore(p.ctx.enter(p.playbackFrame(n.playback)))
	h := p.tick(n.playback.child)
	p.mark(i)
	return h
}

func (p *animationPlayer) randomDuration(i nodeIndex) {
	n := &p.nodes[i]
	r := n.random

	reroll := r.selected == noNode || p.isFirstPlay(i)
	if !reroll {
		p.updateDuration(r.selected)
		next := p.nextPhaseUnwrapped(r.selected)
		reroll = next > 1 || next < 0
	}
	if reroll {
		r.selected = r.children[p.ctx.rng.IntN(len(r.children))]
		n.pose.copySource = r.selected
		p.restart(r.selected)
		p.updateDuration(r.selected)
	}
	n.pose.duration = p.nodes[r.selected].pose.duration
}

func (p *animationPlayer) tickRandom(i nodeIndex) JobHandle {
	r := p.nodes[i].random
	if r.selected == noNode {
		panic("anim_graph: random node ticked before its duration pass")
	}
	h := p.tick(r.selected)
	p.mark(i)
	return h
}
