package anim_graph

import (
	"math"

	"github.com/Carmen-Shannon/oxy-animgraph/common"

	"github.com/tanema/gween/ease"
)

// spanEpsilon is the remaining transition span below which the blend snaps to the destination.
const spanEpsilon = 1e-6

// breakpoint is a state phase at which some outgoing transitions must be probed.
type breakpoint struct {
	phase       float32
	transitions []nodeIndex
}

type stateNode struct {
	name        string
	child       nodeIndex
	transitions []nodeIndex
	breakpoints []breakpoint
}

type stateMachineNode struct {
	states  []nodeIndex
	current nodeIndex
}

type transitionNode struct {
	destination nodeIndex
	condition   nodeIndex
	length      float32
	reversible  bool
	curve       ease.TweenFunc

	// source is the state the transition was taken from.
	source             nodeIndex
	currentSource      nodeIndex
	currentDestination nodeIndex

	startPhase float32
	flipPhase  float32

	// slots is the ping-pong pair; slots[role] holds the snapshot blended from,
	// slots[1-role] receives this transition's output.
	slots        [2]uint32
	slotsClaimed bool
	role         int
}

func (p *animationPlayer) stateDuration(i nodeIndex) {
	n := &p.nodes[i]
	p.updateDuration(n.state.child)
	n.pose.duration = p.nodes[n.state.child].pose.duration
}

func (p *animationPlayer) tickState(i nodeIndex) JobHandle {
	h := p.tick(p.nodes[i].state.child)
	p.mark(i)
	return h
}

// machineDuration resolves which state or transition machine i plays this tick.
func (p *animationPlayer) machineDuration(i nodeIndex) {
	n := &p.nodes[i]
	m := n.machine

	if p.isFirstPlay(i) || m.current == noNode {
		m.current = m.states[0]
		p.restart(m.current)
	}
	p.updateDuration(m.current)

	switch p.nodes[m.current].kind {
	case NodeKindState:
		if t, start := p.probeState(m.current); t != noNode {
			p.takeTransition(m, m.current, t, start)
		}
	case NodeKindStateTransition:
		p.advanceTransition(m)
	}

	n.pose.copySource = m.current
	n.pose.duration = p.nodes[m.current].pose.duration
}

func (p *animationPlayer) tickMachine(i nodeIndex) JobHandle {
	h := p.tick(p.nodes[i].machine.current)
	p.mark(i)
	return h
}

// conditionHolds evaluates transition t's condition as if state playback stood at phase.
func (p *animationPlayer) conditionHolds(t nodeIndex, phase float32, reversed bool) bool {
	return p.compute(p.nodes[t].transition.condition, p.ctx.probeValues(phase, reversed)).AsBool()
}

// probeState tests the outgoing transitions of state s between its committed and pending
// phase. Breakpoints are probed in playback order, then every transition is probed once at
// the settled pending phase.
//
// Returns the winning transition, or noNode, and the phase it fired at.
func (p *animationPlayer) probeState(s nodeIndex) (nodeIndex, float32) {
	st := p.nodes[s].state
	if len(st.transitions) == 0 {
		return noNode, 0
	}

	var flags PhaseFlags
	if o := p.owner(s); o != noNode {
		flags = p.nodes[o].pose.flags
	}
	reversed := flags&PhaseReversed != 0
	wrap := flags&PhaseWrap != 0

	next := p.nextPhaseUnwrapped(s)
	cur := p.phaseOf(s)
	if p.isFirstPlay(s) || math.IsNaN(float64(cur)) {
		cur = next
	}

	fire := func(bp *breakpoint) nodeIndex {
		for _, t := range bp.transitions {
			if p.conditionHolds(t, bp.phase, reversed) {
				return t
			}
		}
		return noNode
	}
	ascend := func(inside func(float32) bool) (nodeIndex, float32) {
		for k := range st.breakpoints {
			bp := &st.breakpoints[k]
			if inside(bp.phase) {
				if t := fire(bp); t != noNode {
					return t, bp.phase
				}
			}
		}
		return noNode, 0
	}
	descend := func(inside func(float32) bool) (nodeIndex, float32) {
		for k := len(st.breakpoints) - 1; k >= 0; k-- {
			bp := &st.breakpoints[k]
			if inside(bp.phase) {
				if t := fire(bp); t != noNode {
					return t, bp.phase
				}
			}
		}
		return noNode, 0
	}

	var t nodeIndex = noNode
	var at float32
	switch {
	case next > cur && wrap && next > 1:
		if t, at = ascend(func(b float32) bool { return b > cur && b <= 1 }); t == noNode {
			t, at = ascend(func(b float32) bool { return b >= 0 && b < next-1 })
		}
	case next > cur:
		hi := min(next, 1)
		t, at = ascend(func(b float32) bool { return b > cur && b < hi })
	case next < cur && wrap && next < 0:
		if t, at = descend(func(b float32) bool { return b < cur && b >= 0 }); t == noNode {
			t, at = descend(func(b float32) bool { return b <= 1 && b > next+1 })
		}
	case next < cur:
		lo := max(next, 0)
		t, at = descend(func(b float32) bool { return b < cur && b > lo })
	}
	if t != noNode {
		return t, at
	}

	pending := settle(flags, next)
	for _, t := range st.transitions {
		if p.conditionHolds(t, pending, reversed) {
			return t, pending
		}
	}
	return noNode, 0
}

// takeTransition makes t the current node of m, leaving state from at phase start.
func (p *animationPlayer) takeTransition(m *stateMachineNode, from, t nodeIndex, start float32) {
	tn := &p.nodes[t]
	tr := tn.transition

	tr.source = from
	tr.currentSource = from
	tr.currentDestination = tr.destination
	tr.startPhase = start
	tr.flipPhase = 0
	tr.role = 0
	tn.pose.flags &^= PhaseReversed

	if !tr.slotsClaimed {
		first := p.ctx.claimSlots(2)
		tr.slots = [2]uint32{first, first + 1}
		tr.slotsClaimed = true
	}

	p.restart(t)
	p.restart(tr.destination)
	m.current = t
	p.updateDuration(t)

	p.logger.Debug("transition started",
		"from", p.nodes[from].state.name,
		"to", p.nodes[tr.destination].state.name,
		"phase", start,
		"tick", p.ctx.tick,
	)
}

// advanceTransition reverses the current transition of m when its condition flips and
// resolves it to its destination once its phase runs out.
func (p *animationPlayer) advanceTransition(m *stateMachineNode) {
	t := m.current
	tn := &p.nodes[t]
	tr := tn.transition

	if tr.reversible && !p.isFirstPlay(t) {
		reversed := tn.pose.flags&PhaseReversed != 0
		if !p.conditionHolds(t, tr.startPhase, false) != reversed {
			p.reverseTransition(t)
			p.refreshDuration(t)
		}
	}

	next := p.nextPhaseUnwrapped(t)
	reversed := tn.pose.flags&PhaseReversed != 0
	if (!reversed && next >= 1) || (reversed && next <= 0) {
		m.current = tr.currentDestination
		p.updateDuration(m.current)
		p.logger.Debug("transition finished",
			"state", p.nodes[m.current].state.name,
			"tick", p.ctx.tick,
		)
	}
}

// reverseTransition turns transition t around mid-flight. The blend written last tick
// becomes the snapshot, and the new destination restarts from phase zero.
func (p *animationPlayer) reverseTransition(t nodeIndex) {
	tn := &p.nodes[t]
	tr := tn.transition

	tr.currentSource, tr.currentDestination = tr.currentDestination, tr.currentSource
	tr.role = 1 - tr.role
	tr.flipPhase = tn.pose.phase
	tn.pose.flags ^= PhaseReversed
	p.restart(tr.currentDestination)

	p.logger.Debug("transition reversed",
		"towards", p.nodes[tr.currentDestination].state.name,
		"phase", tr.flipPhase,
		"tick", p.ctx.tick,
	)
}

func (p *animationPlayer) transitionDuration(t nodeIndex) {
	n := &p.nodes[t]
	tr := n.transition
	p.updateDuration(tr.currentDestination)
	if p.isFirstPlay(t) {
		p.updateDuration(tr.currentSource)
	}
	n.pose.duration = p.nodes[tr.currentDestination].pose.duration
}

// transitionWeight is the destination's share of the blend at the committed phase.
func (p *animationPlayer) transitionWeight(t nodeIndex) float32 {
	n := &p.nodes[t]
	tr := n.transition
	span := 1 - tr.flipPhase
	if n.pose.flags&PhaseReversed != 0 {
		span = tr.flipPhase
	}
	w := float32(1)
	if span >= spanEpsilon {
		w = common.Clamp01(float32(math.Abs(float64(n.pose.phase-tr.flipPhase))) / span)
	}
	return shapeWeight(tr.curve, w)
}

func (p *animationPlayer) tickTransition(t nodeIndex) JobHandle {
	p.applyNextPhase(t)
	tr := p.nodes[t].transition

	var snapshot JobHandle
	if p.isFirstPlay(t) {
		func() {
			defer p.ctx.restore(p.ctx.enter(p.syncedFrame(tr.startPhase)))
			src := p.tick(tr.currentSource)
			snapshot = p.ctx.emitBackup(src, tr.slots[tr.role])
		}()
	} else {
		snapshot = p.ctx.emitRestore(tr.slots[tr.role])
	}

	dst := p.tick(tr.currentDestination)
	blend := p.ctx.emitBlend(snapshot, dst, p.transitionWeight(t))
	p.mark(t)
	return p.ctx.emitBackup(blend, tr.slots[1-tr.role])
}
