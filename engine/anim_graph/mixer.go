package anim_graph

import (
	"github.com/Carmen-Shannon/oxy-animgraph/engine/pose"
)

// mix executes the job queue in emission order and copies the root job's pose into out.
// Pooled poses are released in bulk afterwards; saved-pose slots persist.
func (p *animationPlayer) mix(out *pose.Pose, root JobHandle) {
	jobs := p.ctx.jobs
	for k := range jobs {
		p.outputs = append(p.outputs, p.run(&jobs[k]))
	}
	if out != nil {
		out.CopyFrom(p.outputs[root])
	}
	clear(p.outputs)
	p.outputs = p.outputs[:0]
	p.pool.ReleaseAll()
}

func (p *animationPlayer) run(j *Job) *pose.Pose {
	switch j.Kind {
	case JobSample:
		o := p.pool.Get()
		o.CopyFrom(p.rest)
		clip, ok := p.clips.Clip(j.Clip)
		if !ok || clip == nil {
			p.clipMissing(j)
			return o
		}
		if len(p.missing) > 0 {
			delete(p.missing, j.Clip)
		}
		pose.Sample(p.nodes[j.ClipNode].clip.sampling, o, clip, j.Phase)
		return o

	case JobBlend:
		o := p.pool.Get()
		p.layers[0] = pose.Layer{Pose: p.outputs[j.A], Weight: 1 - j.Weight}
		p.layers[1] = pose.Layer{Pose: p.outputs[j.B], Weight: j.Weight}
		pose.Blend(o, p.layers[:2], nil, p.rest)
		return o

	case JobSum:
		o := p.pool.Get()
		p.layers[0] = pose.Layer{Pose: p.outputs[j.A], Weight: 1}
		p.layers[1] = pose.Layer{Pose: p.outputs[j.B], Weight: 1}
		pose.Blend(o, p.layers[:1], p.layers[1:2], p.rest)
		return o

	case JobBackup:
		slot := p.slot(j.Slot)
		slot.CopyFrom(p.outputs[j.A])
		return slot

	case JobRestore:
		o := p.pool.Get()
		o.CopyFrom(p.slot(j.Slot))
		return o
	}
	panic("anim_graph: unknown job kind " + j.Kind.String())
}

// slot returns saved-pose slot i, allocating it as the rest pose on first use.
func (p *animationPlayer) slot(i uint32) *pose.Pose {
	for uint32(len(p.slots)) <= i {
		p.slots = append(p.slots, nil)
	}
	if p.slots[i] == nil {
		p.slots[i] = pose.NewRestPose(p.skeleton)
	}
	return p.slots[i]
}

// clipMissing reports a sample that fell back to the rest pose. The warning is logged once
// per clip until the clip is seen loaded again.
func (p *animationPlayer) clipMissing(j *Job) {
	if _, warned := p.missing[j.Clip]; !warned {
		p.missing[j.Clip] = struct{}{}
		p.logger.Warn("clip not loaded, sampling rest pose", "clip", string(j.Clip))
	}
	if p.profiler != nil {
		p.profiler.RecordMissingClip(p.name, string(j.Clip))
	}
}
