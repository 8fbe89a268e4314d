package anim_graph

import (
	"github.com/Carmen-Shannon/oxy-animgraph/engine/resource"
)

// JobKind identifies a deferred pose operation.
type JobKind uint8

const (
	// JobSample samples a clip at a phase.
	JobSample JobKind = iota
	// JobBlend interpolates two job outputs.
	JobBlend
	// JobSum adds one job output on top of another relative to the rest pose.
	JobSum
	// JobBackup copies a job output into a saved-pose slot.
	JobBackup
	// JobRestore copies a saved-pose slot into a fresh pose.
	JobRestore
)

func (k JobKind) String() string {
	switch k {
	case JobSample:
		return "Sample"
	case JobBlend:
		return "Blend"
	case JobSum:
		return "Sum"
	case JobBackup:
		return "Backup"
	case JobRestore:
		return "Restore"
	}
	return "Unknown"
}

// JobHandle identifies a job within one tick's queue.
type JobHandle int32

// InvalidJob is the handle of no job.
const InvalidJob JobHandle = -1

// Job is one entry of the per-tick dataflow queue. Which fields are meaningful depends on Kind:
//
//	Sample:  Clip, Phase, ClipNode
//	Blend:   A, B, Weight
//	Sum:     A (base), B (additive)
//	Backup:  A (source), Slot
//	Restore: Slot
type Job struct {
	Kind JobKind

	Clip     resource.ClipHandle
	Phase    float32
	ClipNode int32

	A, B   JobHandle
	Weight float32

	Slot uint32
}

func (c *playerContext) emit(j Job) JobHandle {
	c.jobs = append(c.jobs, j)
	return JobHandle(len(c.jobs) - 1)
}

func (c *playerContext) emitSample(clip resource.ClipHandle, phase float32, clipNode nodeIndex) JobHandle {
	return c.emit(Job{Kind: JobSample, Clip: clip, Phase: phase, ClipNode: int32(clipNode), A: InvalidJob, B: InvalidJob})
}

func (c *playerContext) emitBlend(a, b JobHandle, weight float32) JobHandle {
	c.checkHandle(a)
	c.checkHandle(b)
	return c.emit(Job{Kind: JobBlend, A: a, B: b, Weight: weight, ClipNode: -1})
}

func (c *playerContext) emitSum(base, additive JobHandle) JobHandle {
	c.checkHandle(base)
	c.checkHandle(additive)
	return c.emit(Job{Kind: JobSum, A: base, B: additive, ClipNode: -1})
}

func (c *playerContext) emitBackup(src JobHandle, slot uint32) JobHandle {
	c.checkHandle(src)
	return c.emit(Job{Kind: JobBackup, A: src, B: InvalidJob, Slot: slot, ClipNode: -1})
}

func (c *playerContext) emitRestore(slot uint32) JobHandle {
	return c.emit(Job{Kind: JobRestore, A: InvalidJob, B: InvalidJob, Slot: slot, ClipNode: -1})
}
