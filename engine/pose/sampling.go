package pose

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-animgraph/common"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// trackCursor caches the last keyframe segment used for each track of one joint.
type trackCursor struct {
	pos, rot, scale int
}

// SamplingContext is persistent sampler working memory, kept per clip node across
// ticks. It remembers the keyframe segment each joint used last time so forward
// playback resolves keys without searching.
type SamplingContext struct {
	packed  int
	clip    *model.AnimationClip
	cursors []trackCursor
}

// NewSamplingContext creates a context sized for packedJointCount lane groups.
//
// Parameters:
//   - packedJointCount: the skeleton's packed joint count
//
// Returns:
//   - *SamplingContext: the new context
func NewSamplingContext(packedJointCount int) *SamplingContext {
	c := &SamplingContext{}
	c.Resize(packedJointCount)
	return c
}

// Resize reallocates the cursor storage for a new packed joint count and forgets the cached clip.
//
// Parameters:
//   - packedJointCount: the skeleton's packed joint count
func (c *SamplingContext) Resize(packedJointCount int) {
	c.packed = packedJointCount
	c.clip = nil
	c.cursors = make([]trackCursor, packedJointCount*model.SimdLaneWidth)
}

// PackedJointCount returns the packed joint count the context was sized for.
//
// Returns:
//   - int: the packed joint count
func (c *SamplingContext) PackedJointCount() int {
	return c.packed
}

func (c *SamplingContext) bind(clip *model.AnimationClip, packedJointCount int) {
	if c.packed != packedJointCount {
		c.Resize(packedJointCount)
	}
	if c.clip == clip {
		return
	}
	c.clip = clip
	clear(c.cursors)
}

// Sample evaluates clip at the normalized ratio and writes every animated joint
// component into out. Components the clip does not animate are left untouched, so
// callers seed out with the rest pose first. ctx is resized first when it was sized
// for a different packed joint count than out.
//
// Parameters:
//   - ctx: the persistent sampling context of the sampling node
//   - out: the pose receiving the sampled transforms
//   - clip: the animation to sample
//   - ratio: the normalized playback position, clamped to [0, 1]
func Sample(ctx *SamplingContext, out *Pose, clip *model.AnimationClip, ratio float32) {
	ctx.bind(clip, out.PackedJointCount())
	t := common.Clamp01(ratio) * clip.Duration

	for ci := range clip.Channels {
		ch := &clip.Channels[ci]
		bone := int(ch.BoneIndex)
		if bone < 0 || bone >= out.JointCount {
			continue
		}
		cur := &ctx.cursors[bone]

		if len(ch.PositionKeys) > 0 {
			out.Translations[bone] = sampleVector(ch.PositionKeys, t, &cur.pos)
		}
		if len(ch.RotationKeys) > 0 {
			out.Rotations[bone] = sampleQuat(ch.RotationKeys, t, &cur.rot)
		}
		if len(ch.ScaleKeys) > 0 {
			out.Scales[bone] = sampleVector(ch.ScaleKeys, t, &cur.scale)
		}
	}
}

// seekSegment returns i such that times(i) <= t < times(i+1), starting from the cached
// cursor when it is still valid. The result is clamped to [0, n-2].
func seekSegment(n int, time func(int) float32, t float32, cursor *int) int {
	i := *cursor
	if i < 0 || i >= n-1 || time(i) > t {
		i = sort.Search(n, func(k int) bool { return time(k) > t }) - 1
	} else {
		for i < n-2 && time(i+1) <= t {
			i++
		}
	}
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	*cursor = i
	return i
}

func segmentFactor(t0, t1, t float32) float32 {
	if t1 <= t0 {
		return 0
	}
	return common.Clamp01((t - t0) / (t1 - t0))
}

func sampleVector(keys []model.VectorKeyframe, t float32, cursor *int) [3]float32 {
	if len(keys) == 1 {
		return keys[0].Value
	}
	i := seekSegment(len(keys), func(k int) float32 { return keys[k].Time }, t, cursor)
	f := segmentFactor(keys[i].Time, keys[i+1].Time, t)
	return common.Lerp3(keys[i].Value, keys[i+1].Value, f)
}

func sampleQuat(keys []model.QuaternionKeyframe, t float32, cursor *int) [4]float32 {
	if len(keys) == 1 {
		return common.QuatNormalize(keys[0].Value)
	}
	i := seekSegment(len(keys), func(k int) float32 { return keys[k].Time }, t, cursor)
	f := segmentFactor(keys[i].Time, keys[i+1].Time, t)
	return common.QuatNlerp(keys[i].Value, keys[i+1].Value, f)
}
