package pose

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSkeleton(t *testing.T) *model.Skeleton {
	t.Helper()
	rest := model.IdentityTransform()
	rest.Translation = [3]float32{0, 1, 0}
	s, err := model.NewSkeleton("test", []model.Bone{
		{Name: "root", ParentIndex: -1, RestTransform: rest},
		{Name: "child", ParentIndex: 0, RestTransform: model.IdentityTransform()},
	})
	require.NoError(t, err)
	return s
}

func moveClip() *model.AnimationClip {
	return &model.AnimationClip{
		Name:     "move",
		Duration: 2,
		Channels: []model.AnimationChannel{{
			BoneIndex: 0,
			PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: [3]float32{0, 0, 0}},
				{Time: 1, Value: [3]float32{10, 0, 0}},
				{Time: 2, Value: [3]float32{10, 10, 0}},
			},
			RotationKeys: []model.QuaternionKeyframe{
				{Time: 0, Value: [4]float32{0, 0, 0, 1}},
			},
		}},
	}
}

func TestNewPosePadsToLaneGroups(t *testing.T) {
	p := NewPose(5)
	assert.Equal(t, 5, p.JointCount)
	assert.Equal(t, 2, p.PackedJointCount())
	assert.Len(t, p.Rotations, 8)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, p.Rotations[7])
	assert.Equal(t, [3]float32{1, 1, 1}, p.Scales[7])
}

func TestRestPoseCopiesSkeleton(t *testing.T) {
	rest := NewRestPose(testSkeleton(t))
	assert.Equal(t, [3]float32{0, 1, 0}, rest.Translations[0])
	assert.Equal(t, 2, rest.JointCount)
}

func TestSampleInterpolatesKeys(t *testing.T) {
	skel := testSkeleton(t)
	ctx := NewSamplingContext(skel.PackedJointCount())
	out := NewRestPose(skel)

	Sample(ctx, out, moveClip(), 0.25)
	assert.InDelta(t, 5, out.Translations[0][0], 1e-5)
	assert.InDelta(t, 0, out.Translations[0][1], 1e-5)

	Sample(ctx, out, moveClip(), 0.75)
	assert.InDelta(t, 10, out.Translations[0][0], 1e-5)
	assert.InDelta(t, 5, out.Translations[0][1], 1e-5)

	// unanimated joint keeps its seeded value
	assert.Equal(t, [3]float32{0, 0, 0}, out.Translations[1])
}

func TestSampleBackwardsAfterCursorAdvanced(t *testing.T) {
	skel := testSkeleton(t)
	ctx := NewSamplingContext(skel.PackedJointCount())
	out := NewRestPose(skel)
	clip := moveClip()

	Sample(ctx, out, clip, 1)
	Sample(ctx, out, clip, 0.1)
	assert.InDelta(t, 2, out.Translations[0][0], 1e-5)
}

func TestSampleClampsRatio(t *testing.T) {
	skel := testSkeleton(t)
	ctx := NewSamplingContext(skel.PackedJointCount())
	out := NewRestPose(skel)

	Sample(ctx, out, moveClip(), 3)
	assert.InDelta(t, 10, out.Translations[0][1], 1e-5)
	Sample(ctx, out, moveClip(), -1)
	assert.InDelta(t, 0, out.Translations[0][0], 1e-5)
}

func TestSampleResizesContextToOutputPose(t *testing.T) {
	skel := testSkeleton(t)
	ctx := NewSamplingContext(0)
	out := NewRestPose(skel)

	Sample(ctx, out, moveClip(), 0.25)
	assert.Equal(t, skel.PackedJointCount(), ctx.PackedJointCount())
	assert.Len(t, ctx.cursors, skel.PackedJointCount()*model.SimdLaneWidth)
	assert.InDelta(t, 5, out.Translations[0][0], 1e-5)

	wide := NewPose(6)
	Sample(ctx, wide, moveClip(), 0.75)
	assert.Equal(t, 2, ctx.PackedJointCount())
	assert.InDelta(t, 5, wide.Translations[0][1], 1e-5)
}

func TestSampleRebindsCursorsOnClipChange(t *testing.T) {
	skel := testSkeleton(t)
	ctx := NewSamplingContext(skel.PackedJointCount())
	out := NewRestPose(skel)

	Sample(ctx, out, moveClip(), 1)
	assert.Equal(t, 1, ctx.cursors[0].pos)

	other := moveClip()
	Sample(ctx, out, other, 0)
	assert.Same(t, other, ctx.clip)
	assert.Equal(t, 0, ctx.cursors[0].pos)
	assert.InDelta(t, 0, out.Translations[0][0], 1e-5)
}

func TestBlendWeightsLayers(t *testing.T) {
	a := NewPose(1)
	b := NewPose(1)
	a.Translations[0] = [3]float32{0, 0, 0}
	b.Translations[0] = [3]float32{4, 0, 0}
	b.Scales[0] = [3]float32{3, 3, 3}
	rest := NewPose(1)
	out := NewPose(1)

	Blend(out, []Layer{{Pose: a, Weight: 0.75}, {Pose: b, Weight: 0.25}}, nil, rest)
	assert.InDelta(t, 1, out.Translations[0][0], 1e-5)
	assert.InDelta(t, 1.5, out.Scales[0][0], 1e-5)
}

func TestBlendWithoutWeightUsesRest(t *testing.T) {
	rest := NewPose(1)
	rest.Translations[0] = [3]float32{7, 7, 7}
	out := NewPose(1)

	Blend(out, []Layer{{Pose: NewPose(1), Weight: 0}}, nil, rest)
	assert.Equal(t, [3]float32{7, 7, 7}, out.Translations[0])
}

func TestBlendAdditiveAddsDeltaFromRest(t *testing.T) {
	rest := NewPose(1)
	rest.Translations[0] = [3]float32{1, 0, 0}
	base := NewPose(1)
	base.Translations[0] = [3]float32{5, 0, 0}
	add := NewPose(1)
	add.Translations[0] = [3]float32{3, 2, 0}
	out := NewPose(1)

	Blend(out, []Layer{{Pose: base, Weight: 1}}, []Layer{{Pose: add, Weight: 1}}, rest)
	assert.InDelta(t, 7, out.Translations[0][0], 1e-5)
	assert.InDelta(t, 2, out.Translations[0][1], 1e-5)
	assert.InDelta(t, 1, out.Rotations[0][3], 1e-5)
}

func TestPoolReusesBuffers(t *testing.T) {
	pl := NewPool(3)
	a := pl.Get()
	b := pl.Get()
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, pl.InUse())

	pl.ReleaseAll()
	assert.Equal(t, 0, pl.InUse())
	assert.Equal(t, 2, pl.Allocated())

	c := pl.Get()
	assert.True(t, c == a || c == b)
	assert.Equal(t, 2, pl.Allocated())
}
