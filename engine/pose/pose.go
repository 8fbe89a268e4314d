// Package pose holds the structure-of-arrays pose buffers the animation mixer works on,
// together with the sampling and blending primitives that fill them.
//
// Buffers are padded to a whole number of SIMD lane groups (model.SimdLaneWidth joints
// per group) so the per-joint loops never need a scalar tail.
package pose

import (
	"github.com/Carmen-Shannon/oxy-animgraph/common"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// Pose is a local-space skeletal pose stored as structure-of-arrays.
// Every slice has PackedJointCount*model.SimdLaneWidth entries; entries past
// JointCount are padding and always hold the identity transform.
type Pose struct {
	// JointCount is the number of real joints described by the pose.
	JointCount int

	// Translations holds each joint's local translation.
	Translations [][3]float32

	// Rotations holds each joint's local rotation quaternion (x, y, z, w).
	Rotations [][4]float32

	// Scales holds each joint's local scale.
	Scales [][3]float32
}

// NewPose allocates a pose for jointCount joints initialized to identity transforms.
//
// Parameters:
//   - jointCount: the number of joints the pose describes
//
// Returns:
//   - *Pose: the newly allocated pose
func NewPose(jointCount int) *Pose {
	lanes := PackedCount(jointCount) * model.SimdLaneWidth
	p := &Pose{
		JointCount:   jointCount,
		Translations: make([][3]float32, lanes),
		Rotations:    make([][4]float32, lanes),
		Scales:       make([][3]float32, lanes),
	}
	p.SetIdentity()
	return p
}

// NewRestPose allocates a pose holding the skeleton's rest transforms.
//
// Parameters:
//   - skeleton: the skeleton whose rest pose is copied
//
// Returns:
//   - *Pose: the rest pose
func NewRestPose(skeleton *model.Skeleton) *Pose {
	p := NewPose(skeleton.JointCount())
	for i := 0; i < skeleton.JointCount(); i++ {
		rt := skeleton.Bones[i].RestTransform
		p.Translations[i] = rt.Translation
		p.Rotations[i] = rt.Rotation
		p.Scales[i] = rt.Scale
	}
	return p
}

// PackedCount returns the number of lane groups needed to store jointCount joints.
//
// Parameters:
//   - jointCount: the number of joints
//
// Returns:
//   - int: ceil(jointCount / model.SimdLaneWidth)
func PackedCount(jointCount int) int {
	return (jointCount + model.SimdLaneWidth - 1) / model.SimdLaneWidth
}

// PackedJointCount returns the number of lane groups this pose holds.
//
// Returns:
//   - int: the packed joint count
func (p *Pose) PackedJointCount() int {
	return len(p.Rotations) / model.SimdLaneWidth
}

// SetIdentity resets every entry (padding included) to the identity transform.
func (p *Pose) SetIdentity() {
	for i := range p.Rotations {
		p.Translations[i] = [3]float32{}
		p.Rotations[i] = common.IdentityQuat
		p.Scales[i] = [3]float32{1, 1, 1}
	}
}

// CopyFrom overwrites p with the contents of src. Both poses must have the same size.
//
// Parameters:
//   - src: the pose to copy
func (p *Pose) CopyFrom(src *Pose) {
	if len(src.Rotations) != len(p.Rotations) {
		panic("pose: CopyFrom size mismatch")
	}
	copy(p.Translations, src.Translations)
	copy(p.Rotations, src.Rotations)
	copy(p.Scales, src.Scales)
	p.JointCount = src.JointCount
}

// Transform returns the local transform of joint i.
//
// Parameters:
//   - i: the joint index
//
// Returns:
//   - model.Transform: the joint's transform
func (p *Pose) Transform(i int) model.Transform {
	return model.Transform{
		Translation: p.Translations[i],
		Rotation:    p.Rotations[i],
		Scale:       p.Scales[i],
	}
}
