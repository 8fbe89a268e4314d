package model

// --- Transform & Skeleton Types ---

// Transform represents a decomposed joint transform (translation, rotation, scale).
type Transform struct {
	// Translation is the position offset relative to the parent joint.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// Bone represents a single joint in a skeleton hierarchy.
type Bone struct {
	// Name is the joint identifier used by clips and debugging tools.
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	ParentIndex int32

	// InverseBindMatrix transforms from model space to bone space at bind pose.
	InverseBindMatrix [16]float32

	// RestTransform is the joint's bind-time local transform relative to its parent.
	// The mixer falls back to it whenever a clip is unavailable.
	RestTransform Transform
}

// Skeleton represents a bone hierarchy. Bones are ordered so that parents precede children.
type Skeleton struct {
	// Name identifies the skeleton in the resource registry.
	Name string

	// Bones is the array of all bones in the skeleton.
	Bones []Bone

	// RootBoneIndices are indices of bones with no parent.
	RootBoneIndices []int32

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32
}

// --- Animation Types ---

// AnimationClip is a single keyframed animation (idle, walk, attack, ...).
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// TicksPerSecond is the sample rate of the animation. glTF clips are always 1.
	TicksPerSecond float32

	// Channels contains animation data for each animated bone.
	Channels []AnimationChannel
}

// AnimationChannel contains keyframe tracks for a single bone. Empty tracks leave
// the corresponding component at the rest pose.
type AnimationChannel struct {
	// BoneIndex is the index of the bone this channel animates.
	BoneIndex int32

	// PositionKeys are keyframes for translation, sorted by time.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation (quaternion), sorted by time.
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale, sorted by time.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32
}

// AnimationSet is the result of importing a model file for animation: one skeleton
// and every clip that animates it.
type AnimationSet struct {
	// Skeleton is the imported bone hierarchy, or nil when the file has no skin.
	Skeleton *Skeleton

	// Clips are the imported animation clips, with channels remapped to Skeleton bone indices.
	Clips []*AnimationClip
}
