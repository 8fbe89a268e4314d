package model

import (
	"fmt"
)

// SimdLaneWidth is the number of joints packed into one SoA lane group.
const SimdLaneWidth = 4

// NewSkeleton builds a Skeleton from bones that are already ordered parents-first,
// filling RootBoneIndices and BoneNameToIndex.
//
// Parameters:
//   - name: the skeleton identifier
//   - bones: the bones, parents before children
//
// Returns:
//   - *Skeleton: the assembled skeleton
//   - error: an error if a bone references a parent that does not precede it
func NewSkeleton(name string, bones []Bone) (*Skeleton, error) {
	s := &Skeleton{
		Name:            name,
		Bones:           bones,
		BoneNameToIndex: make(map[string]int32, len(bones)),
	}
	for i, b := range bones {
		if b.ParentIndex >= int32(i) {
			return nil, fmt.Errorf("bone %d (%q): parent %d does not precede it", i, b.Name, b.ParentIndex)
		}
		if b.ParentIndex < 0 {
			s.RootBoneIndices = append(s.RootBoneIndices, int32(i))
		}
		s.BoneNameToIndex[b.Name] = int32(i)
	}
	return s, nil
}

// JointCount returns the number of joints in the skeleton.
//
// Returns:
//   - int: the joint count
func (s *Skeleton) JointCount() int {
	if s == nil {
		return 0
	}
	return len(s.Bones)
}

// PackedJointCount returns the number of SIMD lane groups needed to hold every joint.
//
// Returns:
//   - int: ceil(JointCount / SimdLaneWidth)
func (s *Skeleton) PackedJointCount() int {
	return (s.JointCount() + SimdLaneWidth - 1) / SimdLaneWidth
}

// RestTransforms returns a fresh slice of every joint's rest transform.
//
// Returns:
//   - []Transform: one rest transform per joint
func (s *Skeleton) RestTransforms() []Transform {
	out := make([]Transform, s.JointCount())
	for i := range out {
		out[i] = s.Bones[i].RestTransform
	}
	return out
}
