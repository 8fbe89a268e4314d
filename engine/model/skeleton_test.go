package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSkeletonIndexesBones(t *testing.T) {
	s, err := NewSkeleton("biped", []Bone{
		{Name: "hips", ParentIndex: -1, RestTransform: IdentityTransform()},
		{Name: "spine", ParentIndex: 0, RestTransform: IdentityTransform()},
		{Name: "head", ParentIndex: 1, RestTransform: IdentityTransform()},
		{Name: "prop", ParentIndex: -1, RestTransform: IdentityTransform()},
		{Name: "hand", ParentIndex: 1, RestTransform: IdentityTransform()},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, s.JointCount())
	assert.Equal(t, 2, s.PackedJointCount())
	assert.Equal(t, []int32{0, 3}, s.RootBoneIndices)
	assert.Equal(t, int32(2), s.BoneNameToIndex["head"])
	assert.Len(t, s.RestTransforms(), 5)
}

func TestNewSkeletonRejectsForwardParent(t *testing.T) {
	_, err := NewSkeleton("bad", []Bone{
		{Name: "a", ParentIndex: 1},
		{Name: "b", ParentIndex: -1},
	})
	assert.Error(t, err)
}

func TestNilSkeletonCounts(t *testing.T) {
	var s *Skeleton
	assert.Equal(t, 0, s.JointCount())
	assert.Equal(t, 0, s.PackedJointCount())
}
