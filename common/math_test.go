package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFract(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{0.25, 0.25},
		{1, 0},
		{1.75, 0.75},
		{-0.25, 0.75},
		{-2, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Fract(tt.in), 1e-6, "Fract(%v)", tt.in)
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, float32(0), Clamp01(-3))
	assert.Equal(t, float32(0.5), Clamp01(0.5))
	assert.Equal(t, float32(1), Clamp01(7))
}

func TestQuatNlerpTakesShortestArc(t *testing.T) {
	a := IdentityQuat
	b := [4]float32{0, 0, 0, -1} // same rotation, opposite sign

	q := QuatNlerp(a, b, 0.5)
	assert.InDelta(t, 1.0, q[3], 1e-6)
}

func TestQuatMulConjugateIsIdentity(t *testing.T) {
	q := QuatNormalize([4]float32{0.3, -0.2, 0.5, 0.8})
	r := QuatMul(q, QuatConjugate(q))
	assert.InDelta(t, 0, r[0], 1e-6)
	assert.InDelta(t, 0, r[1], 1e-6)
	assert.InDelta(t, 0, r[2], 1e-6)
	assert.InDelta(t, 1, r[3], 1e-6)
}

func TestQuatNormalizeZero(t *testing.T) {
	assert.Equal(t, IdentityQuat, QuatNormalize([4]float32{}))
}
