package common

import (
	"math"
)

// IdentityQuat is the identity rotation as (x, y, z, w).
var IdentityQuat = [4]float32{0, 0, 0, 1}

// Lerp linearly interpolates between a and b.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation factor (not clamped)
//
// Returns:
//   - float32: a + (b - a) * t
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Lerp3 linearly interpolates each component of two 3D vectors.
//
// Parameters:
//   - a: the vector at t = 0
//   - b: the vector at t = 1
//   - t: the interpolation factor (not clamped)
//
// Returns:
//   - [3]float32: the interpolated vector
func Lerp3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}

// Clamp01 clamps v into the closed range [0, 1].
//
// Parameters:
//   - v: the value to clamp
//
// Returns:
//   - float32: v limited to [0, 1]
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Fract returns the fractional part of v in [0, 1), also for negative inputs.
//
// Parameters:
//   - v: the value to wrap
//
// Returns:
//   - float32: v - floor(v)
func Fract(v float32) float32 {
	f := v - float32(math.Floor(float64(v)))
	// float32 rounding can land exactly on 1 for tiny negative inputs
	if f >= 1 {
		return 0
	}
	return f
}

// QuatDot returns the 4D dot product of two quaternions.
//
// Parameters:
//   - a, b: quaternions as (x, y, z, w)
//
// Returns:
//   - float32: the dot product
func QuatDot(a, b [4]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// QuatNormalize returns q scaled to unit length. A zero quaternion yields the identity.
//
// Parameters:
//   - q: the quaternion to normalize
//
// Returns:
//   - [4]float32: the unit quaternion
func QuatNormalize(q [4]float32) [4]float32 {
	l := float32(math.Sqrt(float64(QuatDot(q, q))))
	if l < 1e-8 {
		return IdentityQuat
	}
	inv := 1 / l
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// QuatConjugate returns the conjugate of q, which is its inverse for unit quaternions.
//
// Parameters:
//   - q: the quaternion as (x, y, z, w)
//
// Returns:
//   - [4]float32: (-x, -y, -z, w)
func QuatConjugate(q [4]float32) [4]float32 {
	return [4]float32{-q[0], -q[1], -q[2], q[3]}
}

// QuatMul returns the Hamilton product a * b (apply b, then a).
//
// Parameters:
//   - a: the left-hand quaternion
//   - b: the right-hand quaternion
//
// Returns:
//   - [4]float32: the product quaternion
func QuatMul(a, b [4]float32) [4]float32 {
	return [4]float32{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// QuatNlerp interpolates two rotations along the shortest arc using normalized lerp.
// It is cheaper than slerp and is what the mixer uses for keyframe and layer blending.
//
// Parameters:
//   - a: the rotation at t = 0
//   - b: the rotation at t = 1
//   - t: the interpolation factor in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated unit quaternion
func QuatNlerp(a, b [4]float32, t float32) [4]float32 {
	if QuatDot(a, b) < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
	}
	return QuatNormalize([4]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	})
}

// ApproxEqual reports whether a and b differ by at most eps.
//
// Parameters:
//   - a, b: the values to compare
//   - eps: the absolute tolerance
//
// Returns:
//   - bool: true if |a - b| <= eps
func ApproxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
