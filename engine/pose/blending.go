package pose

import (
	"github.com/Carmen-Shannon/oxy-animgraph/common"
)

// weightEpsilon is the total layer weight below which a blend falls back to the rest pose.
const weightEpsilon = 1e-5

// Layer is one weighted input of a blend.
type Layer struct {
	// Pose is the input pose.
	Pose *Pose

	// Weight is the layer's contribution. Non-positive weights are ignored.
	Weight float32
}

// Blend combines normal layers by normalized weight, then applies additive layers
// relative to rest. With no effective normal layer weight the rest pose is used as base.
//
// Parameters:
//   - out: the pose receiving the result; must not alias any input
//   - layers: the normal (interpolated) layers
//   - additive: layers applied as deltas from rest
//   - rest: the skeleton rest pose
func Blend(out *Pose, layers []Layer, additive []Layer, rest *Pose) {
	n := out.JointCount

	var total float32
	for _, l := range layers {
		if l.Weight > 0 {
			total += l.Weight
		}
	}

	if total < weightEpsilon {
		out.CopyFrom(rest)
	} else {
		inv := 1 / total
		for j := 0; j < n; j++ {
			var t, s [3]float32
			var q [4]float32
			var ref [4]float32
			first := true
			for _, l := range layers {
				if l.Weight <= 0 {
					continue
				}
				w := l.Weight * inv
				lt, lq, ls := l.Pose.Translations[j], l.Pose.Rotations[j], l.Pose.Scales[j]
				if first {
					ref = lq
					first = false
				} else if common.QuatDot(ref, lq) < 0 {
					lq = [4]float32{-lq[0], -lq[1], -lq[2], -lq[3]}
				}
				t[0] += lt[0] * w
				t[1] += lt[1] * w
				t[2] += lt[2] * w
				s[0] += ls[0] * w
				s[1] += ls[1] * w
				s[2] += ls[2] * w
				q[0] += lq[0] * w
				q[1] += lq[1] * w
				q[2] += lq[2] * w
				q[3] += lq[3] * w
			}
			out.Translations[j] = t
			out.Rotations[j] = common.QuatNormalize(q)
			out.Scales[j] = s
		}
	}

	for _, l := range additive {
		if l.Weight <= 0 {
			continue
		}
		applyAdditive(out, l, rest)
	}
}

func applyAdditive(out *Pose, l Layer, rest *Pose) {
	w := l.Weight
	for j := 0; j < out.JointCount; j++ {
		at, rt := l.Pose.Translations[j], rest.Translations[j]
		out.Translations[j][0] += (at[0] - rt[0]) * w
		out.Translations[j][1] += (at[1] - rt[1]) * w
		out.Translations[j][2] += (at[2] - rt[2]) * w

		delta := common.QuatMul(common.QuatConjugate(rest.Rotations[j]), l.Pose.Rotations[j])
		delta = common.QuatNlerp(common.IdentityQuat, delta, w)
		out.Rotations[j] = common.QuatNormalize(common.QuatMul(out.Rotations[j], delta))

		as, rs := l.Pose.Scales[j], rest.Scales[j]
		for k := 0; k < 3; k++ {
			ratio := float32(1)
			if rs[k] != 0 {
				ratio = as[k] / rs[k]
			}
			out.Scales[j][k] *= common.Lerp(1, ratio, w)
		}
	}
}
