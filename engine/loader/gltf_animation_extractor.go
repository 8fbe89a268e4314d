package loader

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-animgraph/common"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// stepEpsilon separates the two keys a STEP sample is expanded into.
const stepEpsilon = 1e-4

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor converts glTF animations into clips addressed by skeleton bone index.
// Channels targeting nodes outside the skeleton (cameras, meshes, morph weights) are dropped.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - nodeToBone: maps glTF node index to skeleton bone index
	//
	// Returns:
	//   - *model.AnimationClip: the extracted clip with one channel per animated bone
	//   - error: error if a sampler or accessor is malformed
	ExtractAnimation(animIndex int, nodeToBone map[int]int32) (*model.AnimationClip, error)

	// ExtractAnimations extracts every animation that animates at least one skeleton bone.
	//
	// Parameters:
	//   - nodeToBone: maps glTF node index to skeleton bone index
	//
	// Returns:
	//   - []*model.AnimationClip: the extracted clips in document order
	//   - error: error if any animation fails to extract
	ExtractAnimations(nodeToBone map[int]int32) ([]*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, nodeToBone map[int]int32) (*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}
	anim := &doc.Animations[animIndex]

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	byBone := make(map[int32]*model.AnimationChannel)
	var duration float32

	for i := range anim.Channels {
		ch := &anim.Channels[i]
		if ch.Target.Node == nil {
			continue
		}
		bone, ok := nodeToBone[*ch.Target.Node]
		if !ok {
			continue
		}
		var width int
		switch ch.Target.Path {
		case gltfAnimPathTranslation, gltfAnimPathScale:
			width = 3
		case gltfAnimPathRotation:
			width = 4
		default:
			continue
		}

		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", name, i, ch.Sampler)
		}
		sampler := &anim.Samplers[ch.Sampler]

		times, err := e.parser.ReadFloats(sampler.Input, gltfAccessorTypeScalar)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", name, i, err)
		}
		outType := gltfAccessorTypeVec3
		if width == 4 {
			outType = gltfAccessorTypeVec4
		}
		values, err := e.parser.ReadFloats(sampler.Output, outType)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read %s values: %w", name, i, ch.Target.Path, err)
		}

		times, values, err = gltfResolveInterpolation(sampler.Interpolation, times, values, width)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: %w", name, i, err)
		}
		if n := len(times); n > 0 && times[n-1] > duration {
			duration = times[n-1]
		}

		out, exists := byBone[bone]
		if !exists {
			out = &model.AnimationChannel{BoneIndex: bone}
			byBone[bone] = out
		}

		switch ch.Target.Path {
		case gltfAnimPathTranslation:
			out.PositionKeys = gltfVectorKeys(times, values)
		case gltfAnimPathScale:
			out.ScaleKeys = gltfVectorKeys(times, values)
		case gltfAnimPathRotation:
			keys := make([]model.QuaternionKeyframe, len(times))
			for k := range keys {
				keys[k] = model.QuaternionKeyframe{
					Time:  times[k],
					Value: common.QuatNormalize([4]float32(values[k*4 : k*4+4])),
				}
			}
			out.RotationKeys = keys
		}
	}

	channels := make([]model.AnimationChannel, 0, len(byBone))
	for _, ch := range byBone {
		channels = append(channels, *ch)
	}
	slices.SortFunc(channels, func(a, b model.AnimationChannel) int { return int(a.BoneIndex - b.BoneIndex) })

	return &model.AnimationClip{
		Name:           name,
		Duration:       duration,
		TicksPerSecond: 1,
		Channels:       channels,
	}, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAnimations(nodeToBone map[int]int32) ([]*model.AnimationClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	var clips []*model.AnimationClip
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i, nodeToBone)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		if len(clip.Channels) == 0 {
			continue
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// gltfResolveInterpolation rewrites sampler output so linear key interpolation reproduces it.
// STEP holds each value until just before the next key; CUBICSPLINE keeps only the spline
// values and drops the tangents.
func gltfResolveInterpolation(mode string, times, values []float32, width int) ([]float32, []float32, error) {
	switch mode {
	case "", gltfInterpolationLinear:
		if len(values) < len(times)*width {
			return nil, nil, fmt.Errorf("sampler has %d values for %d keys", len(values)/width, len(times))
		}
		return times, values[:len(times)*width], nil

	case gltfInterpolationCubicSpline:
		if len(values) < len(times)*width*3 {
			return nil, nil, fmt.Errorf("cubic sampler has %d values for %d keys", len(values)/width, len(times))
		}
		out := make([]float32, 0, len(times)*width)
		for k := range times {
			v := (k*3 + 1) * width
			out = append(out, values[v:v+width]...)
		}
		return times, out, nil

	case gltfInterpolationStep:
		if len(values) < len(times)*width {
			return nil, nil, fmt.Errorf("sampler has %d values for %d keys", len(values)/width, len(times))
		}
		outT := make([]float32, 0, len(times)*2)
		outV := make([]float32, 0, len(times)*2*width)
		for k := range times {
			outT = append(outT, times[k])
			outV = append(outV, values[k*width:(k+1)*width]...)
			if k+1 < len(times) && times[k+1]-stepEpsilon > times[k] {
				outT = append(outT, times[k+1]-stepEpsilon)
				outV = append(outV, values[k*width:(k+1)*width]...)
			}
		}
		return outT, outV, nil
	}
	return nil, nil, fmt.Errorf("unsupported interpolation %q", mode)
}

func gltfVectorKeys(times, values []float32) []model.VectorKeyframe {
	keys := make([]model.VectorKeyframe, len(times))
	for k := range keys {
		keys[k] = model.VectorKeyframe{Time: times[k], Value: [3]float32(values[k*3 : k*3+3])}
	}
	return keys
}
