package loader

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-animgraph/common"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfSkeletonExtractor converts glTF skins into runtime skeletons whose joints are ordered
// parents-first, the order the sampler and mixer walk them in.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton extracts the skeleton of one skin and reports where each joint node landed.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//   - name: the name given to the resulting skeleton
	//
	// Returns:
	//   - *model.Skeleton: the extracted skeleton, parents before children
	//   - map[int]int32: glTF node index to skeleton bone index
	//   - error: error if the skin is missing or malformed
	ExtractSkeleton(skinIndex int, name string) (*model.Skeleton, map[int]int32, error)
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int, name string) (*model.Skeleton, map[int]int32, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, errNoDocument
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := &doc.Skins[skinIndex]

	var ibms []float32
	if skin.InverseBindMatrices != nil {
		var err error
		if ibms, err = e.parser.ReadFloats(*skin.InverseBindMatrices, gltfAccessorTypeMat4); err != nil {
			return nil, nil, fmt.Errorf("failed to read inverse bind matrices: %w", err)
		}
	}

	// slot: position of a node inside skin.Joints
	slot := make(map[int]int, len(skin.Joints))
	for i, nodeIdx := range skin.Joints {
		if nodeIdx < 0 || nodeIdx >= len(doc.Nodes) {
			return nil, nil, fmt.Errorf("joint %d: invalid node index %d", i, nodeIdx)
		}
		if _, dup := slot[nodeIdx]; dup {
			return nil, nil, fmt.Errorf("joint %d: node %d listed twice", i, nodeIdx)
		}
		slot[nodeIdx] = i
	}

	parentNode := make(map[int]int, len(doc.Nodes))
	for nodeIdx, node := range doc.Nodes {
		for _, child := range node.Children {
			parentNode[child] = nodeIdx
		}
	}

	// the nearest ancestor that is also a joint becomes the parent
	jointParent := func(nodeIdx int) int {
		seen := 0
		for p, ok := parentNode[nodeIdx]; ok && seen < len(doc.Nodes); p, ok = parentNode[p] {
			if s, isJoint := slot[p]; isJoint {
				return s
			}
			seen++
		}
		return -1
	}

	parents := make([]int, len(skin.Joints))
	for i, nodeIdx := range skin.Joints {
		parents[i] = jointParent(nodeIdx)
	}

	order, err := gltfParentFirstOrder(parents)
	if err != nil {
		return nil, nil, fmt.Errorf("skin %d: %w", skinIndex, err)
	}

	newIndex := make([]int32, len(order))
	for newIdx, oldIdx := range order {
		newIndex[oldIdx] = int32(newIdx)
	}

	bones := make([]model.Bone, len(order))
	nodeToBone := make(map[int]int32, len(order))
	for newIdx, oldIdx := range order {
		nodeIdx := skin.Joints[oldIdx]
		node := &doc.Nodes[nodeIdx]

		b := model.Bone{
			Name:              node.Name,
			ParentIndex:       -1,
			InverseBindMatrix: gltfIdentityMatrix(),
			RestTransform:     gltfExtractNodeTransform(node),
		}
		if b.Name == "" {
			b.Name = fmt.Sprintf("joint_%d", nodeIdx)
		}
		if parents[oldIdx] >= 0 {
			b.ParentIndex = newIndex[parents[oldIdx]]
		}
		if (oldIdx+1)*16 <= len(ibms) {
			copy(b.InverseBindMatrix[:], ibms[oldIdx*16:(oldIdx+1)*16])
		}

		bones[newIdx] = b
		nodeToBone[nodeIdx] = int32(newIdx)
	}

	if name == "" {
		name = skin.Name
	}
	skeleton, err := model.NewSkeleton(name, bones)
	if err != nil {
		return nil, nil, fmt.Errorf("skin %d: %w", skinIndex, err)
	}
	return skeleton, nodeToBone, nil
}

// gltfParentFirstOrder returns joint slots in depth-first order from the roots, keeping the
// declaration order among siblings. A parent cycle is reported as an error.
func gltfParentFirstOrder(parents []int) ([]int, error) {
	children := make([][]int, len(parents))
	var roots []int
	for i, p := range parents {
		if p < 0 {
			roots = append(roots, i)
		} else {
			children[p] = append(children[p], i)
		}
	}

	order := make([]int, 0, len(parents))
	stack := make([]int, 0, len(parents))
	for r := len(roots) - 1; r >= 0; r-- {
		stack = append(stack, roots[r])
	}
	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, j)
		for c := len(children[j]) - 1; c >= 0; c-- {
			stack = append(stack, children[j][c])
		}
	}

	if len(order) != len(parents) {
		return nil, fmt.Errorf("joint hierarchy has a cycle (%d of %d joints reachable)", len(order), len(parents))
	}
	return order, nil
}

// gltfExtractNodeTransform returns the node's local transform, decomposing Matrix when present.
func gltfExtractNodeTransform(node *gltfNode) model.Transform {
	if node.Matrix != nil {
		return gltfDecomposeMatrix(*node.Matrix)
	}

	t := model.IdentityTransform()
	if node.Translation != nil {
		t.Translation = *node.Translation
	}
	if node.Rotation != nil {
		t.Rotation = common.QuatNormalize(*node.Rotation)
	}
	if node.Scale != nil {
		t.Scale = *node.Scale
	}
	return t
}

func gltfIdentityMatrix() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// gltfDecomposeMatrix splits a column-major affine matrix into TRS. Shear is ignored.
func gltfDecomposeMatrix(m [16]float32) model.Transform {
	t := model.IdentityTransform()
	t.Translation = [3]float32{m[12], m[13], m[14]}

	col := func(c int) [3]float32 { return [3]float32{m[c*4], m[c*4+1], m[c*4+2]} }
	length := func(v [3]float32) float32 {
		return float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	}

	x, y, z := col(0), col(1), col(2)
	s := [3]float32{length(x), length(y), length(z)}
	t.Scale = s

	div := func(v [3]float32, l float32) [3]float32 {
		if l < 1e-4 {
			return v
		}
		return [3]float32{v[0] / l, v[1] / l, v[2] / l}
	}
	x, y, z = div(x, s[0]), div(y, s[1]), div(z, s[2])

	// element r_ij is row i, column j
	t.Rotation = gltfRotationToQuaternion(
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2],
	)
	return t
}

// gltfRotationToQuaternion converts a row-major 3x3 rotation into an (x, y, z, w) quaternion.
func gltfRotationToQuaternion(r00, r01, r02, r10, r11, r12, r20, r21, r22 float32) [4]float32 {
	sqrt := func(v float32) float32 { return float32(math.Sqrt(float64(v))) }

	var q [4]float32
	switch trace := r00 + r11 + r22; {
	case trace > 0:
		s := sqrt(trace+1) * 2
		q = [4]float32{(r21 - r12) / s, (r02 - r20) / s, (r10 - r01) / s, 0.25 * s}
	case r00 > r11 && r00 > r22:
		s := sqrt(1+r00-r11-r22) * 2
		q = [4]float32{0.25 * s, (r01 + r10) / s, (r02 + r20) / s, (r21 - r12) / s}
	case r11 > r22:
		s := sqrt(1+r11-r00-r22) * 2
		q = [4]float32{(r01 + r10) / s, 0.25 * s, (r12 + r21) / s, (r02 - r20) / s}
	default:
		s := sqrt(1+r22-r00-r11) * 2
		q = [4]float32{(r02 + r20) / s, (r12 + r21) / s, 0.25 * s, (r10 - r01) / s}
	}
	return common.QuatNormalize(q)
}
