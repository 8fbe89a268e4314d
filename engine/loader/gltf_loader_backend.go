package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-animgraph/common"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string, opts importOptions) (*model.AnimationSet, error) {
	p := newGLTFParser()
	if err := p.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	opts.skeletonName = common.Coalesce(opts.skeletonName, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	return b.extract(p, opts)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, isGLB bool, opts importOptions) (*model.AnimationSet, error) {
	p := newGLTFParser()
	if err := p.ParseReader(r, isGLB, ""); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return b.extract(p, opts)
}

// extract pulls the selected skin and the clips that animate it out of a parsed document.
// A document with no skin yields a nil skeleton and no clips.
func (b *gltfLoaderBackendImpl) extract(p gltfParser, opts importOptions) (*model.AnimationSet, error) {
	doc := p.Document()
	set := &model.AnimationSet{}
	if len(doc.Skins) == 0 {
		return set, nil
	}

	skeleton, nodeToBone, err := newGLTFSkeletonExtractor(p).ExtractSkeleton(opts.skinIndex, opts.skeletonName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract skeleton: %w", err)
	}
	set.Skeleton = skeleton

	if opts.skipClips {
		return set, nil
	}
	clips, err := newGLTFAnimationExtractor(p).ExtractAnimations(nodeToBone)
	if err != nil {
		return nil, fmt.Errorf("failed to extract animations: %w", err)
	}
	set.Clips = clips
	return set, nil
}
