package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
)

// loaderBackend imports skeletons and animation clips from one file format.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports the skeleton and clips of the file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//   - opts: the import options
	//
	// Returns:
	//   - *model.AnimationSet: the imported skeleton and clips
	//   - error: error if loading fails
	Load(path string, opts importOptions) (*model.AnimationSet, error)

	// LoadReader imports from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing file data
	//   - isGLB: true if the reader provides GLB binary data
	//   - opts: the import options
	//
	// Returns:
	//   - *model.AnimationSet: the imported skeleton and clips
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool, opts importOptions) (*model.AnimationSet, error)
}

// importOptions carries loader configuration down to a backend.
type importOptions struct {
	skinIndex    int
	skeletonName string
	skipClips    bool
}
