package resource

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/loader"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGLTF writes a one-joint model with a single translation clip named clipName.
func writeGLTF(t *testing.T, dir, file, clipName string) string {
	t.Helper()
	var buf bytes.Buffer
	for _, f := range []float32{0, 0.5, 0, 0, 0, 0, 1, 0} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, f))
	}
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"nodes": []any{map[string]any{"name": "root"}},
		"skins": []any{map[string]any{"joints": []int{0}}},
		"buffers": []any{map[string]any{
			"byteLength": buf.Len(),
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		}},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 8},
			map[string]any{"buffer": 0, "byteOffset": 8, "byteLength": 24},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 2, "type": "SCALAR"},
			map[string]any{"bufferView": 1, "componentType": 5126, "count": 2, "type": "VEC3"},
		},
		"animations": []any{map[string]any{
			"name":     clipName,
			"samplers": []any{map[string]any{"input": 0, "output": 1}},
			"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": 0, "path": "translation"}}},
		}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRegisterAndUnloadClip(t *testing.T) {
	m := NewManager()

	h, err := m.RegisterClip(&model.AnimationClip{Name: "idle", Duration: 1})
	require.NoError(t, err)
	assert.Equal(t, ClipHandle("idle"), h)

	clip, ok := m.Clip(h)
	require.True(t, ok)
	assert.Equal(t, float32(1), clip.Duration)

	assert.True(t, m.UnloadClip(h))
	assert.False(t, m.UnloadClip(h))
	_, ok = m.Clip(h)
	assert.False(t, ok)
}

func TestRegisterRejectsInvalidResources(t *testing.T) {
	m := NewManager()
	_, err := m.RegisterClip(&model.AnimationClip{})
	assert.ErrorIs(t, err, ErrInvalidResource)
	assert.ErrorIs(t, m.RegisterSkeleton(nil), ErrInvalidResource)
}

func TestClipHandlesSorted(t *testing.T) {
	m := NewManager(
		WithClip(&model.AnimationClip{Name: "walk"}),
		WithClip(&model.AnimationClip{Name: "idle"}),
		WithClip(nil),
	)
	assert.Equal(t, []ClipHandle{"idle", "walk"}, m.ClipHandles())
}

func TestLoadFilesRegistersEverything(t *testing.T) {
	dir := t.TempDir()
	a := writeGLTF(t, dir, "hero.gltf", "idle")
	b := writeGLTF(t, dir, "hero_walk.gltf", "walk")

	m := NewManager(WithLoader(loader.NewLoader(loader.BackendTypeGLTF)), WithConcurrency(2))
	require.NoError(t, m.LoadFiles(context.Background(), a, b))

	assert.Equal(t, []ClipHandle{"idle", "walk"}, m.ClipHandles())
	skel, ok := m.Skeleton("hero")
	require.True(t, ok)
	assert.Equal(t, 1, skel.JointCount())

	walk, ok := m.Clip("walk")
	require.True(t, ok)
	assert.InDelta(t, 0.5, walk.Duration, 1e-6)
}

func TestLoadFilesReportsFailure(t *testing.T) {
	m := NewManager(WithLoader(loader.NewLoader(loader.BackendTypeGLTF)))
	err := m.LoadFiles(context.Background(), filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Error(t, err)
}

func TestLoadFileRequiresLoader(t *testing.T) {
	_, err := NewManager().LoadFile(context.Background(), "hero.gltf")
	assert.ErrorContains(t, err, "no loader configured")
}

func TestLoadFileHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewManager(WithLoader(loader.NewLoader(loader.BackendTypeGLTF)))
	_, err := m.LoadFile(ctx, writeGLTF(t, t.TempDir(), "hero.gltf", "idle"))
	assert.ErrorIs(t, err, context.Canceled)
}
