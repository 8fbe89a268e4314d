package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph/engine/anim_graph"
	"github.com/Carmen-Shannon/oxy-animgraph/engine/graph_asset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocomotion(t *testing.T) (string, *graph_asset.Graph) {
	t.Helper()
	b := graph_asset.NewBuilder("locomotion")
	idle := b.State("Idle", b.Clip("idle"))
	walk := b.State("Walk", b.Clip("walk"))
	b.Transition(idle, walk, b.Compare("Speed", graph_asset.OpGreater, 0.1), 0.2, graph_asset.Reversible())
	g, err := b.Root(b.StateMachine(idle, walk)).Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "locomotion.yaml")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, graph_asset.Encode(f, g))
	require.NoError(t, f.Close())
	return path, g
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "animgraph", root.Use)
	assert.NotEmpty(t, root.Short)
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"inspect", "simulate"})
}

func TestInspect(t *testing.T) {
	path, g := writeLocomotion(t)
	sum, err := graph_asset.Fingerprint(g)
	require.NoError(t, err)

	out, err := run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph:       locomotion")
	assert.Contains(t, out, "fingerprint: "+sum)
	assert.Contains(t, out, `"idle" loop=true sync=true`)
	assert.Contains(t, out, "Speed > 0.1")
	assert.Contains(t, out, "over 0.2s reversible")
	assert.Contains(t, out, `"Walk" child=`)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header block, blank line, column titles, one row per node
	assert.Len(t, lines, 4+1+1+len(g.Nodes))
}

func TestInspectRejectsMalformedGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nroot: 3\nnodes:\n  - kind: param\n    param: {parameter: 0}\nparameters: [x]\n"), 0o644))
	_, err := run(t, "inspect", path)
	assert.ErrorIs(t, err, graph_asset.ErrMalformedGraph)
}

func TestSimulateIdleToWalk(t *testing.T) {
	path, _ := writeLocomotion(t)
	out, err := run(t, "simulate", path,
		"--ticks", "26", "--dt", "0.05",
		"--set", "21:Speed=1",
		"--clip", "idle=2", "--clip", "walk=1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 26)
	assert.Equal(t, []string{"20", "Idle", "Sample"}, strings.Fields(lines[19]))
	assert.Equal(t, []string{"21", "Idle->Walk", "Sample", "Backup", "Sample", "Blend", "Backup"}, strings.Fields(lines[20]))
	assert.Equal(t, []string{"22", "Idle->Walk", "Restore", "Sample", "Blend", "Backup"}, strings.Fields(lines[21]))
	assert.Equal(t, []string{"25", "Walk", "Sample"}, strings.Fields(lines[24]))
}

func TestSimulateFlagErrors(t *testing.T) {
	path, _ := writeLocomotion(t)
	_, err := run(t, "simulate", path, "--set", "Speed=1")
	assert.ErrorContains(t, err, "TICK:NAME=VALUE")

	_, err = run(t, "simulate", path, "--clip", "idle=-1")
	assert.ErrorContains(t, err, "non-negative")

	_, err = run(t, "simulate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = run(t, "simulate", path, "--log-level", "loud")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestParseSchedule(t *testing.T) {
	s, err := parseSchedule([]string{"5:Speed=1.5", "2:Crouch=true", "5:Crouch=false"})
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, scheduleEntry{tick: 2, name: "Crouch", value: anim_graph.Bool(true)}, s[0])
	assert.Equal(t, "Speed", s[1].name, "same tick keeps command line order")
	assert.Equal(t, "Crouch", s[2].name)

	params := anim_graph.NewParameterSet()
	s.apply(5, params)
	v, ok := params.Get("Speed")
	require.True(t, ok)
	assert.Equal(t, float32(1.5), v.AsFloat())
	v, _ = params.Get("Crouch")
	assert.False(t, v.AsBool())

	for _, bad := range []string{"x:Speed=1", "0:Speed=1", "3:=1", "3:Speed=fast"} {
		_, err := parseSchedule([]string{bad})
		assert.Error(t, err, bad)
	}
}
