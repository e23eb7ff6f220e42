package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bft-labs/replay/pkg/replay"
)

func samplePlan(t *testing.T) replay.Plan {
	t.Helper()
	dir := t.TempDir()
	p2 := filepath.Join(dir, "2.mkv")
	require.NoError(t, os.WriteFile(p2, make([]byte, 2000), 0o644))
	return replay.Plan{Segments: []replay.Segment{
		{Seq: 2, Path: p2, Duration: 5, Inpoint: 1, Partial: true},
		{Seq: 3, Path: filepath.Join(dir, "3.mkv"), Duration: 2},
	}}
}

func TestWritePlan_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, "yaml", 6, samplePlan(t)))

	var doc planDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 6.0, doc.Requested)
	assert.Equal(t, 6.0, doc.Covered)
	require.Len(t, doc.Segments, 2)
	assert.Equal(t, 1.0, doc.Segments[0].Inpoint)
	assert.Equal(t, "2.0 kB", doc.Segments[0].Size)
	assert.Empty(t, doc.Segments[1].Size)
	assert.NotContains(t, buf.String(), "inpoint: 0")
}

func TestWritePlan_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, "text", 6, samplePlan(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "SEQ"))
	assert.Contains(t, lines[1], "1s")
	assert.Contains(t, lines[1], "2.0 kB")
	assert.Equal(t, "covered 6s of 6s", lines[len(lines)-1])
}

func TestWritePlan_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, "text", 0, replay.Plan{}))
	assert.Equal(t, "nothing to play\n", buf.String())
}
