package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scadview/csg/pkg/convert"
)

func TestParseDefaults(t *testing.T) {
	opts, err := Parse([]byte(""))
	require.NoError(t, err)

	def := convert.DefaultOptions()
	assert.Equal(t, def.Material, opts.Material)
	assert.True(t, opts.EnableOptimization)
	assert.Equal(t, def.MaxComplexity, opts.MaxComplexity)
	assert.Equal(t, def.Timeout, opts.Timeout)
}

func TestParseOverrides(t *testing.T) {
	doc := `
enable_optimization = false
max_complexity = 5000
mesh_cells = 64
timeout_ms = 250

[material]
color = "#3366ff"
opacity = 0.5
transparent = true
`
	opts, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.False(t, opts.EnableOptimization)
	assert.Equal(t, 5000, opts.MaxComplexity)
	assert.Equal(t, 64, opts.MeshCells)
	assert.Equal(t, 250*time.Millisecond, opts.Timeout)
	assert.Equal(t, "#3366ff", opts.Material.Color)
	assert.Equal(t, 0.5, opts.Material.Opacity)
	assert.True(t, opts.Material.Transparent)
}

func TestParseMaterialWithoutColor(t *testing.T) {
	opts, err := Parse([]byte("[material]\nopacity = 0.7\n"))
	require.NoError(t, err)

	assert.Equal(t, convert.DefaultMaterial().Color, opts.Material.Color)
	assert.Equal(t, 0.7, opts.Material.Opacity)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("max_complexity = ["))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_ms = 100\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, opts.Timeout)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
