// Package config loads conversion options from a TOML document, the format
// used for project-level viewer settings. Absent fields keep their
// defaults, so a config file only needs to state what it changes.
package config

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/scadview/csg/pkg/convert"
	"github.com/scadview/csg/pkg/mesh"
)

// Config is the on-disk shape of conversion settings.
type Config struct {
	Material *mesh.Material `toml:"material"`

	// EnableOptimization is a pointer so an absent key keeps the default
	// (on) while an explicit false turns welding off.
	EnableOptimization *bool `toml:"enable_optimization"`

	MaxComplexity int `toml:"max_complexity"`
	MeshCells     int `toml:"mesh_cells"`
	TimeoutMs     int `toml:"timeout_ms"`
}

// Options converts the file form into runtime conversion options, filling
// defaults for everything the file leaves out.
func (c *Config) Options() convert.Options {
	opts := convert.DefaultOptions()
	if c.Material != nil {
		opts.Material = *c.Material
		if opts.Material.Color == "" {
			opts.Material.Color = convert.DefaultMaterial().Color
		}
	}
	if c.EnableOptimization != nil {
		opts.EnableOptimization = *c.EnableOptimization
	}
	if c.MaxComplexity > 0 {
		opts.MaxComplexity = c.MaxComplexity
	}
	if c.MeshCells > 0 {
		opts.MeshCells = c.MeshCells
	}
	if c.TimeoutMs > 0 {
		opts.Timeout = time.Duration(c.TimeoutMs) * time.Millisecond
	}
	return opts
}

// Parse decodes a TOML document into conversion options.
func Parse(data []byte) (convert.Options, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return convert.Options{}, fmt.Errorf("parsing config: %w", err)
	}
	return c.Options(), nil
}

// Load reads and parses a TOML config file.
func Load(path string) (convert.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return convert.Options{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}
