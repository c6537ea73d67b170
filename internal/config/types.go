// Package config provides configuration management for the fieldexpr CLI.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/robbyt/go-fieldexpr/mesh"
)

// Default configuration values.
const (
	DefaultDim       = 2
	DefaultN         = 8
	DefaultOrder     = 4
	DefaultLogLevel  = "warn"
	DefaultChunkSize = 1024
	DefaultFileName  = "fieldexpr.yaml"
)

// Config holds all CLI configuration options.
type Config struct {
	Mesh      MeshConfig `koanf:"mesh"`
	Order     int        `koanf:"order"`
	Optimize  bool       `koanf:"optimize"`
	Compile   bool       `koanf:"compile"`
	Workers   int        `koanf:"workers"`
	ChunkSize int        `koanf:"chunk_size"`
	LogLevel  string     `koanf:"log_level"`

	// ConfigFile is the file the values were read from, if any.
	ConfigFile string `koanf:"-"`
}

// MeshConfig describes the structured mesh fields are integrated over.
type MeshConfig struct {
	Dim     int            `koanf:"dim"`
	N       int            `koanf:"n"`
	Regions []RegionConfig `koanf:"regions"`
}

// RegionConfig is one sub-domain shape. Kind is disk or rect in 2D and ball or block in 3D;
// disks and balls use Center and Radius, rects and blocks use Lo and Hi.
type RegionConfig struct {
	Kind   string    `koanf:"kind"`
	Center []float64 `koanf:"center"`
	Radius float64   `koanf:"radius"`
	Lo     []float64 `koanf:"lo"`
	Hi     []float64 `koanf:"hi"`
}

// ApplyDefaults fills in unset values.
func (c *Config) ApplyDefaults() {
	if c.Mesh.Dim == 0 {
		c.Mesh.Dim = DefaultDim
	}
	if c.Mesh.N == 0 {
		c.Mesh.N = DefaultN
	}
	if c.Order == 0 {
		c.Order = DefaultOrder
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mesh.Dim != 2 && c.Mesh.Dim != 3 {
		return fmt.Errorf("mesh.dim must be 2 or 3, got %d", c.Mesh.Dim)
	}
	if c.Mesh.N < 1 {
		return fmt.Errorf("mesh.n must be at least 1, got %d", c.Mesh.N)
	}
	if c.Order < 0 {
		return fmt.Errorf("order cannot be negative, got %d", c.Order)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Regions(); err != nil {
		return err
	}
	return nil
}

// Level maps log_level to a slog level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// Regions builds the configured sub-domain shapes in declaration order.
func (c *Config) Regions() ([]mesh.Region, error) {
	regions := make([]mesh.Region, 0, len(c.Mesh.Regions))
	for i, rc := range c.Mesh.Regions {
		r, err := rc.region(c.Mesh.Dim)
		if err != nil {
			return nil, fmt.Errorf("mesh.regions[%d]: %w", i, err)
		}
		regions = append(regions, r)
	}
	return regions, nil
}

func (rc RegionConfig) region(dim int) (mesh.Region, error) {
	kind := strings.ToLower(rc.Kind)
	want := map[string]int{"disk": 2, "rect": 2, "ball": 3, "block": 3}[kind]
	if want == 0 {
		return nil, fmt.Errorf("unknown region kind %q", rc.Kind)
	}
	if want != dim {
		return nil, fmt.Errorf("region kind %q needs a %dD mesh", kind, want)
	}

	switch kind {
	case "disk", "ball":
		if len(rc.Center) != dim {
			return nil, fmt.Errorf("%s center needs %d coordinates, got %d", kind, dim, len(rc.Center))
		}
		if kind == "disk" {
			return mesh.Disk(rc.Center[0], rc.Center[1], rc.Radius)
		}
		return mesh.Ball([3]float64{rc.Center[0], rc.Center[1], rc.Center[2]}, rc.Radius)
	default:
		if len(rc.Lo) != dim || len(rc.Hi) != dim {
			return nil, fmt.Errorf("%s corners need %d coordinates each", kind, dim)
		}
		if kind == "rect" {
			return mesh.Rect([2]float64{rc.Lo[0], rc.Lo[1]}, [2]float64{rc.Hi[0], rc.Hi[1]})
		}
		return mesh.Block([3]float64{rc.Lo[0], rc.Lo[1], rc.Lo[2]}, [3]float64{rc.Hi[0], rc.Hi[1], rc.Hi[2]})
	}
}

// BuildMesh constructs the configured mesh.
func (c *Config) BuildMesh(handler slog.Handler) (*mesh.Mesh, error) {
	regions, err := c.Regions()
	if err != nil {
		return nil, err
	}
	opts := []mesh.Option{mesh.WithLogHandler(handler)}
	if len(regions) > 0 {
		opts = append(opts, mesh.WithRegions(regions...))
	}
	if c.Mesh.Dim == 3 {
		return mesh.UnitCube(c.Mesh.N, opts...)
	}
	return mesh.UnitSquare(c.Mesh.N, opts...)
}
