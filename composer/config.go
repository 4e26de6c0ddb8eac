package composer

import (
	"log"

	"heliscene/core"
	"heliscene/scene"
)

// Config holds the scene settings the command line can override.
type Config struct {
	// Asset paths. An empty path keeps the built-in fallback: no geometry
	// for the meshes, procedural hills for the heightmap.
	HeliPath      string
	PropellerPath string
	HeightmapPath string

	TerrainSize int
	AxesLength  float32
	Background  core.Color

	// Aspect forces the projection aspect ratio when non-zero.
	Aspect float32

	// SmoothZoom springs the displayed field of view toward the camera's.
	SmoothZoom bool
	FPS        int

	Logger *log.Logger
}

// DefaultConfig reads the models and heightmap from ./resources.
func DefaultConfig() Config {
	return Config{
		HeliPath:      "resources/heli.obj",
		PropellerPath: "resources/propeller.obj",
		HeightmapPath: "resources/heightmap.jpg",
		TerrainSize:   scene.DefaultTerrainSize,
		AxesLength:    1,
		Background:    core.ColorBackground,
		FPS:           60,
		Logger:        log.Default(),
	}
}

func (c *Config) normalize() {
	if c.TerrainSize < 1 {
		c.TerrainSize = scene.DefaultTerrainSize
	}
	if c.AxesLength <= 0 {
		c.AxesLength = 1
	}
	if c.FPS < 1 {
		c.FPS = 60
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}
