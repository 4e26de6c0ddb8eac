package renderer

import (
	"fmt"

	"heliscene/core"
)

// FragmentSourceFunc renders a fragment stage for a given light count.
type FragmentSourceFunc func(lightCount int) (string, error)

// ProgramCache holds one compiled program per light count. Programs are
// compiled on first use and kept for the life of the process.
type ProgramCache struct {
	dev      core.GraphicsDevice
	vertex   string
	fragment FragmentSourceFunc

	programs map[int]*Program
	failed   map[int]error
	last     *Program
	compiles int
}

func NewProgramCache(dev core.GraphicsDevice, vertexSource string, fragment FragmentSourceFunc) *ProgramCache {
	return &ProgramCache{
		dev:      dev,
		vertex:   vertexSource,
		fragment: fragment,
		programs: make(map[int]*Program),
		failed:   make(map[int]error),
	}
}

// NewTerrainProgramCache returns a cache for the displaced terrain shader.
func NewTerrainProgramCache(dev core.GraphicsDevice) *ProgramCache {
	return NewProgramCache(dev, TerrainVertexSource(), TerrainFragmentSource)
}

// Acquire returns the program for n lights. When that program cannot be
// built the error is returned together with the last program handed out,
// which may be nil. Failures are remembered so a broken count is not
// recompiled every frame.
func (c *ProgramCache) Acquire(n int) (*Program, error) {
	if p, ok := c.programs[n]; ok {
		c.last = p
		return p, nil
	}
	if err, ok := c.failed[n]; ok {
		return c.last, err
	}

	p, err := c.build(n)
	if err != nil {
		err = fmt.Errorf("program for %d lights: %w", n, err)
		c.failed[n] = err
		return c.last, err
	}
	c.programs[n] = p
	c.last = p
	return p, nil
}

func (c *ProgramCache) build(n int) (*Program, error) {
	fs, err := c.fragment(n)
	if err != nil {
		return nil, err
	}
	c.compiles++
	return Compile(c.dev, c.vertex, fs, n)
}

// Compiles reports how many programs the cache has attempted to build.
func (c *ProgramCache) Compiles() int {
	return c.compiles
}

// Len reports how many light counts have a compiled program.
func (c *ProgramCache) Len() int {
	return len(c.programs)
}
