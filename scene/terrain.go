package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
	"heliscene/math"
	"heliscene/renderer"
)

// DefaultTerrainSize is the number of grid cells along each side.
const DefaultTerrainSize = 300

// TerrainGrid is the texture-coordinate-only vertex grid of the terrain.
// Every cell has its own four corners.
type TerrainGrid struct {
	TexCoords []float32 // st pairs
	Indices   []uint32
}

// GenerateTerrainGrid builds an n x n cell grid over [0,1]^2.
func GenerateTerrainGrid(n int) (TerrainGrid, error) {
	if n < 1 {
		return TerrainGrid{}, fmt.Errorf("terrain size must be at least 1, got %d", n)
	}
	fn := float32(n)
	g := TerrainGrid{
		TexCoords: make([]float32, 0, n*n*8),
		Indices:   make([]uint32, 0, n*n*6),
	}
	var k uint32
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			s0, s1 := float32(j)/fn, float32(j+1)/fn
			t0, t1 := float32(i)/fn, float32(i+1)/fn
			g.TexCoords = append(g.TexCoords,
				s0, t0,
				s1, t0,
				s1, t1,
				s0, t1,
			)
			g.Indices = append(g.Indices, k, k+1, k+2, k, k+2, k+3)
			k += 4
		}
	}
	return g, nil
}

// Terrain is the height-displaced ground plane.
type Terrain struct {
	N         int
	Heightmap *Heightmap
	M         math.Transform

	vao        core.VertexArrayID
	indexCount int32
	tex        core.TextureID
	sampler    core.SamplerID
}

// TerrainModel returns the terrain's model matrix: lowered slightly and
// turned so the height axis points up.
func TerrainModel() math.Transform {
	m := math.NewTransform()
	m.Translate(0, -0.2, 0)
	m.Rotate(math.AxisX, -90)
	return m
}

// NewTerrain uploads an n x n grid and hm.
func NewTerrain(dev core.GraphicsDevice, n int, hm *Heightmap) (*Terrain, error) {
	grid, err := GenerateTerrainGrid(n)
	if err != nil {
		return nil, err
	}
	vao, err := dev.CreateVertexArray([]core.VertexAttrib{
		{Location: core.AttribTexCoord, Size: 2, Data: grid.TexCoords},
	}, grid.Indices)
	if err != nil {
		return nil, fmt.Errorf("terrain grid: %w", err)
	}
	sampler, err := dev.CreateSampler(core.FilterLinear, core.FilterLinear)
	if err != nil {
		return nil, fmt.Errorf("terrain sampler: %w", err)
	}

	t := &Terrain{
		N:          n,
		M:          TerrainModel(),
		vao:        vao,
		indexCount: int32(len(grid.Indices)),
		sampler:    sampler,
	}
	if err := t.SetHeightmap(dev, hm); err != nil {
		return nil, err
	}
	return t, nil
}

// SetHeightmap uploads hm and makes it the terrain's height source.
func (t *Terrain) SetHeightmap(dev core.GraphicsDevice, hm *Heightmap) error {
	if hm == nil || hm.Width == 0 || hm.Height == 0 {
		return fmt.Errorf("terrain: empty heightmap")
	}
	tex, err := dev.CreateTexture(hm.Width, hm.Height, hm.Pix)
	if err != nil {
		return fmt.Errorf("terrain heightmap: %w", err)
	}
	dev.DeleteTexture(t.tex)
	t.tex = tex
	t.Heightmap = hm
	return nil
}

// IndexCount returns the number of grid indices drawn per frame.
func (t *Terrain) IndexCount() int32 {
	return t.indexCount
}

// HeightAt returns the displaced z of grid point (u, v) in model space.
func (t *Terrain) HeightAt(u, v float32) float32 {
	return renderer.TerrainHeightScale * t.Heightmap.Sample(u, v)
}

// NormalAt returns the unit model-space normal at (u, v), computed with
// the same central differences as the vertex stage.
func (t *Terrain) NormalAt(u, v float32) mgl32.Vec3 {
	const sf = renderer.TerrainSlopeStep
	hm := t.Heightmap
	s := mgl32.Vec3{2, 0, (hm.Sample(u+sf, v) - hm.Sample(u-sf, v)) / (2 * sf)}
	tt := mgl32.Vec3{0, 2, (hm.Sample(u, v+sf) - hm.Sample(u, v-sf)) / (2 * sf)}
	return s.Cross(tt).Normalize()
}

// WorldPoint returns the world position of grid point (u, v).
func (t *Terrain) WorldPoint(u, v float32) mgl32.Vec3 {
	p := t.M.Apply(mgl32.Vec4{u*2 - 1, v*2 - 1, t.HeightAt(u, v), 1})
	return p.Vec3()
}

// GroundAt returns the world-space terrain height under world (x, z), and
// false when the point is outside the terrain.
func (t *Terrain) GroundAt(x, z float32) (float32, bool) {
	// inverse of WorldPoint for the fixed model: x = 2u-1, z = -(2v-1)
	u := (x + 1) / 2
	v := (1 - z) / 2
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, false
	}
	return t.WorldPoint(u, v).Y(), true
}

// Render draws the terrain with prog, which must be compiled for at
// least lights.Len() lights.
func (t *Terrain) Render(dev core.GraphicsDevice, prog *renderer.Program, lights *LightList, material *Material, view, proj mgl32.Mat4) {
	if prog == nil || t.vao == 0 {
		return
	}
	prog.Use()
	dev.BindVertexArray(t.vao)

	mv := view.Mul4(t.M.M)
	dev.UniformMatrix4(prog.Loc(renderer.UniformMV), mv)
	dev.UniformMatrix4(prog.Loc(renderer.UniformMVP), proj.Mul4(mv))

	UploadLights(dev, prog, lights, view)
	material.UploadTo(dev, prog)

	dev.BindTexture(core.HeightmapTextureUnit, t.tex, t.sampler)
	dev.Uniform1i(prog.Loc(renderer.UniformSampler), int32(core.HeightmapTextureUnit))

	dev.DrawElements(core.Triangles, t.indexCount)

	dev.BindVertexArray(0)
	dev.UseProgram(0)
}
