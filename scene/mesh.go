package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
	"heliscene/math"
	"heliscene/renderer"
)

// Mesh is an indexed triangle mesh with its own model transform.
// Geometry is uploaded once; until then Render draws nothing.
type Mesh struct {
	Name string
	M    math.Transform

	vao        core.VertexArrayID
	indexCount int32
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, M: math.NewTransform()}
}

// Ready reports whether geometry has been uploaded.
func (m *Mesh) Ready() bool {
	return m.vao != 0
}

// IndexCount returns the number of uploaded indices.
func (m *Mesh) IndexCount() int32 {
	return m.indexCount
}

// InitFromImportedGeometry validates and uploads flat position/normal
// triples and triangle indices. On failure the mesh stays empty.
func (m *Mesh) InitFromImportedGeometry(dev core.GraphicsDevice, positions, normals []float32, indices []uint32) error {
	if len(positions) == 0 || len(positions)%3 != 0 {
		return fmt.Errorf("mesh %q: position count %d is not a positive multiple of 3", m.Name, len(positions))
	}
	if len(normals) != len(positions) {
		return fmt.Errorf("mesh %q: %d normals for %d positions", m.Name, len(normals), len(positions))
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return fmt.Errorf("mesh %q: index count %d is not a positive multiple of 3", m.Name, len(indices))
	}
	nv := uint32(len(positions) / 3)
	for _, i := range indices {
		if i >= nv {
			return fmt.Errorf("mesh %q: index %d out of range (%d vertices)", m.Name, i, nv)
		}
	}

	vao, err := dev.CreateVertexArray([]core.VertexAttrib{
		{Location: core.AttribPosition, Size: 3, Data: positions},
		{Location: core.AttribNormal, Size: 3, Data: normals},
	}, indices)
	if err != nil {
		return fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	m.vao = vao
	m.indexCount = int32(len(indices))
	return nil
}

// InitFromSubMeshes merges the triangle sub-meshes and uploads them.
func (m *Mesh) InitFromSubMeshes(dev core.GraphicsDevice, subs []SubMesh) error {
	merged := Merge(m.Name, subs)
	return m.InitFromImportedGeometry(dev, merged.Positions, merged.Normals, merged.Indices)
}

// Render draws the mesh lit by lights with material. The program is left
// bound for the caller to reuse or clear.
func (m *Mesh) Render(dev core.GraphicsDevice, prog *renderer.Program, lights *LightList, material *Material, view, proj mgl32.Mat4) {
	if !m.Ready() || prog == nil {
		return
	}
	prog.Use()

	mv := view.Mul4(m.M.M)
	dev.UniformMatrix4(prog.Loc(renderer.UniformMV), mv)
	dev.UniformMatrix4(prog.Loc(renderer.UniformMVP), proj.Mul4(mv))

	UploadLights(dev, prog, lights, view)
	material.UploadTo(dev, prog)

	dev.BindVertexArray(m.vao)
	dev.DrawElements(core.Triangles, m.indexCount)
	dev.BindVertexArray(0)
}
