package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
)

// SubMesh is one piece of imported geometry. Positions and Normals are
// flat xyz triples; Indices index into them.
type SubMesh struct {
	Name      string
	Kind      core.Primitive
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the sub-mesh.
func (s *SubMesh) VertexCount() int {
	return len(s.Positions) / 3
}

// LoadModel imports path with the loader matching its extension. Every
// failure is a *core.AssetLoadFailure.
func LoadModel(path string) ([]SubMesh, error) {
	var (
		subs []SubMesh
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		subs, err = LoadOBJ(path)
	case ".gltf", ".glb":
		subs, err = LoadGLTF(path)
	default:
		err = fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &core.AssetLoadFailure{Path: path, Err: err}
	}
	return subs, nil
}

// Triangles returns only the triangle sub-meshes of subs.
func Triangles(subs []SubMesh) []SubMesh {
	out := make([]SubMesh, 0, len(subs))
	for _, s := range subs {
		if s.Kind == core.Triangles {
			out = append(out, s)
		}
	}
	return out
}

// Merge concatenates triangle sub-meshes into one, rebasing indices.
// Non-triangle sub-meshes are skipped.
func Merge(name string, subs []SubMesh) SubMesh {
	out := SubMesh{Name: name, Kind: core.Triangles}
	for _, s := range Triangles(subs) {
		base := uint32(len(out.Positions) / 3)
		out.Positions = append(out.Positions, s.Positions...)
		out.Normals = append(out.Normals, s.Normals...)
		for _, i := range s.Indices {
			out.Indices = append(out.Indices, base+i)
		}
	}
	return out
}

// generateNormals writes area-weighted vertex normals for a triangle list.
// Triangles referencing missing vertices are skipped.
func generateNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	nv := uint32(len(positions) / 3)
	for i := 0; i+2 < len(indices); i += 3 {
		if indices[i] >= nv || indices[i+1] >= nv || indices[i+2] >= nv {
			continue
		}
		i0, i1, i2 := indices[i]*3, indices[i+1]*3, indices[i+2]*3
		ax, ay, az := positions[i1]-positions[i0], positions[i1+1]-positions[i0+1], positions[i1+2]-positions[i0+2]
		bx, by, bz := positions[i2]-positions[i0], positions[i2+1]-positions[i0+1], positions[i2+2]-positions[i0+2]
		nx, ny, nz := ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx
		for _, v := range [3]uint32{i0, i1, i2} {
			normals[v] += nx
			normals[v+1] += ny
			normals[v+2] += nz
		}
	}
	for v := 0; v+2 < len(normals); v += 3 {
		n := mgl32.Vec3{normals[v], normals[v+1], normals[v+2]}.Len()
		if n == 0 {
			normals[v+1] = 1
			continue
		}
		normals[v] /= n
		normals[v+1] /= n
		normals[v+2] /= n
	}
	return normals
}
