package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"heliscene/core"
)

// LoadGLTF opens a .glb or .gltf file and returns one sub-mesh per mesh
// primitive. Node transforms, materials and textures are not applied.
func LoadGLTF(path string) ([]SubMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	subs, err := readGLTFDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return subs, nil
}

func readGLTFDocument(doc *gltf.Document) ([]SubMesh, error) {
	var subs []SubMesh
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if _, ok := gltfKind(prim.Mode); !ok {
				continue
			}
			s, err := readGLTFPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d prim %d: %w", mi, pi, err)
			}
			subs = append(subs, s)
		}
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}
	return subs, nil
}

// gltfKind maps a primitive mode to the sub-mesh kind. Strips, loops and
// fans report false and are skipped.
func gltfKind(mode gltf.PrimitiveMode) (core.Primitive, bool) {
	switch mode {
	case gltf.PrimitiveTriangles:
		return core.Triangles, true
	case gltf.PrimitiveLines:
		return core.Lines, true
	case gltf.PrimitivePoints:
		return core.Points, true
	}
	return 0, false
}

func readGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (SubMesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}
	kind, _ := gltfKind(prim.Mode)

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return SubMesh{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return SubMesh{}, fmt.Errorf("positions: %w", err)
	}

	sub := SubMesh{Name: name, Kind: kind}
	sub.Positions = make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		sub.Positions = append(sub.Positions, p[0], p[1], p[2])
	}

	if prim.Indices != nil {
		sub.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return SubMesh{}, fmt.Errorf("indices: %w", err)
		}
		for _, i := range sub.Indices {
			if int(i) >= len(positions) {
				return SubMesh{}, fmt.Errorf("index %d out of range (%d vertices)", i, len(positions))
			}
		}
	} else {
		sub.Indices = make([]uint32, len(positions))
		for i := range sub.Indices {
			sub.Indices[i] = uint32(i)
		}
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return SubMesh{}, fmt.Errorf("normals: %w", err)
		}
		if len(normals) == len(positions) {
			sub.Normals = make([]float32, 0, len(normals)*3)
			for _, n := range normals {
				sub.Normals = append(sub.Normals, n[0], n[1], n[2])
			}
		}
	}
	if sub.Normals == nil {
		if kind == core.Triangles {
			sub.Normals = generateNormals(sub.Positions, sub.Indices)
		} else {
			sub.Normals = make([]float32, len(sub.Positions))
		}
	}
	return sub, nil
}
