package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"heliscene/core"
)

// objVertex is one face/line/point vertex reference (0-based, -1 = absent).
type objVertex struct {
	v, vt, vn int
}

type objObject struct {
	name   string
	tris   [][3]objVertex
	lines  [][2]objVertex
	points []objVertex
}

func (o *objObject) empty() bool {
	return len(o.tris) == 0 && len(o.lines) == 0 && len(o.points) == 0
}

// LoadOBJ parses a Wavefront .obj file. Each object or group yields one
// triangle sub-mesh, plus Lines and Points sub-meshes for its l and p
// statements. Materials referenced by the file are ignored.
func LoadOBJ(path string) ([]SubMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	subs, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return subs, nil
}

// ParseOBJ reads Wavefront geometry from r.
func ParseOBJ(r io.Reader) ([]SubMesh, error) {
	var positions, normals [][3]float32
	var objects []*objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v", "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: %s needs 3 components", lineNo, fields[0])
			}
			var p [3]float32
			for i := 0; i < 3; i++ {
				x, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				p[i] = float32(x)
			}
			if fields[0] == "v" {
				positions = append(positions, p)
			} else {
				normals = append(normals, p)
			}

		case "o", "g":
			if !cur.empty() {
				objects = append(objects, cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name}

		case "f":
			if len(fields) < 4 {
				continue
			}
			verts := parseVertexList(fields[1:], len(positions), len(normals))
			// fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(verts); i++ {
				cur.tris = append(cur.tris, [3]objVertex{verts[0], verts[i], verts[i+1]})
			}

		case "l":
			verts := parseVertexList(fields[1:], len(positions), len(normals))
			for i := 0; i+1 < len(verts); i++ {
				cur.lines = append(cur.lines, [2]objVertex{verts[i], verts[i+1]})
			}

		case "p":
			cur.points = append(cur.points, parseVertexList(fields[1:], len(positions), len(normals))...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if !cur.empty() {
		objects = append(objects, cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}

	var subs []SubMesh
	for _, obj := range objects {
		if len(obj.tris) > 0 {
			var refs []objVertex
			for _, t := range obj.tris {
				refs = append(refs, t[:]...)
			}
			subs = append(subs, buildSubMesh(obj.name, core.Triangles, refs, positions, normals))
		}
		if len(obj.lines) > 0 {
			var refs []objVertex
			for _, l := range obj.lines {
				refs = append(refs, l[:]...)
			}
			subs = append(subs, buildSubMesh(obj.name+"_lines", core.Lines, refs, positions, normals))
		}
		if len(obj.points) > 0 {
			subs = append(subs, buildSubMesh(obj.name+"_points", core.Points, obj.points, positions, normals))
		}
	}
	return subs, nil
}

func parseVertexList(toks []string, nPos, nNorm int) []objVertex {
	out := make([]objVertex, 0, len(toks))
	for _, tok := range toks {
		out = append(out, parseObjVertex(tok, nPos, nNorm))
	}
	return out
}

// parseObjVertex parses "v", "v/vt", "v//vn" or "v/vt/vn". Negative
// indices count back from the most recent element.
func parseObjVertex(tok string, nPos, nNorm int) objVertex {
	idx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return -1
		}
		if i > 0 {
			return i - 1
		}
		return n + i
	}
	parts := strings.Split(tok, "/")
	res := objVertex{v: -1, vt: -1, vn: -1}
	res.v = idx(parts[0], nPos)
	if len(parts) > 2 {
		res.vn = idx(parts[2], nNorm)
	}
	return res
}

// buildSubMesh de-duplicates vertex references into an indexed sub-mesh.
// Triangle sub-meshes without normals get generated ones.
func buildSubMesh(name string, kind core.Primitive, refs []objVertex, positions, normals [][3]float32) SubMesh {
	type key struct{ v, vn int }
	seen := map[key]uint32{}
	sub := SubMesh{Name: name, Kind: kind}
	hasNormals := false

	for _, r := range refs {
		k := key{r.v, r.vn}
		if i, ok := seen[k]; ok {
			sub.Indices = append(sub.Indices, i)
			continue
		}
		var p [3]float32
		if r.v >= 0 && r.v < len(positions) {
			p = positions[r.v]
		}
		n := [3]float32{0, 1, 0}
		if r.vn >= 0 && r.vn < len(normals) {
			n = normals[r.vn]
			hasNormals = true
		}
		i := uint32(len(sub.Positions) / 3)
		sub.Positions = append(sub.Positions, p[:]...)
		sub.Normals = append(sub.Normals, n[:]...)
		seen[k] = i
		sub.Indices = append(sub.Indices, i)
	}

	if kind == core.Triangles && !hasNormals {
		sub.Normals = generateNormals(sub.Positions, sub.Indices)
	}
	return sub
}
