// Package gltest provides a recording core.GraphicsDevice for tests.
package gltest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
)

// Source is the pair of stages a program was built from.
type Source struct {
	Vertex   string
	Fragment string
}

// Draw is one recorded draw call.
type Draw struct {
	Program core.ProgramID
	VAO     core.VertexArrayID
	Mode    core.Primitive
	First   int32
	Count   int32
	Indexed bool
}

// VertexArray is an uploaded vertex array.
type VertexArray struct {
	Attribs []core.VertexAttrib
	Indices []uint32
}

// Texture is an uploaded single-channel texture.
type Texture struct {
	Width, Height int
	Pix           []byte
}

// TextureBinding is what a texture unit holds.
type TextureBinding struct {
	Texture core.TextureID
	Sampler core.SamplerID
}

// Device records everything the scene does to the GPU.
type Device struct {
	// FailCompile makes CompileProgram fail for any source containing it.
	FailCompile string
	// FailVertexArray, FailTexture and FailSampler make the matching
	// creation call fail.
	FailVertexArray bool
	FailTexture     bool
	FailSampler     bool

	Programs     map[core.ProgramID]Source
	VertexArrays map[core.VertexArrayID]VertexArray
	Textures     map[core.TextureID]Texture
	Samplers     map[core.SamplerID][2]core.Filter
	Units        map[uint32]TextureBinding
	Draws        []Draw
	Clears       []core.Color
	// CompileCalls counts CompileProgram attempts, including failures.
	CompileCalls int

	BoundProgram core.ProgramID
	BoundVAO     core.VertexArrayID

	nextID    uint32
	locations map[core.ProgramID]map[string]int32
	names     map[int32]string
	values    map[int32]any
}

var errInjected = errors.New("injected failure")

func NewDevice() *Device {
	return &Device{
		Programs:     make(map[core.ProgramID]Source),
		VertexArrays: make(map[core.VertexArrayID]VertexArray),
		Textures:     make(map[core.TextureID]Texture),
		Samplers:     make(map[core.SamplerID][2]core.Filter),
		Units:        make(map[uint32]TextureBinding),
		locations:    make(map[core.ProgramID]map[string]int32),
		names:        make(map[int32]string),
		values:       make(map[int32]any),
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) CompileProgram(vs, fs string) (core.ProgramID, error) {
	d.CompileCalls++
	if d.FailCompile != "" {
		if strings.Contains(vs, d.FailCompile) {
			return 0, &core.ShaderError{Stage: core.StageVertex, Log: "injected: " + d.FailCompile}
		}
		if strings.Contains(fs, d.FailCompile) {
			return 0, &core.ShaderError{Stage: core.StageFragment, Log: "injected: " + d.FailCompile}
		}
	}
	id := core.ProgramID(d.id())
	d.Programs[id] = Source{Vertex: vs, Fragment: fs}
	d.locations[id] = make(map[string]int32)
	return id, nil
}

var lightArrayDecl = regexp.MustCompile(`uniform\s+TLight\s+light\[(\d+)\]`)
var lightIndex = regexp.MustCompile(`^light\[(\d+)\]\.`)

// active mimics the driver: uniforms a program never declares are inactive.
func active(src Source, name string) bool {
	all := src.Vertex + src.Fragment
	if m := lightIndex.FindStringSubmatch(name); m != nil {
		decl := lightArrayDecl.FindStringSubmatch(all)
		if decl == nil {
			return false
		}
		i, _ := strconv.Atoi(m[1])
		n, _ := strconv.Atoi(decl[1])
		return i < n
	}
	base := name
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		base = name[:dot]
	}
	return strings.Contains(all, " "+base+";") || strings.Contains(all, " "+base+"[")
}

func (d *Device) UniformLocation(prog core.ProgramID, name string) int32 {
	locs, ok := d.locations[prog]
	if !ok {
		return -1
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	if !active(d.Programs[prog], name) {
		locs[name] = -1
		return -1
	}
	loc := int32(d.id())
	locs[name] = loc
	d.names[loc] = name
	return loc
}

func (d *Device) UseProgram(prog core.ProgramID) { d.BoundProgram = prog }

func (d *Device) set(loc int32, v any) {
	if loc < 0 {
		return
	}
	d.values[loc] = v
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) { d.set(loc, m) }
func (d *Device) Uniform4(loc int32, v mgl32.Vec4)      { d.set(loc, v) }
func (d *Device) Uniform3(loc int32, v mgl32.Vec3)      { d.set(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)        { d.set(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32)          { d.set(loc, v) }

func (d *Device) CreateVertexArray(attribs []core.VertexAttrib, indices []uint32) (core.VertexArrayID, error) {
	if d.FailVertexArray {
		return 0, &core.ResourceCreationError{Resource: "vertex array", Err: errInjected}
	}
	id := core.VertexArrayID(d.id())
	d.VertexArrays[id] = VertexArray{Attribs: attribs, Indices: indices}
	return id, nil
}

func (d *Device) BindVertexArray(vao core.VertexArrayID) { d.BoundVAO = vao }

func (d *Device) DrawElements(mode core.Primitive, count int32) {
	d.Draws = append(d.Draws, Draw{Program: d.BoundProgram, VAO: d.BoundVAO, Mode: mode, Count: count, Indexed: true})
}

func (d *Device) DrawArrays(mode core.Primitive, first, count int32) {
	d.Draws = append(d.Draws, Draw{Program: d.BoundProgram, VAO: d.BoundVAO, Mode: mode, First: first, Count: count})
}

func (d *Device) CreateTexture(width, height int, pix []byte) (core.TextureID, error) {
	if d.FailTexture {
		return 0, &core.ResourceCreationError{Resource: "texture", Err: errInjected}
	}
	id := core.TextureID(d.id())
	d.Textures[id] = Texture{Width: width, Height: height, Pix: pix}
	return id, nil
}

func (d *Device) DeleteTexture(tex core.TextureID) {
	delete(d.Textures, tex)
}

func (d *Device) CreateSampler(min, mag core.Filter) (core.SamplerID, error) {
	if d.FailSampler {
		return 0, &core.ResourceCreationError{Resource: "sampler", Err: errInjected}
	}
	id := core.SamplerID(d.id())
	d.Samplers[id] = [2]core.Filter{min, mag}
	return id, nil
}

func (d *Device) BindTexture(unit uint32, tex core.TextureID, sampler core.SamplerID) {
	d.Units[unit] = TextureBinding{Texture: tex, Sampler: sampler}
}

func (d *Device) Clear(c core.Color) { d.Clears = append(d.Clears, c) }

// Uniform returns the last value written to name in prog.
func (d *Device) Uniform(prog core.ProgramID, name string) (any, bool) {
	loc, ok := d.locations[prog][name]
	if !ok || loc < 0 {
		return nil, false
	}
	v, ok := d.values[loc]
	return v, ok
}

// Float returns a float uniform or fails with a descriptive error.
func (d *Device) Float(prog core.ProgramID, name string) (float32, error) {
	v, ok := d.Uniform(prog, name)
	if !ok {
		return 0, fmt.Errorf("uniform %q not set", name)
	}
	f, ok := v.(float32)
	if !ok {
		return 0, fmt.Errorf("uniform %q is %T, not float32", name, v)
	}
	return f, nil
}

// Int returns an int uniform (bools are uploaded as ints).
func (d *Device) Int(prog core.ProgramID, name string) (int32, error) {
	v, ok := d.Uniform(prog, name)
	if !ok {
		return 0, fmt.Errorf("uniform %q not set", name)
	}
	i, ok := v.(int32)
	if !ok {
		return 0, fmt.Errorf("uniform %q is %T, not int32", name, v)
	}
	return i, nil
}

// ResetFrame forgets draws and clears but keeps resources.
func (d *Device) ResetFrame() {
	d.Draws = d.Draws[:0]
	d.Clears = d.Clears[:0]
}

// DrawsWith returns the draws issued while prog was bound.
func (d *Device) DrawsWith(prog core.ProgramID) []Draw {
	var out []Draw
	for _, dr := range d.Draws {
		if dr.Program == prog {
			out = append(out, dr)
		}
	}
	return out
}

var _ core.GraphicsDevice = (*Device)(nil)
