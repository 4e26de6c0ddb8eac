package core

import "github.com/go-gl/mathgl/mgl32"

// Handles to device-side objects. Zero is never a valid handle.
type (
	ProgramID     uint32
	VertexArrayID uint32
	TextureID     uint32
	SamplerID     uint32
)

// Primitive selects how a draw call assembles vertices.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
	Points
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// VertexAttrib is one tightly packed float attribute stream.
type VertexAttrib struct {
	Location uint32
	Size     int32 // components per vertex (1..4)
	Data     []float32
}

// Count returns the number of vertices in the stream.
func (a VertexAttrib) Count() int {
	if a.Size <= 0 {
		return 0
	}
	return len(a.Data) / int(a.Size)
}

// GraphicsDevice is the subset of a graphics API the scene needs.
// All methods must be called from the thread that owns the context.
//
// Uniform setters ignore location -1, matching OpenGL semantics for
// uniforms the compiler optimised away.
type GraphicsDevice interface {
	// CompileProgram compiles and links a vertex/fragment pair.
	// Failures are reported as *ShaderError.
	CompileProgram(vertexSource, fragmentSource string) (ProgramID, error)
	UniformLocation(prog ProgramID, name string) int32
	// UseProgram binds prog; 0 unbinds.
	UseProgram(prog ProgramID)

	UniformMatrix4(loc int32, m mgl32.Mat4)
	Uniform4(loc int32, v mgl32.Vec4)
	Uniform3(loc int32, v mgl32.Vec3)
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)

	// CreateVertexArray uploads attribute streams and an optional index
	// buffer into a new vertex array. Failures are *ResourceCreationError.
	CreateVertexArray(attribs []VertexAttrib, indices []uint32) (VertexArrayID, error)
	// BindVertexArray binds vao; 0 unbinds.
	BindVertexArray(vao VertexArrayID)
	DrawElements(mode Primitive, count int32)
	DrawArrays(mode Primitive, first, count int32)

	// CreateTexture uploads a single-channel 8-bit image, row 0 first.
	CreateTexture(width, height int, pix []byte) (TextureID, error)
	// DeleteTexture frees tex; 0 is ignored.
	DeleteTexture(tex TextureID)
	CreateSampler(min, mag Filter) (SamplerID, error)
	BindTexture(unit uint32, tex TextureID, sampler SamplerID)

	Clear(c Color)
}
