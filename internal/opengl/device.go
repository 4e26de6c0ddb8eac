package opengl

import (
	"fmt"
	"log"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
)

// vertexArray holds the buffer objects behind one VAO.
type vertexArray struct {
	vao     uint32
	buffers []uint32
}

// Device implements core.GraphicsDevice on an OpenGL 4.1 core context.
// Every method must be called on the thread that owns the context.
type Device struct {
	programs     []uint32
	vertexArrays map[core.VertexArrayID]vertexArray
	textures     []uint32
	samplers     []uint32
}

// NewDevice loads the GL entry points for the current context and sets the
// fixed pipeline state the scene relies on.
func NewDevice(logger *log.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	if logger != nil {
		logger.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	return &Device{vertexArrays: make(map[core.VertexArrayID]vertexArray)}, nil
}

func (d *Device) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// ── Programs ──────────────────────────────────────────────────────────────────

func (d *Device) CompileProgram(vertexSource, fragmentSource string) (core.ProgramID, error) {
	vert, err := compileShader(vertexSource, gl.VERTEX_SHADER, core.StageVertex)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER, core.StageFragment)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	if prog == 0 {
		return 0, &core.ResourceCreationError{Resource: "program", Err: glError()}
	}
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(infoLog))
		gl.DeleteProgram(prog)
		return 0, &core.ShaderError{Stage: core.StageLink, Log: strings.TrimRight(infoLog, "\x00")}
	}

	d.programs = append(d.programs, prog)
	return core.ProgramID(prog), nil
}

func compileShader(src string, shaderType uint32, stage core.ShaderStage) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, &core.ResourceCreationError{Resource: "shader", Err: glError()}
	}
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(infoLog))
		gl.DeleteShader(shader)
		return 0, &core.ShaderError{Stage: stage, Log: strings.TrimRight(infoLog, "\x00")}
	}
	return shader, nil
}

func (d *Device) UniformLocation(prog core.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(prog), gl.Str(name+"\x00"))
}

func (d *Device) UseProgram(prog core.ProgramID) {
	gl.UseProgram(uint32(prog))
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) Uniform4(loc int32, v mgl32.Vec4) {
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
}

func (d *Device) Uniform3(loc int32, v mgl32.Vec3) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}

func (d *Device) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Device) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

// ── Geometry ──────────────────────────────────────────────────────────────────

// CreateVertexArray uploads each attribute into its own buffer and the
// indices, if any, into an element buffer.
func (d *Device) CreateVertexArray(attribs []core.VertexAttrib, indices []uint32) (core.VertexArrayID, error) {
	var va vertexArray
	gl.GenVertexArrays(1, &va.vao)
	if va.vao == 0 {
		return 0, &core.ResourceCreationError{Resource: "vertex array", Err: glError()}
	}
	gl.BindVertexArray(va.vao)

	for _, a := range attribs {
		if len(a.Data) == 0 {
			continue
		}
		var vbo uint32
		gl.GenBuffers(1, &vbo)
		if vbo == 0 {
			gl.BindVertexArray(0)
			d.release(va)
			return 0, &core.ResourceCreationError{Resource: "vertex buffer", Err: glError()}
		}
		va.buffers = append(va.buffers, vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(a.Data)*4, gl.Ptr(a.Data), gl.STATIC_DRAW)
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointer(a.Location, a.Size, gl.FLOAT, false, 0, nil)
	}

	if len(indices) > 0 {
		var ebo uint32
		gl.GenBuffers(1, &ebo)
		if ebo == 0 {
			gl.BindVertexArray(0)
			d.release(va)
			return 0, &core.ResourceCreationError{Resource: "index buffer", Err: glError()}
		}
		va.buffers = append(va.buffers, ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	id := core.VertexArrayID(va.vao)
	d.vertexArrays[id] = va
	return id, nil
}

func (d *Device) release(va vertexArray) {
	if len(va.buffers) > 0 {
		gl.DeleteBuffers(int32(len(va.buffers)), &va.buffers[0])
	}
	gl.DeleteVertexArrays(1, &va.vao)
}

func (d *Device) BindVertexArray(vao core.VertexArrayID) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) DrawElements(mode core.Primitive, count int32) {
	gl.DrawElements(primitive(mode), count, gl.UNSIGNED_INT, nil)
}

func (d *Device) DrawArrays(mode core.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

func primitive(p core.Primitive) uint32 {
	switch p {
	case core.Lines:
		return gl.LINES
	case core.Points:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

func (d *Device) Clear(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Destroy frees every object the device created.
func (d *Device) Destroy() {
	for _, va := range d.vertexArrays {
		d.release(va)
	}
	d.vertexArrays = make(map[core.VertexArrayID]vertexArray)
	if len(d.textures) > 0 {
		gl.DeleteTextures(int32(len(d.textures)), &d.textures[0])
		d.textures = nil
	}
	if len(d.samplers) > 0 {
		gl.DeleteSamplers(int32(len(d.samplers)), &d.samplers[0])
		d.samplers = nil
	}
	for _, p := range d.programs {
		gl.DeleteProgram(p)
	}
	d.programs = nil
}

// glError returns the pending GL error, if any, as an error value.
func glError() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return fmt.Errorf("no object returned")
}

var _ core.GraphicsDevice = (*Device)(nil)
