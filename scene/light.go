package scene

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
	"heliscene/math"
	"heliscene/renderer"
)

// LightKind is derived from the w component of a light's position.
type LightKind int

const (
	Directional LightKind = iota
	Positional
)

func (k LightKind) String() string {
	if k == Positional {
		return "positional"
	}
	return "directional"
}

// Light is one entry of the shader's light array.
type Light struct {
	// Position is a point when W is 1 and a direction towards the light when W is 0.
	Position mgl32.Vec4
	Ambient  core.Color
	Diffuse  core.Color
	Specular core.Color
	Enabled  bool
	// Direction and CutoffAngle (degrees) describe a spot cone. The default
	// cutoff of 180 lights the full sphere.
	Direction   mgl32.Vec4
	CutoffAngle float32
	M           math.Transform
}

// NewLight returns a white light at pos with ambient a.
func NewLight(pos mgl32.Vec4, ambient float32, enabled bool) *Light {
	return &Light{
		Position:    pos,
		Ambient:     core.RGB(ambient, ambient, ambient),
		Diffuse:     core.ColorWhite,
		Specular:    core.ColorWhite,
		Enabled:     enabled,
		Direction:   mgl32.Vec4{0, -1, 0, 0},
		CutoffAngle: 180,
		M:           math.NewTransform(),
	}
}

func (l *Light) Kind() LightKind {
	if l.Position.W() == 1 {
		return Positional
	}
	return Directional
}

func (l *Light) SetKind(k LightKind) {
	if k == Positional {
		l.Position[3] = 1
	} else {
		l.Position[3] = 0
	}
}

func (l *Light) SetEnabled(on bool) {
	l.Enabled = on
}

// SetPoint moves the light, keeping its kind.
func (l *Light) SetPoint(x, y, z float32) {
	l.Position[0], l.Position[1], l.Position[2] = x, y, z
}

// UploadTo writes light[index] of prog in eye space.
func (l *Light) UploadTo(dev core.GraphicsDevice, prog *renderer.Program, index int, view mgl32.Mat4) {
	mv := view.Mul4(l.M.M)
	dev.Uniform4(prog.LightLoc(index, renderer.LightPosition), mv.Mul4x1(l.Position))
	dev.Uniform3(prog.LightLoc(index, renderer.LightAmbient), l.Ambient.Vec3())
	dev.Uniform3(prog.LightLoc(index, renderer.LightDiffuse), l.Diffuse.Vec3())
	dev.Uniform3(prog.LightLoc(index, renderer.LightSpecular), l.Specular.Vec3())
	dev.Uniform1i(prog.LightLoc(index, renderer.LightEnabled), boolToInt32(l.Enabled))
	dev.Uniform4(prog.LightLoc(index, renderer.LightDirection), mv.Mul4x1(l.Direction))
	dev.Uniform1f(prog.LightLoc(index, renderer.LightCutoff),
		float32(gomath.Cos(float64(l.CutoffAngle)*gomath.Pi/180)))
}

// RenderMarker draws the light as a point. Directional lights are drawn
// at their direction vector taken as a point.
func (l *Light) RenderMarker(dev core.GraphicsDevice, m *Marker, view, proj mgl32.Mat4) {
	if m == nil {
		return
	}
	p := l.Position
	p[3] = 1
	m.Draw(dev, proj.Mul4(view).Mul4(l.M.M), p, l.Diffuse)
}

// DisableLightSlot uploads enabled = false for light[index].
func DisableLightSlot(dev core.GraphicsDevice, prog *renderer.Program, index int) {
	dev.Uniform1i(prog.LightLoc(index, renderer.LightEnabled), 0)
}

// UploadLights writes every light of ls into prog and disables the
// remaining slots. Lights past prog.LightCount are dropped.
func UploadLights(dev core.GraphicsDevice, prog *renderer.Program, ls *LightList, view mgl32.Mat4) {
	n := 0
	if ls != nil {
		for i, l := range ls.All() {
			if i >= prog.LightCount {
				break
			}
			l.UploadTo(dev, prog, i, view)
			n++
		}
	}
	for i := n; i < prog.LightCount; i++ {
		DisableLightSlot(dev, prog, i)
	}
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Marker draws single points with a flat colour.
type Marker struct {
	Program *renderer.Program
	VAO     core.VertexArrayID
}

// NewMarker compiles the marker program and uploads its one-vertex array.
func NewMarker(dev core.GraphicsDevice) (*Marker, error) {
	prog, err := renderer.Compile(dev, renderer.MarkerVertexSource, renderer.MarkerFragmentSource, 0)
	if err != nil {
		return nil, err
	}
	vao, err := dev.CreateVertexArray([]core.VertexAttrib{
		{Location: core.AttribPosition, Size: 3, Data: []float32{0, 0, 0}},
	}, nil)
	if err != nil {
		return nil, err
	}
	return &Marker{Program: prog, VAO: vao}, nil
}

func (m *Marker) Draw(dev core.GraphicsDevice, mvp mgl32.Mat4, pos mgl32.Vec4, c core.Color) {
	m.Program.Use()
	dev.UniformMatrix4(m.Program.Loc(renderer.UniformMVP), mvp)
	dev.Uniform4(m.Program.Loc(renderer.UniformPosition), pos)
	dev.Uniform3(m.Program.Loc(renderer.UniformColor), c.Vec3())
	dev.BindVertexArray(m.VAO)
	dev.DrawArrays(core.Points, 0, 1)
	dev.BindVertexArray(0)
	dev.UseProgram(0)
}
