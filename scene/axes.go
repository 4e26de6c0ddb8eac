package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
	"heliscene/renderer"
)

// Axes draws the world X (red), Y (green) and Z (blue) axes as lines.
type Axes struct {
	Length  float32
	Program *renderer.Program

	vao core.VertexArrayID
}

// NewAxes compiles the line program and uploads the three segments.
func NewAxes(dev core.GraphicsDevice, length float32) (*Axes, error) {
	prog, err := renderer.Compile(dev, renderer.AxesVertexSource, renderer.AxesFragmentSource, 0)
	if err != nil {
		return nil, err
	}
	l := length
	positions := []float32{
		0, 0, 0, l, 0, 0,
		0, 0, 0, 0, l, 0,
		0, 0, 0, 0, 0, l,
	}
	colors := []float32{
		1, 0, 0, 1, 1, 0, 0, 1,
		0, 1, 0, 1, 0, 1, 0, 1,
		0, 0, 1, 1, 0, 0, 1, 1,
	}
	vao, err := dev.CreateVertexArray([]core.VertexAttrib{
		{Location: core.AttribPosition, Size: 3, Data: positions},
		{Location: core.AttribColor, Size: 4, Data: colors},
	}, nil)
	if err != nil {
		return nil, err
	}
	return &Axes{Length: length, Program: prog, vao: vao}, nil
}

func (a *Axes) Render(dev core.GraphicsDevice, view, proj mgl32.Mat4) {
	a.Program.Use()
	dev.UniformMatrix4(a.Program.Loc(renderer.UniformMVP), proj.Mul4(view))
	dev.BindVertexArray(a.vao)
	dev.DrawArrays(core.Lines, 0, 6)
	dev.BindVertexArray(0)
	dev.UseProgram(0)
}
