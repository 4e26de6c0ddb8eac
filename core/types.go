package core

import "github.com/go-gl/mathgl/mgl32"

// Color is an RGBA colour with float components in [0,1].
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}

	// ColorBackground is the clear colour of the scene.
	ColorBackground = Color{0.7, 0.7, 0.7, 1}
)

// RGB builds an opaque colour.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Vec3 returns the colour's RGB channels, the form uploaded to shaders.
func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// Attribute locations shared by every shader in the scene.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
	AttribTexCoord uint32 = 2
	AttribColor    uint32 = 3
)

// HeightmapTextureUnit is the texture unit the terrain samples its heightmap from.
const HeightmapTextureUnit uint32 = 3
