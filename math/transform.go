package math

import (
	"errors"
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Common axes.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
	AxisZ = mgl32.Vec3{0, 0, 1}
)

// ErrZeroScale is returned by Scale when a component would make the matrix singular.
var ErrZeroScale = errors.New("scale component must be non-zero")

// Transform is a mutable model matrix. Every operation post-multiplies,
// M = M * op, so the last operation applied is the first one a vertex sees.
type Transform struct {
	M mgl32.Mat4
}

// NewTransform returns an identity transform.
func NewTransform() Transform {
	return Transform{M: mgl32.Ident4()}
}

// Reset sets the transform back to identity.
func (t *Transform) Reset() {
	t.M = mgl32.Ident4()
}

func (t *Transform) Translate(x, y, z float32) {
	t.M = t.M.Mul4(mgl32.Translate3D(x, y, z))
}

// Rotate rotates by degrees about axis. A zero axis leaves the transform unchanged.
func (t *Transform) Rotate(axis mgl32.Vec3, degrees float32) {
	if axis.Len() == 0 {
		return
	}
	t.M = t.M.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis.Normalize()))
}

func (t *Transform) Scale(x, y, z float32) error {
	if x == 0 || y == 0 || z == 0 {
		return ErrZeroScale
	}
	t.M = t.M.Mul4(mgl32.Scale3D(x, y, z))
	return nil
}

// Multiply post-multiplies by other.
func (t *Transform) Multiply(other Transform) {
	t.M = t.M.Mul4(other.M)
}

// Copy overwrites t with src.
func (t *Transform) Copy(src Transform) {
	t.M = src.M
}

func (t Transform) Inverse() mgl32.Mat4 {
	return t.M.Inv()
}

// Apply transforms a homogeneous point or direction.
func (t Transform) Apply(v mgl32.Vec4) mgl32.Vec4 {
	return t.M.Mul4x1(v)
}

// Wrap360 maps degrees into [0, 360). Tiny negative inputs that round up
// to 360 in float32 wrap to 0.
func Wrap360(deg float32) float32 {
	d := gomath.Mod(float64(deg), 360)
	if d < 0 {
		d += 360
	}
	w := float32(d)
	if w >= 360 {
		w = 0
	}
	return w
}

// Spherical returns the point at radius r with azimuth rotate (measured in
// the XZ plane from +X towards +Z) and elevation tilt, both in degrees.
func Spherical(r, rotate, tilt float32) mgl32.Vec3 {
	rot := float64(mgl32.DegToRad(rotate))
	tl := float64(mgl32.DegToRad(tilt))
	horiz := float64(r) * gomath.Cos(tl)
	return mgl32.Vec3{
		float32(horiz * gomath.Cos(rot)),
		float32(float64(r) * gomath.Sin(tl)),
		float32(horiz * gomath.Sin(rot)),
	}
}
