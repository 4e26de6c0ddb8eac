package scene

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/math"
)

// Camera defaults: the eye starts at (1,1,1) looking at the origin.
const (
	DefaultFOV    = 50
	NearPlane     = 1
	FarPlane      = 100
	RotateStep    = 10 // degrees per rotate intent
	TiltStep      = 5  // degrees per tilt intent
	ZoomStep      = 5  // degrees of field of view per zoom intent
	DefaultRotate = 45
)

// CameraState is an orbit camera around the origin. X, Y and Z are always
// derived from Radius, RotateAngle and TiltAngle.
type CameraState struct {
	FOV         float32 // degrees, unclamped
	X, Y, Z     float32
	Radius      float32
	RotateAngle float32 // degrees in the XZ plane from +X towards +Z
	TiltAngle   float32 // degrees above the XZ plane
}

// NewCameraState returns the initial camera: radius √3, 45° around, and
// tilted so the eye sits at (1,1,1).
func NewCameraState() CameraState {
	c := CameraState{
		FOV:         DefaultFOV,
		Radius:      float32(gomath.Sqrt(3)),
		RotateAngle: DefaultRotate,
		TiltAngle:   float32(gomath.Atan(1/gomath.Sqrt2) * 180 / gomath.Pi),
	}
	c.derive()
	return c
}

func (c *CameraState) derive() {
	p := math.Spherical(c.Radius, c.RotateAngle, c.TiltAngle)
	c.X, c.Y, c.Z = p.X(), p.Y(), p.Z()
}

// Rotate moves the eye around the vertical axis by deg degrees.
func (c *CameraState) Rotate(deg float32) {
	c.RotateAngle += deg
	c.derive()
}

// Tilt raises the eye by deg degrees of elevation.
func (c *CameraState) Tilt(deg float32) {
	c.TiltAngle += deg
	c.derive()
}

// Zoom narrows the field of view by deg degrees; negative values widen it.
func (c *CameraState) Zoom(deg float32) {
	c.FOV -= deg
}

func (c *CameraState) Eye() mgl32.Vec3 {
	return mgl32.Vec3{c.X, c.Y, c.Z}
}

// View looks from the eye at the origin with +Y up. Straight above or
// below the origin the up vector falls back to the camera's azimuth.
func (c *CameraState) View() mgl32.Mat4 {
	eye := c.Eye()
	up := mgl32.Vec3{0, 1, 0}
	if gomath.Abs(float64(eye.Normalize().Dot(up))) > 0.9999 {
		rot := float64(mgl32.DegToRad(c.RotateAngle))
		up = mgl32.Vec3{-float32(gomath.Cos(rot)), 0, -float32(gomath.Sin(rot))}
	}
	return mgl32.LookAtV(eye, mgl32.Vec3{}, up)
}

// Projection returns the perspective matrix for fov degrees at aspect.
func Projection(fov, aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fov), aspect, NearPlane, FarPlane)
}

