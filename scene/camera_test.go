package scene

import (
	gomath "math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b, tol float64) bool {
	return gomath.Abs(a-b) <= tol
}

// within is an absolute float32 tolerance for mgl32's ApproxFuncEqual.
func within(tol float32) func(a, b float32) bool {
	return func(a, b float32) bool { return near(float64(a), float64(b), float64(tol)) }
}

func TestCameraInitialEye(t *testing.T) {
	c := NewCameraState()
	if !c.Eye().ApproxFuncEqual(mgl32.Vec3{1, 1, 1}, within(1e-5)) {
		t.Errorf("expected eye (1,1,1), got %v", c.Eye())
	}
	if c.FOV != 50 {
		t.Errorf("expected fov 50, got %v", c.FOV)
	}
}

func TestCameraStaysOnSphere(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewCameraState()
	for i := 0; i < 500; i++ {
		switch rng.Intn(4) {
		case 0:
			c.Rotate(RotateStep)
		case 1:
			c.Rotate(-RotateStep)
		case 2:
			c.Tilt(TiltStep)
		case 3:
			c.Tilt(-TiltStep)
		}
		r := float64(c.Radius)
		tilt := float64(mgl32.DegToRad(c.TiltAngle))
		horiz := r * gomath.Cos(tilt)
		xz := float64(c.X)*float64(c.X) + float64(c.Z)*float64(c.Z)
		if !near(xz, horiz*horiz, 1e-4) {
			t.Fatalf("step %d: x²+z² = %v, want %v", i, xz, horiz*horiz)
		}
		if !near(float64(c.Y), r*gomath.Sin(tilt), 1e-5) {
			t.Fatalf("step %d: y = %v, want %v", i, c.Y, r*gomath.Sin(tilt))
		}
	}
}

func TestCameraZoomUnclamped(t *testing.T) {
	c := NewCameraState()
	for i := 0; i < 12; i++ {
		c.Zoom(ZoomStep)
	}
	if c.FOV != -10 {
		t.Errorf("expected fov -10, got %v", c.FOV)
	}
}

func TestCameraViewLooksAtOrigin(t *testing.T) {
	c := NewCameraState()
	for _, tilt := range []float32{0, 90 - c.TiltAngle} {
		c.Tilt(tilt)
		v := c.View()
		origin := v.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
		// the origin lies on the view axis, in front of the camera
		if !near(float64(origin.X()), 0, 1e-5) || !near(float64(origin.Y()), 0, 1e-5) || origin.Z() >= 0 {
			t.Errorf("tilt %v: origin in eye space %v", c.TiltAngle, origin)
		}
		for _, f := range v {
			if gomath.IsNaN(float64(f)) {
				t.Fatalf("tilt %v: view has NaN", c.TiltAngle)
			}
		}
	}
}
