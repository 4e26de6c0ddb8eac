package scene

import (
	gomath "math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/math"
)

// Helicopter and bullet tuning.
const (
	VerticalStep  = 0.02    // world units per vertical intent
	YawStep       = 10      // degrees per yaw intent
	MuzzleOffset  = 0.05    // bullets spawn this far above the helicopter origin
	BulletGravity = -0.0007 // vertical speed gain per second of flight
	BulletSpeed   = 0.1     // fraction of the helicopter step a bullet moves per tick
	MaxBullets    = 10
	// MaxLights is the key light plus one light per bullet.
	MaxLights = 1 + MaxBullets
	// PropellerStep is the propeller's spin rate in degrees per second.
	PropellerStep = 100
)

// HeliState is the helicopter's position and heading. Angle is in
// degrees about +Y, 0 facing +X.
type HeliState struct {
	X, Y, Z float32
	Radius  float32 // distance moved per forward intent
	Angle   float32
}

func NewHeliState() HeliState {
	return HeliState{X: 0, Y: 0.3, Z: 0, Radius: 0.02, Angle: 0}
}

// heading returns the unit step direction (cos a, -sin a) in XZ.
func (h *HeliState) heading() (float32, float32) {
	rad := float64(mgl32.DegToRad(h.Angle))
	return float32(gomath.Cos(rad)), -float32(gomath.Sin(rad))
}

func (h *HeliState) MoveVertical(dy float32) {
	h.Y += dy
}

// Advance moves the helicopter steps times Radius along its heading.
// Negative steps move it backwards.
func (h *HeliState) Advance(steps float32) {
	dx, dz := h.heading()
	h.X += steps * h.Radius * dx
	h.Z += steps * h.Radius * dz
}

func (h *HeliState) Yaw(deg float32) {
	h.Angle += deg
}

// Model returns T(x,y,z) * Ry(angle).
func (h *HeliState) Model() math.Transform {
	m := math.NewTransform()
	m.Translate(h.X, h.Y, h.Z)
	m.Rotate(math.AxisY, h.Angle)
	return m
}

// Bullet is a falling point light. Its horizontal step is applied once per
// tick, and its vertical step is recomputed every tick from the total time
// since spawn rather than accumulated.
type Bullet struct {
	X, Y, Z   float32
	DX, DZ    float32
	G         float32
	SpawnTime time.Time // zero until the first tick
	Light     *Light
}

// NewBullet spawns a bullet at the helicopter's muzzle, travelling along
// its heading, with a positional light attached.
func NewBullet(h HeliState) *Bullet {
	dx, dz := h.heading()
	b := &Bullet{
		X:  h.X,
		Y:  h.Y + MuzzleOffset,
		Z:  h.Z,
		DX: h.Radius * dx * BulletSpeed,
		DZ: h.Radius * dz * BulletSpeed,
		G:  BulletGravity,
	}
	b.Light = NewLight(mgl32.Vec4{b.X, b.Y, b.Z, 1}, 0.1, true)
	return b
}

// Advance steps the bullet to now and reports whether it has landed (y < 0).
func (b *Bullet) Advance(now time.Time) bool {
	if b.SpawnTime.IsZero() {
		b.SpawnTime = now
	}
	b.X += b.DX
	b.Y += b.G * float32(now.Sub(b.SpawnTime).Seconds())
	b.Z += b.DZ
	if b.Light != nil {
		b.Light.SetPoint(b.X, b.Y, b.Z)
	}
	return b.Y < 0
}

