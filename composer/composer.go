package composer

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/harmonica"

	"heliscene/core"
	"heliscene/input"
	"heliscene/math"
	"heliscene/renderer"
	"heliscene/scene"
)

// Materials of the three lit objects.
const (
	HeliMaterial      = "chrome"
	PropellerMaterial = "gold"
	TerrainMaterial   = "copper"
)

// hillsSize is the resolution of the procedural heightmap used until a
// heightmap file has been loaded.
const hillsSize = 256

// Composer owns the scene state and its GPU resources. Apply, Simulate and
// Render must all run on the render thread.
type Composer struct {
	cfg    Config
	dev    core.GraphicsDevice
	logger *log.Logger
	state  *SceneState

	heli      *scene.Mesh
	propeller *scene.Mesh
	terrain   *scene.Terrain
	axes      *scene.Axes
	marker    *scene.Marker

	heliProgram     *renderer.Program
	heliProgramErr  error
	terrainPrograms *renderer.ProgramCache
	terrainProgram  *renderer.Program

	assets  chan assetResult
	pending int

	last   time.Time
	aspect float32

	lens    harmonica.Spring
	fov     float64
	fovRate float64

	lastIntent input.Intent
}

// New builds the scene on dev. Resources that cannot be created are logged
// and left out of the frame; a helicopter shader failure is reported by
// every Render.
func New(dev core.GraphicsDevice, cfg Config) (*Composer, error) {
	if dev == nil {
		return nil, errors.New("composer: nil graphics device")
	}
	cfg.normalize()
	c := &Composer{
		cfg:             cfg,
		dev:             dev,
		logger:          cfg.Logger,
		state:           NewSceneState(),
		heli:            scene.NewMesh("heli"),
		propeller:       scene.NewMesh("propeller"),
		terrainPrograms: renderer.NewTerrainProgramCache(dev),
		assets:          make(chan assetResult, 3),
		aspect:          1,
		lens:            harmonica.NewSpring(harmonica.FPS(cfg.FPS), 6.0, 1.0),
	}
	c.fov = float64(c.state.Camera.FOV)

	var err error
	if c.axes, err = scene.NewAxes(dev, cfg.AxesLength); err != nil {
		c.logger.Printf("axes unavailable: %v", err)
	}
	if c.marker, err = scene.NewMarker(dev); err != nil {
		c.logger.Printf("light markers unavailable: %v", err)
	}
	if c.terrain, err = scene.NewTerrain(dev, cfg.TerrainSize, scene.HillsHeightmap(hillsSize)); err != nil {
		c.logger.Printf("terrain unavailable: %v", err)
		c.terrain = nil
	}

	fs, err := renderer.BlinnPhongFragmentSource(scene.MaxLights)
	if err != nil {
		return nil, fmt.Errorf("composer: %w", err)
	}
	c.heliProgram, c.heliProgramErr = renderer.Compile(dev, renderer.MeshVertexSource, fs, scene.MaxLights)
	if c.heliProgramErr != nil {
		c.heliProgramErr = fmt.Errorf("helicopter program: %w", c.heliProgramErr)
		c.logger.Printf("%v", c.heliProgramErr)
	}
	return c, nil
}

func (c *Composer) State() *SceneState {
	return c.state
}

// Terrain returns the terrain, or nil when it could not be created.
func (c *Composer) Terrain() *scene.Terrain {
	return c.terrain
}

// TerrainProgram returns the program the last Render drew the terrain with.
func (c *Composer) TerrainProgram() *renderer.Program {
	return c.terrainProgram
}

// SetAspect sets the projection aspect ratio unless Config.Aspect forces one.
func (c *Composer) SetAspect(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

func (c *Composer) projectionAspect() float32 {
	if c.cfg.Aspect > 0 {
		return c.cfg.Aspect
	}
	return c.aspect
}

// DisplayedFOV is the field of view the projection uses. Without smoothing
// it is always the camera's.
func (c *Composer) DisplayedFOV() float32 {
	if !c.cfg.SmoothZoom {
		return c.state.Camera.FOV
	}
	return float32(c.fov)
}

// LastIntent returns the most recently applied intent.
func (c *Composer) LastIntent() input.Intent {
	return c.lastIntent
}

// Apply mutates the scene for one intent and reports whether it changed
// anything. Quit and None are left to the caller.
func (c *Composer) Apply(in input.Intent) bool {
	s := c.state
	switch in {
	case input.MoveUp:
		s.Heli.MoveVertical(scene.VerticalStep)
	case input.MoveDown:
		s.Heli.MoveVertical(-scene.VerticalStep)
	case input.Forward:
		s.Heli.Advance(1)
	case input.Backward:
		s.Heli.Advance(-1)
	case input.YawLeft:
		s.Heli.Yaw(scene.YawStep)
	case input.YawRight:
		s.Heli.Yaw(-scene.YawStep)
	case input.CameraRotateLeft:
		s.Camera.Rotate(scene.RotateStep)
	case input.CameraRotateRight:
		s.Camera.Rotate(-scene.RotateStep)
	case input.CameraTiltUp:
		s.Camera.Tilt(scene.TiltStep)
	case input.CameraTiltDown:
		s.Camera.Tilt(-scene.TiltStep)
	case input.ZoomIn:
		s.Camera.Zoom(scene.ZoomStep)
	case input.ZoomOut:
		s.Camera.Zoom(-scene.ZoomStep)
	case input.Fire:
		if !c.fire() {
			return false
		}
	default:
		return false
	}
	c.lastIntent = in
	return true
}

// fire spawns a bullet and its light unless the bullet cap is reached.
func (c *Composer) fire() bool {
	s := c.state
	if len(s.Bullets) >= scene.MaxBullets {
		return false
	}
	b := scene.NewBullet(s.Heli)
	s.Bullets = append(s.Bullets, b)
	s.Lights.Append(b.Light)
	return true
}

// Simulate applies finished asset loads, advances the bullets and spins
// the propeller by the wall-clock time since the previous call.
func (c *Composer) Simulate(now time.Time) {
	c.drainAssets()

	if c.last.IsZero() {
		c.last = now
	}
	elapsed := now.Sub(c.last)
	c.last = now

	s := c.state
	for i := len(s.Bullets) - 1; i >= 0; i-- {
		b := s.Bullets[i]
		if b.Advance(now) {
			s.Bullets = append(s.Bullets[:i], s.Bullets[i+1:]...)
			s.Lights.Remove(b.Light)
		}
	}

	ms := float32(elapsed.Seconds() * 1000)
	s.PropellerSpin.Rotate(math.AxisY, math.Wrap360(scene.PropellerStep*ms/1000))

	if c.cfg.SmoothZoom {
		c.fov, c.fovRate = c.lens.Update(c.fov, c.fovRate, float64(s.Camera.FOV))
	}
}

// Render draws one frame: axes, light markers, helicopter, terrain. Shader
// failures are joined into the returned error; the rest of the frame is
// still drawn.
func (c *Composer) Render() error {
	var errs []error
	s := c.state

	c.dev.Clear(c.cfg.Background)
	view := s.Camera.View()
	proj := scene.Projection(c.DisplayedFOV(), c.projectionAspect())

	if c.axes != nil {
		c.axes.Render(c.dev, view, proj)
	}

	for i, l := range s.Lights.All() {
		if i == 0 {
			l.SetKind(scene.Directional)
		} else {
			l.SetKind(scene.Positional)
		}
		l.SetEnabled(true)
		l.RenderMarker(c.dev, c.marker, view, proj)
	}

	if c.heliProgram != nil {
		model := s.Heli.Model()
		c.heli.M.Copy(model)
		c.propeller.M.Copy(model)
		c.propeller.M.Multiply(s.PropellerSpin)

		c.heli.Render(c.dev, c.heliProgram, s.Lights, scene.MustMaterial(HeliMaterial), view, proj)
		c.propeller.Render(c.dev, c.heliProgram, s.Lights, scene.MustMaterial(PropellerMaterial), view, proj)
		c.dev.UseProgram(0)
	} else if c.heliProgramErr != nil {
		errs = append(errs, c.heliProgramErr)
	}

	if c.terrain != nil {
		prog, err := c.terrainPrograms.Acquire(s.LightCount())
		if err != nil {
			errs = append(errs, err)
		}
		c.terrainProgram = prog
		c.terrain.Render(c.dev, prog, s.Lights, scene.MustMaterial(TerrainMaterial), view, proj)
	}
	return errors.Join(errs...)
}

// Tick runs one frame at now.
func (c *Composer) Tick(now time.Time) error {
	c.Simulate(now)
	return c.Render()
}

// Status is a one-line summary for the window title.
func (c *Composer) Status() string {
	h := c.state.Heli
	status := fmt.Sprintf("heliscene | %s | lights %d | heli (%.2f, %.2f, %.2f) heading %.0f°",
		c.lastIntent, c.state.LightCount(), h.X, h.Y, h.Z, math.Wrap360(h.Angle))
	if c.terrain != nil {
		if ground, ok := c.terrain.GroundAt(h.X, h.Z); ok {
			status += fmt.Sprintf(" | alt %.2f", h.Y-ground)
		}
	}
	return status
}
