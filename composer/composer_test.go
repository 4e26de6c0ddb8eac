package composer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/core"
	"heliscene/input"
	"heliscene/internal/gltest"
	"heliscene/renderer"
	"heliscene/scene"
)

const frame = 16 * time.Millisecond

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.HeliPath = ""
	cfg.PropellerPath = ""
	cfg.HeightmapPath = ""
	cfg.TerrainSize = 4
	cfg.Logger = log.New(io.Discard, "", 0)
	return cfg
}

func newComposer(t *testing.T, dev *gltest.Device, cfg Config) *Composer {
	t.Helper()
	c, err := New(dev, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestFireRespectsBulletCap(t *testing.T) {
	c := newComposer(t, gltest.NewDevice(), testConfig())
	for i := 0; i < scene.MaxBullets; i++ {
		if !c.Apply(input.Fire) {
			t.Fatalf("fire %d rejected", i)
		}
	}
	s := c.State()
	if len(s.Bullets) != scene.MaxBullets || s.LightCount() != scene.MaxLights {
		t.Fatalf("expected %d bullets and %d lights, got %d and %d",
			scene.MaxBullets, scene.MaxLights, len(s.Bullets), s.LightCount())
	}
	if c.Apply(input.Fire) {
		t.Error("fire at the cap was applied")
	}
	if len(s.Bullets) != scene.MaxBullets || s.LightCount() != scene.MaxLights {
		t.Error("fire at the cap changed the scene")
	}
}

func TestApplyIntents(t *testing.T) {
	c := newComposer(t, gltest.NewDevice(), testConfig())
	s := c.State()

	c.Apply(input.Forward)
	if s.Heli.X != s.Heli.Radius || s.Heli.Z != 0 {
		t.Errorf("forward at angle 0: got (%v, %v)", s.Heli.X, s.Heli.Z)
	}
	c.Apply(input.MoveUp)
	if !near(s.Heli.Y, 0.32) {
		t.Errorf("move up: y = %v", s.Heli.Y)
	}
	c.Apply(input.YawLeft)
	c.Apply(input.YawLeft)
	c.Apply(input.YawRight)
	if s.Heli.Angle != scene.YawStep {
		t.Errorf("yaw: angle = %v", s.Heli.Angle)
	}
	c.Apply(input.CameraRotateLeft)
	if s.Camera.RotateAngle != scene.DefaultRotate+scene.RotateStep {
		t.Errorf("camera rotate: %v", s.Camera.RotateAngle)
	}
	c.Apply(input.ZoomIn)
	if s.Camera.FOV != scene.DefaultFOV-scene.ZoomStep {
		t.Errorf("zoom in: fov = %v", s.Camera.FOV)
	}
	if c.Apply(input.Quit) || c.Apply(input.None) {
		t.Error("quit and none must not mutate the scene")
	}
	if c.LastIntent() != input.ZoomIn {
		t.Errorf("expected last intent zoom_in, got %s", c.LastIntent())
	}
	if !strings.Contains(c.Status(), "zoom_in") {
		t.Errorf("status does not name the last intent: %q", c.Status())
	}
}

func TestBulletLandingRemovesItsLight(t *testing.T) {
	c := newComposer(t, gltest.NewDevice(), testConfig())
	c.Apply(input.Fire)
	s := c.State()

	now := time.Unix(100, 0)
	for tick := 0; tick < 1000; tick++ {
		before := s.LightCount()
		c.Simulate(now)
		if len(s.Bullets) == 0 {
			if before-s.LightCount() != 1 {
				t.Fatalf("landing tick removed %d lights", before-s.LightCount())
			}
			if s.Lights.At(0).Kind() != scene.Directional {
				t.Error("key light no longer first")
			}
			return
		}
		now = now.Add(frame)
	}
	t.Fatal("bullet never landed")
}

func TestLandingPreservesLightOrder(t *testing.T) {
	c := newComposer(t, gltest.NewDevice(), testConfig())
	s := c.State()

	c.Apply(input.Fire)
	first := s.Bullets[0]
	for i := 0; i < 10; i++ {
		c.Apply(input.MoveDown)
	}
	c.Apply(input.Fire) // lower, lands first
	for i := 0; i < 10; i++ {
		c.Apply(input.MoveUp)
	}
	c.Apply(input.Fire)
	third := s.Bullets[2]

	now := time.Unix(100, 0)
	for len(s.Bullets) == 3 {
		c.Simulate(now)
		now = now.Add(frame)
	}
	if len(s.Bullets) != 2 || s.LightCount() != 3 {
		t.Fatalf("expected 2 bullets and 3 lights, got %d and %d", len(s.Bullets), s.LightCount())
	}
	if s.Lights.At(1) != first.Light || s.Lights.At(2) != third.Light {
		t.Error("surviving bullet lights changed order")
	}
}

func TestPropellerAccumulates(t *testing.T) {
	c := newComposer(t, gltest.NewDevice(), testConfig())
	now := time.Unix(100, 0)
	c.Simulate(now)

	const k = 100
	step := 40 * time.Millisecond
	for i := 0; i < k; i++ {
		now = now.Add(step)
		c.Simulate(now)
	}
	// 100°/s for 40ms is 4° per tick
	want := mgl32.HomogRotate3DY(mgl32.DegToRad(k * 4))
	if got := c.State().PropellerSpin.M; !got.ApproxFuncEqual(want, func(x, y float32) bool { return gomath.Abs(float64(x-y)) <= 1e-4 }) {
		t.Errorf("expected rotation by %d°, got %v", k*4, got)
	}
}

func TestFireScenarioSwitchesTerrainProgram(t *testing.T) {
	dev := gltest.NewDevice()
	c := newComposer(t, dev, testConfig())

	now := time.Unix(100, 0)
	if err := c.Tick(now); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if p := c.TerrainProgram(); p == nil || p.LightCount != 1 {
		t.Fatalf("expected terrain program for 1 light, got %+v", p)
	}

	c.Apply(input.Fire)
	now = now.Add(frame)
	if err := c.Tick(now); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	p2 := c.TerrainProgram()
	if p2.LightCount != 2 || !strings.Contains(dev.Programs[p2.ID].Fragment, "light[2]") {
		t.Fatalf("expected terrain program for 2 lights, got %d", p2.LightCount)
	}

	for len(c.State().Bullets) > 0 {
		now = now.Add(frame)
		if err := c.Tick(now); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if p := c.TerrainProgram(); p.LightCount != 1 {
		t.Errorf("expected terrain program for 1 light after landing, got %d", p.LightCount)
	}
	if c.terrainPrograms.Compiles() != 2 {
		t.Errorf("expected two terrain compiles, got %d", c.terrainPrograms.Compiles())
	}
}

func TestTerrainShaderFailureReusesStaleProgram(t *testing.T) {
	dev := gltest.NewDevice()
	dev.FailCompile = "light[2]"
	c := newComposer(t, dev, testConfig())

	now := time.Unix(100, 0)
	if err := c.Tick(now); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	stale := c.TerrainProgram()

	c.Apply(input.Fire)
	err := c.Tick(now.Add(frame))
	var se *core.ShaderError
	if !errors.As(err, &se) {
		t.Fatalf("expected ShaderError, got %v", err)
	}
	if c.TerrainProgram() != stale || len(dev.DrawsWith(stale.ID)) == 0 {
		t.Error("terrain not drawn with the stale program")
	}
}

func TestHeliShaderFailure(t *testing.T) {
	dev := gltest.NewDevice()
	dev.FailCompile = "light[11]"
	c := newComposer(t, dev, testConfig())
	err := c.Render()
	var se *core.ShaderError
	if !errors.As(err, &se) {
		t.Fatalf("expected ShaderError, got %v", err)
	}
	if c.TerrainProgram() == nil {
		t.Error("terrain skipped because of the helicopter shader")
	}
}

func writeAssets(t *testing.T) (heli, propeller, heightmap string) {
	t.Helper()
	dir := t.TempDir()
	obj := "v 0 0 0\nv 1 0 0\nv 0 0 -1\nf 1 2 3\n"
	heli = filepath.Join(dir, "heli.obj")
	propeller = filepath.Join(dir, "propeller.obj")
	for _, p := range []string{heli, propeller} {
		if err := os.WriteFile(p, []byte(obj), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	img.SetGray(0, 0, color.Gray{Y: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	heightmap = filepath.Join(dir, "heightmap.png")
	if err := os.WriteFile(heightmap, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return heli, propeller, heightmap
}

func waitForAssets(t *testing.T, c *Composer) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.PendingAssets() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("assets never arrived")
		}
		c.Simulate(time.Now())
		time.Sleep(time.Millisecond)
	}
}

func TestRenderOrder(t *testing.T) {
	dev := gltest.NewDevice()
	cfg := testConfig()
	cfg.HeliPath, cfg.PropellerPath, cfg.HeightmapPath = writeAssets(t)
	c := newComposer(t, dev, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.LoadAssets(ctx)
	waitForAssets(t, c)
	if c.Terrain().Heightmap.Width != 8 {
		t.Error("loaded heightmap not applied")
	}

	c.Apply(input.Fire)
	dev.ResetFrame()
	if err := c.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []core.ProgramID{
		c.axes.Program.ID,
		c.marker.Program.ID, // key light
		c.marker.Program.ID, // bullet
		c.heliProgram.ID,    // body
		c.heliProgram.ID,    // propeller
		c.TerrainProgram().ID,
	}
	if len(dev.Draws) != len(want) {
		t.Fatalf("expected %d draws, got %+v", len(want), dev.Draws)
	}
	for i, d := range dev.Draws {
		if d.Program != want[i] {
			t.Errorf("draw %d: expected program %d, got %d", i, want[i], d.Program)
		}
	}
	if len(dev.Clears) != 1 || dev.Clears[0] != core.ColorBackground {
		t.Errorf("expected one clear to the background, got %v", dev.Clears)
	}

	shininess, _ := dev.Float(c.heliProgram.ID, renderer.UniformMaterialShininess)
	if gold := scene.MustMaterial(PropellerMaterial); shininess != gold.Shininess*scene.ShininessScale {
		t.Errorf("propeller drawn last with shininess %v, want gold", shininess)
	}
	if key := c.State().Lights.Key(); key.Kind() != scene.Directional || !key.Enabled {
		t.Error("key light must render as an enabled directional light")
	}
}

func TestMissingAssetsAreSkipped(t *testing.T) {
	dev := gltest.NewDevice()
	cfg := testConfig()
	cfg.HeliPath = filepath.Join(t.TempDir(), "missing.obj")
	c := newComposer(t, dev, cfg)

	c.LoadAssets(context.Background())
	waitForAssets(t, c)
	if c.heli.Ready() {
		t.Error("helicopter mesh ready without geometry")
	}
	if err := c.Render(); err != nil {
		t.Errorf("Render: %v", err)
	}
	if draws := dev.DrawsWith(c.heliProgram.ID); len(draws) != 0 {
		t.Errorf("missing helicopter drew %d times", len(draws))
	}
}

func TestSmoothZoom(t *testing.T) {
	cfg := testConfig()
	cfg.SmoothZoom = true
	c := newComposer(t, gltest.NewDevice(), cfg)

	c.Apply(input.ZoomIn)
	if c.DisplayedFOV() != scene.DefaultFOV {
		t.Fatalf("displayed fov moved before a tick: %v", c.DisplayedFOV())
	}
	now := time.Unix(100, 0)
	c.Simulate(now)
	if f := c.DisplayedFOV(); f >= scene.DefaultFOV || f <= scene.DefaultFOV-scene.ZoomStep {
		t.Errorf("expected fov between target and start after one tick, got %v", f)
	}
	for i := 0; i < 300; i++ {
		now = now.Add(frame)
		c.Simulate(now)
	}
	if !near(c.DisplayedFOV(), scene.DefaultFOV-scene.ZoomStep) {
		t.Errorf("fov did not settle: %v", c.DisplayedFOV())
	}
}

func TestAspect(t *testing.T) {
	cfg := testConfig()
	c := newComposer(t, gltest.NewDevice(), cfg)
	c.SetAspect(2)
	if c.projectionAspect() != 2 {
		t.Errorf("expected aspect 2, got %v", c.projectionAspect())
	}
	cfg.Aspect = 1
	c = newComposer(t, gltest.NewDevice(), cfg)
	c.SetAspect(2)
	if c.projectionAspect() != 1 {
		t.Errorf("forced aspect ignored: %v", c.projectionAspect())
	}
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}
