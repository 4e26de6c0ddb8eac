package renderer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"heliscene/core"
	"heliscene/internal/gltest"
)

func TestTerrainFragmentSourceBakesLightCount(t *testing.T) {
	for _, n := range []int{1, 2, 11} {
		src, err := TerrainFragmentSource(n)
		if err != nil {
			t.Fatalf("TerrainFragmentSource(%d): %v", n, err)
		}
		if want := fmt.Sprintf("light[%d]", n); !strings.Contains(src, want) {
			t.Errorf("n=%d: source lacks array declaration %q", n, want)
		}
		if want := fmt.Sprintf("i < %d", n); !strings.Contains(src, want) {
			t.Errorf("n=%d: source lacks loop bound %q", n, want)
		}
	}
}

func TestFragmentSourceHasNoSpotCone(t *testing.T) {
	src, err := TerrainFragmentSource(2)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(src, "float cutoff_angle;") {
		t.Error("light struct lacks cutoff_angle")
	}
	if strings.Contains(src, "< light[i].cutoff_angle") {
		t.Error("positional lights must not be masked by a spot cone")
	}
}

func TestTerrainFragmentSourceRejectsZero(t *testing.T) {
	if _, err := TerrainFragmentSource(0); err == nil {
		t.Error("expected an error for zero lights")
	}
}

func TestTerrainVertexSourceConstants(t *testing.T) {
	src := TerrainVertexSource()
	for _, want := range []string{"float scale = 0.25;", "float sf = 0.005;", "layout(location = 2) in vec4 aTex;"} {
		if !strings.Contains(src, want) {
			t.Errorf("vertex source lacks %q", want)
		}
	}
}

func TestGLSLFloat(t *testing.T) {
	tests := map[float64]string{1: "1.0", 0.25: "0.25", 128: "128.0"}
	for in, want := range tests {
		if got := glslFloat(in); got != want {
			t.Errorf("glslFloat(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestCompileResolvesLightUniforms(t *testing.T) {
	dev := gltest.NewDevice()
	fs, _ := BlinnPhongFragmentSource(3)
	p, err := Compile(dev, MeshVertexSource, fs, 3)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p.LightCount != 3 {
		t.Errorf("expected LightCount 3, got %d", p.LightCount)
	}
	for i := 0; i < 3; i++ {
		for f := LightField(0); f < numLightFields; f++ {
			if p.LightLoc(i, f) < 0 {
				t.Errorf("light[%d].%s unresolved", i, f)
			}
		}
	}
	if p.LightLoc(3, LightPosition) != -1 {
		t.Error("expected -1 past the light array")
	}
	if p.Loc(UniformMVP) < 0 || p.Loc(UniformMaterialShininess) < 0 {
		t.Error("standard uniforms unresolved")
	}
	if p.Loc(UniformSampler) != -1 {
		t.Error("mesh program should not have an active sampler")
	}
}

func TestCompileFailureIsShaderError(t *testing.T) {
	dev := gltest.NewDevice()
	dev.FailCompile = "TLight"
	fs, _ := BlinnPhongFragmentSource(1)
	_, err := Compile(dev, MeshVertexSource, fs, 1)
	var se *core.ShaderError
	if !errors.As(err, &se) {
		t.Fatalf("expected *core.ShaderError, got %v", err)
	}
	if se.Stage != core.StageFragment {
		t.Errorf("expected fragment stage, got %s", se.Stage)
	}
}

func TestProgramCacheCompilesOncePerCount(t *testing.T) {
	dev := gltest.NewDevice()
	cache := NewTerrainProgramCache(dev)

	for _, n := range []int{1, 2, 1, 2, 3, 1} {
		p, err := cache.Acquire(n)
		if err != nil {
			t.Fatalf("Acquire(%d): %v", n, err)
		}
		if p.LightCount != n {
			t.Errorf("Acquire(%d): program compiled for %d", n, p.LightCount)
		}
		if src := dev.Programs[p.ID].Fragment; !strings.Contains(src, fmt.Sprintf("light[%d]", n)) {
			t.Errorf("Acquire(%d): wrong fragment source", n)
		}
	}
	if cache.Compiles() != 3 || dev.CompileCalls != 3 {
		t.Errorf("expected 3 compiles, got cache=%d device=%d", cache.Compiles(), dev.CompileCalls)
	}
	if cache.Len() != 3 {
		t.Errorf("expected 3 cached programs, got %d", cache.Len())
	}
}

func TestProgramCacheReturnsStaleOnFailure(t *testing.T) {
	dev := gltest.NewDevice()
	cache := NewTerrainProgramCache(dev)

	good, err := cache.Acquire(1)
	if err != nil {
		t.Fatalf("Acquire(1): %v", err)
	}

	dev.FailCompile = "light[2]"
	stale, err := cache.Acquire(2)
	var se *core.ShaderError
	if !errors.As(err, &se) {
		t.Fatalf("expected ShaderError, got %v", err)
	}
	if stale != good {
		t.Error("expected the previous program back on failure")
	}

	calls := dev.CompileCalls
	if _, err := cache.Acquire(2); err == nil {
		t.Error("expected the cached failure")
	}
	if dev.CompileCalls != calls {
		t.Error("failed count was recompiled")
	}
}

func TestProgramCacheFailureWithoutStale(t *testing.T) {
	dev := gltest.NewDevice()
	dev.FailCompile = "aTex"
	cache := NewTerrainProgramCache(dev)
	p, err := cache.Acquire(1)
	if err == nil || p != nil {
		t.Errorf("expected nil program and error, got %v, %v", p, err)
	}
}
