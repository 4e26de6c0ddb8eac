package scene

import (
	"fmt"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"heliscene/internal/gltest"
	"heliscene/renderer"
)

func compileLit(t *testing.T, dev *gltest.Device, n int) *renderer.Program {
	t.Helper()
	fs, err := renderer.BlinnPhongFragmentSource(n)
	if err != nil {
		t.Fatalf("fragment source: %v", err)
	}
	p, err := renderer.Compile(dev, renderer.MeshVertexSource, fs, n)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return p
}

func TestMaterialCatalog(t *testing.T) {
	for _, name := range []string{"chrome", "gold", "copper"} {
		m, ok := LookupMaterial(name)
		if !ok {
			t.Fatalf("material %q missing", name)
		}
		if m.Shininess <= 0 || m.Shininess > 1 {
			t.Errorf("%s: shininess %v outside (0,1]", name, m.Shininess)
		}
	}
	if _, ok := LookupMaterial("unobtainium"); ok {
		t.Error("unknown material found")
	}
	if len(MaterialNames()) != len(materials) {
		t.Error("MaterialNames incomplete")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustMaterial did not panic on an unknown name")
		}
	}()
	MustMaterial("unobtainium")
}

func TestMaterialUploadScalesShininess(t *testing.T) {
	dev := gltest.NewDevice()
	p := compileLit(t, dev, 1)
	gold := MustMaterial("gold")
	gold.UploadTo(dev, p)

	got, err := dev.Float(p.ID, renderer.UniformMaterialShininess)
	if err != nil {
		t.Fatal(err)
	}
	if want := gold.Shininess * 128; got != want {
		t.Errorf("expected shininess %v, got %v", want, got)
	}
}

func TestLightKindFollowsW(t *testing.T) {
	l := NewLight(mgl32.Vec4{0, 0.08, 0, 1}, 0.1, true)
	if l.Kind() != Positional {
		t.Errorf("w=1: expected positional, got %s", l.Kind())
	}
	l.SetKind(Directional)
	if l.Position.W() != 0 || l.Kind() != Directional {
		t.Errorf("SetKind(Directional): w=%v kind=%s", l.Position.W(), l.Kind())
	}
	l.SetKind(Positional)
	if l.Position.W() != 1 {
		t.Errorf("SetKind(Positional): expected w=1, got %v", l.Position.W())
	}
	if l.Position.Y() != 0.08 {
		t.Error("SetKind changed the position")
	}
}

func TestLightUploadEyeSpace(t *testing.T) {
	dev := gltest.NewDevice()
	p := compileLit(t, dev, 2)

	l := NewLight(mgl32.Vec4{1, 2, 3, 1}, 0.1, true)
	view := mgl32.Translate3D(0, 0, -5)
	l.UploadTo(dev, p, 1, view)

	v, ok := dev.Uniform(p.ID, "light[1].position")
	if !ok {
		t.Fatal("light[1].position not set")
	}
	if got, want := v.(mgl32.Vec4), (mgl32.Vec4{1, 2, -2, 1}); !got.ApproxFuncEqual(want, within(1e-6)) {
		t.Errorf("position: expected %v, got %v", want, got)
	}
	cut, err := dev.Float(p.ID, "light[1].cutoff_angle")
	if err != nil {
		t.Fatal(err)
	}
	if gomath.Abs(float64(cut+1)) > 1e-6 {
		t.Errorf("cutoff: expected cos(180) = -1, got %v", cut)
	}
	if on, _ := dev.Int(p.ID, "light[1].enabled"); on != 1 {
		t.Errorf("expected enabled=1, got %d", on)
	}
}

func TestLightListKeyStaysFirst(t *testing.T) {
	key := NewLight(mgl32.Vec4{0, 0.08, 0, 0}, 0.1, true)
	ll := NewLightList(key)
	a := NewLight(mgl32.Vec4{1, 0, 0, 1}, 0.1, true)
	b := NewLight(mgl32.Vec4{2, 0, 0, 1}, 0.1, true)
	c := NewLight(mgl32.Vec4{3, 0, 0, 1}, 0.1, true)
	for i, l := range []*Light{a, b, c} {
		if idx := ll.Append(l); idx != i+1 {
			t.Errorf("Append: expected index %d, got %d", i+1, idx)
		}
	}

	if err := ll.RemoveAt(0); err != ErrKeyLight {
		t.Errorf("RemoveAt(0): expected ErrKeyLight, got %v", err)
	}
	if err := ll.RemoveAt(2); err != nil {
		t.Fatalf("RemoveAt(2): %v", err)
	}
	want := []*Light{key, a, c}
	if ll.Len() != len(want) {
		t.Fatalf("expected %d lights, got %d", len(want), ll.Len())
	}
	for i, l := range want {
		if ll.At(i) != l {
			t.Errorf("index %d: wrong light after removal", i)
		}
	}
	if !ll.Remove(c) || ll.Remove(c) {
		t.Error("Remove should find c exactly once")
	}
	if ll.Key() != key {
		t.Error("key light moved")
	}
	if err := ll.RemoveAt(5); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestUploadLightsDisablesUnusedSlots(t *testing.T) {
	dev := gltest.NewDevice()
	p := compileLit(t, dev, MaxLights)

	ll := NewLightList(NewLight(mgl32.Vec4{0, 1, 0, 0}, 0.1, true))
	ll.Append(NewLight(mgl32.Vec4{0, 1, 0, 1}, 0.1, true))
	UploadLights(dev, p, ll, mgl32.Ident4())

	for i := 0; i < MaxLights; i++ {
		on, err := dev.Int(p.ID, fmt.Sprintf("light[%d].enabled", i))
		if err != nil {
			t.Fatalf("slot %d: %v", i, err)
		}
		want := int32(0)
		if i < 2 {
			want = 1
		}
		if on != want {
			t.Errorf("slot %d: expected enabled=%d, got %d", i, want, on)
		}
	}
}

func TestRenderMarkerDrawsOnePoint(t *testing.T) {
	dev := gltest.NewDevice()
	m, err := NewMarker(dev)
	if err != nil {
		t.Fatalf("NewMarker: %v", err)
	}
	l := NewLight(mgl32.Vec4{0, 0.08, 0, 0}, 0.1, true)
	l.RenderMarker(dev, m, mgl32.Ident4(), mgl32.Ident4())

	draws := dev.DrawsWith(m.Program.ID)
	if len(draws) != 1 || draws[0].Count != 1 {
		t.Fatalf("expected one single-vertex draw, got %+v", draws)
	}
	pos, _ := dev.Uniform(m.Program.ID, renderer.UniformPosition)
	if got := pos.(mgl32.Vec4); got.W() != 1 || got.Y() != 0.08 {
		t.Errorf("marker position: got %v", got)
	}
	if dev.BoundProgram != 0 {
		t.Error("marker left its program bound")
	}
}
