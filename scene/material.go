package scene

import (
	"fmt"
	"sort"

	"heliscene/core"
	"heliscene/renderer"
)

// ShininessScale converts a catalog shininess in (0,1] to a Phong exponent.
const ShininessScale = 128

// Material describes the Blinn-Phong response of a surface.
// Catalog entries are shared and must not be modified.
type Material struct {
	Name      string
	Ambient   core.Color
	Diffuse   core.Color
	Specular  core.Color
	Emission  core.Color
	Shininess float32 // fraction of ShininessScale, in (0,1]
}

// Exponent returns the specular exponent uploaded to shaders.
func (m *Material) Exponent() float32 {
	return m.Shininess * ShininessScale
}

// UploadTo writes the material uniforms of prog.
func (m *Material) UploadTo(dev core.GraphicsDevice, prog *renderer.Program) {
	dev.Uniform3(prog.Loc(renderer.UniformMaterialAmbient), m.Ambient.Vec3())
	dev.Uniform3(prog.Loc(renderer.UniformMaterialDiffuse), m.Diffuse.Vec3())
	dev.Uniform3(prog.Loc(renderer.UniformMaterialSpecular), m.Specular.Vec3())
	dev.Uniform3(prog.Loc(renderer.UniformMaterialEmission), m.Emission.Vec3())
	dev.Uniform1f(prog.Loc(renderer.UniformMaterialShininess), m.Exponent())
}

func mat(name string, a, d, s [3]float32, shininess float32) *Material {
	return &Material{
		Name:      name,
		Ambient:   core.RGB(a[0], a[1], a[2]),
		Diffuse:   core.RGB(d[0], d[1], d[2]),
		Specular:  core.RGB(s[0], s[1], s[2]),
		Emission:  core.RGB(0, 0, 0),
		Shininess: shininess,
	}
}

// Classic OpenGL teapot material table.
var materials = map[string]*Material{
	"emerald":         mat("emerald", [3]float32{0.0215, 0.1745, 0.0215}, [3]float32{0.07568, 0.61424, 0.07568}, [3]float32{0.633, 0.727811, 0.633}, 0.6),
	"jade":            mat("jade", [3]float32{0.135, 0.2225, 0.1575}, [3]float32{0.54, 0.89, 0.63}, [3]float32{0.316228, 0.316228, 0.316228}, 0.1),
	"obsidian":        mat("obsidian", [3]float32{0.05375, 0.05, 0.06625}, [3]float32{0.18275, 0.17, 0.22525}, [3]float32{0.332741, 0.328634, 0.346435}, 0.3),
	"pearl":           mat("pearl", [3]float32{0.25, 0.20725, 0.20725}, [3]float32{1, 0.829, 0.829}, [3]float32{0.296648, 0.296648, 0.296648}, 0.088),
	"ruby":            mat("ruby", [3]float32{0.1745, 0.01175, 0.01175}, [3]float32{0.61424, 0.04136, 0.04136}, [3]float32{0.727811, 0.626959, 0.626959}, 0.6),
	"turquoise":       mat("turquoise", [3]float32{0.1, 0.18725, 0.1745}, [3]float32{0.396, 0.74151, 0.69102}, [3]float32{0.297254, 0.30829, 0.306678}, 0.1),
	"brass":           mat("brass", [3]float32{0.329412, 0.223529, 0.027451}, [3]float32{0.780392, 0.568627, 0.113725}, [3]float32{0.992157, 0.941176, 0.807843}, 0.21794872),
	"bronze":          mat("bronze", [3]float32{0.2125, 0.1275, 0.054}, [3]float32{0.714, 0.4284, 0.18144}, [3]float32{0.393548, 0.271906, 0.166721}, 0.2),
	"polished_bronze": mat("polished_bronze", [3]float32{0.25, 0.148, 0.06475}, [3]float32{0.4, 0.2368, 0.1036}, [3]float32{0.774597, 0.458561, 0.200621}, 0.6),
	"chrome":          mat("chrome", [3]float32{0.25, 0.25, 0.25}, [3]float32{0.4, 0.4, 0.4}, [3]float32{0.774597, 0.774597, 0.774597}, 0.6),
	"copper":          mat("copper", [3]float32{0.19125, 0.0735, 0.0225}, [3]float32{0.7038, 0.27048, 0.0828}, [3]float32{0.256777, 0.137622, 0.086014}, 0.1),
	"polished_copper": mat("polished_copper", [3]float32{0.2295, 0.08825, 0.0275}, [3]float32{0.5508, 0.2118, 0.066}, [3]float32{0.580594, 0.223257, 0.0695701}, 0.4),
	"gold":            mat("gold", [3]float32{0.24725, 0.1995, 0.0745}, [3]float32{0.75164, 0.60648, 0.22648}, [3]float32{0.628281, 0.555802, 0.366065}, 0.4),
	"polished_gold":   mat("polished_gold", [3]float32{0.24725, 0.2245, 0.0645}, [3]float32{0.34615, 0.3143, 0.0903}, [3]float32{0.797357, 0.723991, 0.208006}, 0.65),
	"pewter":          mat("pewter", [3]float32{0.105882, 0.058824, 0.113725}, [3]float32{0.427451, 0.470588, 0.541176}, [3]float32{0.333333, 0.333333, 0.521569}, 0.0769),
	"silver":          mat("silver", [3]float32{0.19225, 0.19225, 0.19225}, [3]float32{0.50754, 0.50754, 0.50754}, [3]float32{0.508273, 0.508273, 0.508273}, 0.4),
	"polished_silver": mat("polished_silver", [3]float32{0.23125, 0.23125, 0.23125}, [3]float32{0.2775, 0.2775, 0.2775}, [3]float32{0.773911, 0.773911, 0.773911}, 0.7),
	"black_plastic":   mat("black_plastic", [3]float32{0, 0, 0}, [3]float32{0.01, 0.01, 0.01}, [3]float32{0.5, 0.5, 0.5}, 0.25),
	"black_rubber":    mat("black_rubber", [3]float32{0.02, 0.02, 0.02}, [3]float32{0.01, 0.01, 0.01}, [3]float32{0.4, 0.4, 0.4}, 0.078125),
}

// LookupMaterial returns the catalog entry for name.
func LookupMaterial(name string) (*Material, bool) {
	m, ok := materials[name]
	return m, ok
}

// MustMaterial is LookupMaterial for names known at startup.
func MustMaterial(name string) *Material {
	m, ok := materials[name]
	if !ok {
		panic(fmt.Sprintf("scene: unknown material %q", name))
	}
	return m
}

// MaterialNames lists the catalog in alphabetical order.
func MaterialNames() []string {
	names := make([]string, 0, len(materials))
	for name := range materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
