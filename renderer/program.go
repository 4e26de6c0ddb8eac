package renderer

import (
	"fmt"

	"heliscene/core"
)

// LightField is one member of the TLight uniform struct.
type LightField int

const (
	LightPosition LightField = iota
	LightAmbient
	LightDiffuse
	LightSpecular
	LightEnabled
	LightDirection
	LightCutoff
	numLightFields
)

var lightFieldNames = [numLightFields]string{
	"position", "ambient", "diffuse", "specular", "enabled", "direction", "cutoff_angle",
}

func (f LightField) String() string {
	if f < 0 || f >= numLightFields {
		return fmt.Sprintf("LightField(%d)", int(f))
	}
	return lightFieldNames[f]
}

// Uniform names resolved for every program.
const (
	UniformMVP               = "MVP"
	UniformMV                = "MV"
	UniformSampler           = "uSampler"
	UniformColor             = "uColor"
	UniformPosition          = "uPosition"
	UniformMaterialAmbient   = "material.ambient"
	UniformMaterialDiffuse   = "material.diffuse"
	UniformMaterialSpecular  = "material.specular"
	UniformMaterialEmission  = "material.emission"
	UniformMaterialShininess = "material.shininess"
)

var standardUniforms = []string{
	UniformMVP,
	UniformMV,
	UniformSampler,
	UniformColor,
	UniformPosition,
	UniformMaterialAmbient,
	UniformMaterialDiffuse,
	UniformMaterialSpecular,
	UniformMaterialEmission,
	UniformMaterialShininess,
}

// Program is a linked shader program with its uniform locations resolved.
type Program struct {
	ID core.ProgramID
	// LightCount is the size of the light[] array the program was compiled for.
	LightCount int

	dev       core.GraphicsDevice
	uniforms  map[string]int32
	lightLocs [][numLightFields]int32
}

// Compile builds a program and resolves the standard uniforms plus
// light[i].* for i < lightCount.
func Compile(dev core.GraphicsDevice, vertexSource, fragmentSource string, lightCount int) (*Program, error) {
	id, err := dev.CompileProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}

	p := &Program{
		ID:         id,
		LightCount: lightCount,
		dev:        dev,
		uniforms:   make(map[string]int32, len(standardUniforms)),
		lightLocs:  make([][numLightFields]int32, lightCount),
	}
	for _, name := range standardUniforms {
		p.uniforms[name] = dev.UniformLocation(id, name)
	}
	for i := 0; i < lightCount; i++ {
		for f := LightField(0); f < numLightFields; f++ {
			p.lightLocs[i][f] = dev.UniformLocation(id, fmt.Sprintf("light[%d].%s", i, f))
		}
	}
	return p, nil
}

// Loc returns the location of a uniform, querying the device for names
// outside the standard set. Missing uniforms report -1.
func (p *Program) Loc(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.ID, name)
	p.uniforms[name] = loc
	return loc
}

// LightLoc returns the location of light[i].field, or -1 when i is out of range.
func (p *Program) LightLoc(i int, field LightField) int32 {
	if i < 0 || i >= len(p.lightLocs) || field < 0 || field >= numLightFields {
		return -1
	}
	return p.lightLocs[i][field]
}

func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}
