package renderer

import (
	"fmt"
	"strings"
	"text/template"
)

// Terrain displacement constants baked into the terrain vertex stage.
const (
	TerrainHeightScale = 0.25
	TerrainSlopeStep   = 0.005
)

// Blinn-Phong fragment stage shared by every lit object. The light array
// size and the loop bound are both NumLights, fixed at compile time.
// direction and cutoff_angle are declared for spot lights but not read.
const blinnPhongFragTmpl = `#version 410 core
in vec4 vPosEye;
in vec3 vNormal;
out vec4 fColor;

struct TMaterial {
    vec3  ambient;
    vec3  diffuse;
    vec3  specular;
    vec3  emission;
    float shininess;
};
struct TLight {
    vec4  position;
    vec3  ambient;
    vec3  diffuse;
    vec3  specular;
    bool  enabled;
    vec4  direction;
    float cutoff_angle;
};
uniform TMaterial material;
uniform TLight    light[{{.NumLights}}];

void main() {
    vec3 n = normalize(vNormal);
    vec3 v = normalize(-vPosEye.xyz);
    vec3 l;
    fColor = vec4(material.emission, 0.0);
    for (int i = 0; i < {{.NumLights}}; i++) {
        if (!light[i].enabled) {
            continue;
        }
        if (light[i].position.w == 1.0) {
            l = normalize((light[i].position - vPosEye).xyz);
        } else {
            l = normalize(light[i].position.xyz);
        }
        vec3 ambient = light[i].ambient * material.ambient;
        float l_dot_n = max(dot(l, n), 0.0);
        vec3 diffuse = light[i].diffuse * material.diffuse * l_dot_n;
        vec3 specular = vec3(0.0);
        if (l_dot_n > 0.0) {
            vec3 h = normalize(l + v);
            specular = light[i].specular * material.specular * pow(max(dot(h, n), 0.0), material.shininess);
        }
        fColor += vec4(ambient + diffuse + specular, 1.0);
    }
    fColor.w = 1.0;
}
`

// MeshVertexSource is the vertex stage for imported meshes.
const MeshVertexSource = `#version 410 core
layout(location = 0) in vec4 aPosition;
layout(location = 1) in vec3 aNormal;
uniform mat4 MVP;
uniform mat4 MV;
out vec3 vNormal;
out vec4 vPosEye;
void main() {
    vPosEye = MV * aPosition;
    vNormal = mat3(MV) * aNormal;
    gl_Position = MVP * aPosition;
}
`

const terrainVertTmpl = `#version 410 core
layout(location = 2) in vec4 aTex;
uniform mat4 MVP;
uniform mat4 MV;
uniform sampler2D uSampler;
out vec3 vNormal;
out vec4 vPosEye;
void main() {
    float scale = {{.Scale}};
    vec4 position = vec4(aTex.st * 2.0 - 1.0, scale * texture(uSampler, aTex.st).r, 1.0);

    float sf = {{.Step}};
    vec3 s = vec3(2.0, 0.0, 0.0);
    vec3 t = vec3(0.0, 2.0, 0.0);
    s.z = (texture(uSampler, vec2(aTex.s + sf, aTex.t)).r - texture(uSampler, vec2(aTex.s - sf, aTex.t)).r) / (2.0 * sf);
    t.z = (texture(uSampler, vec2(aTex.s, aTex.t + sf)).r - texture(uSampler, vec2(aTex.s, aTex.t - sf)).r) / (2.0 * sf);
    vNormal = mat3(MV) * cross(s, t);
    vPosEye = MV * position;
    gl_Position = MVP * position;
}
`

// MarkerVertexSource draws one point per light.
const MarkerVertexSource = `#version 410 core
layout(location = 0) in vec3 aPosition;
uniform mat4 MVP;
uniform vec4 uPosition;
void main() {
    gl_Position = MVP * (uPosition + vec4(aPosition, 0.0));
    gl_PointSize = 10.0;
}
`

const MarkerFragmentSource = `#version 410 core
uniform vec3 uColor;
out vec4 fColor;
void main() {
    fColor = vec4(uColor, 1.0);
}
`

const AxesVertexSource = `#version 410 core
layout(location = 0) in vec4 aPosition;
layout(location = 3) in vec4 aColor;
uniform mat4 MVP;
out vec4 vColor;
void main() {
    gl_Position = MVP * aPosition;
    vColor = aColor;
}
`

const AxesFragmentSource = `#version 410 core
in vec4 vColor;
out vec4 fColor;
void main() {
    fColor = vColor;
}
`

var (
	fragTemplate    = template.Must(template.New("blinn-phong").Parse(blinnPhongFragTmpl))
	terrainTemplate = template.Must(template.New("terrain").Parse(terrainVertTmpl))
)

// BlinnPhongFragmentSource renders the lit fragment stage for n lights.
func BlinnPhongFragmentSource(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("light count must be at least 1, got %d", n)
	}
	var b strings.Builder
	if err := fragTemplate.Execute(&b, struct{ NumLights int }{n}); err != nil {
		return "", fmt.Errorf("failed to render fragment shader: %w", err)
	}
	return b.String(), nil
}

// TerrainFragmentSource is the fragment stage of the terrain for n lights.
func TerrainFragmentSource(n int) (string, error) {
	return BlinnPhongFragmentSource(n)
}

// TerrainVertexSource renders the displacement vertex stage.
func TerrainVertexSource() string {
	var b strings.Builder
	err := terrainTemplate.Execute(&b, struct{ Scale, Step string }{
		Scale: glslFloat(TerrainHeightScale),
		Step:  glslFloat(TerrainSlopeStep),
	})
	if err != nil {
		panic(err)
	}
	return b.String()
}

// glslFloat formats v so GLSL parses it as a float literal.
func glslFloat(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
