package composer

import (
	"github.com/go-gl/mathgl/mgl32"

	"heliscene/math"
	"heliscene/scene"
)

// SceneState is everything the intents and the animation loop mutate.
type SceneState struct {
	Heli    scene.HeliState
	Camera  scene.CameraState
	Bullets []*scene.Bullet
	Lights  *scene.LightList

	// PropellerSpin accumulates the propeller's rotation about +Y.
	PropellerSpin math.Transform
}

// NewKeyLight returns the scene's directional key light.
func NewKeyLight() *scene.Light {
	l := scene.NewLight(mgl32.Vec4{0, 0.08, 0, 1}, 0.1, true)
	l.SetKind(scene.Directional)
	return l
}

func NewSceneState() *SceneState {
	return &SceneState{
		Heli:          scene.NewHeliState(),
		Camera:        scene.NewCameraState(),
		Lights:        scene.NewLightList(NewKeyLight()),
		PropellerSpin: math.NewTransform(),
	}
}

// LightCount is the key light plus one light per live bullet.
func (s *SceneState) LightCount() int {
	return s.Lights.Len()
}
