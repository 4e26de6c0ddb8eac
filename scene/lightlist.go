package scene

import (
	"errors"
	"fmt"
)

// ErrKeyLight is returned when removing the light at index 0.
var ErrKeyLight = errors.New("the key light cannot be removed")

// LightList is the ordered set of lights uploaded to shaders. Index 0 is
// always the key light; the rest keep their insertion order.
type LightList struct {
	lights []*Light
}

func NewLightList(key *Light) *LightList {
	return &LightList{lights: []*Light{key}}
}

// Append adds l at the end and returns its index.
func (ll *LightList) Append(l *Light) int {
	ll.lights = append(ll.lights, l)
	return len(ll.lights) - 1
}

// RemoveAt deletes the light at i, shifting later lights down by one.
func (ll *LightList) RemoveAt(i int) error {
	if i == 0 {
		return ErrKeyLight
	}
	if i < 0 || i >= len(ll.lights) {
		return fmt.Errorf("light index %d out of range [1,%d)", i, len(ll.lights))
	}
	copy(ll.lights[i:], ll.lights[i+1:])
	ll.lights[len(ll.lights)-1] = nil
	ll.lights = ll.lights[:len(ll.lights)-1]
	return nil
}

// Remove deletes l if present, reporting whether it was found.
func (ll *LightList) Remove(l *Light) bool {
	for i := 1; i < len(ll.lights); i++ {
		if ll.lights[i] == l {
			_ = ll.RemoveAt(i)
			return true
		}
	}
	return false
}

func (ll *LightList) At(i int) *Light {
	return ll.lights[i]
}

func (ll *LightList) Key() *Light {
	return ll.lights[0]
}

func (ll *LightList) Len() int {
	return len(ll.lights)
}

// All returns the lights in upload order. The slice must not be modified.
func (ll *LightList) All() []*Light {
	return ll.lights
}
