package input

import (
	"fmt"
	"strings"
)

// Intent is a semantic scene command, independent of the device that
// produced it.
type Intent int

const (
	None Intent = iota
	MoveUp
	MoveDown
	Forward
	Backward
	YawLeft
	YawRight
	CameraRotateLeft
	CameraRotateRight
	CameraTiltUp
	CameraTiltDown
	ZoomIn
	ZoomOut
	Fire
	Quit
)

var intentNames = [...]string{
	None:              "none",
	MoveUp:            "move_up",
	MoveDown:          "move_down",
	Forward:           "forward",
	Backward:          "backward",
	YawLeft:           "yaw_left",
	YawRight:          "yaw_right",
	CameraRotateLeft:  "camera_rotate_left",
	CameraRotateRight: "camera_rotate_right",
	CameraTiltUp:      "camera_tilt_up",
	CameraTiltDown:    "camera_tilt_down",
	ZoomIn:            "zoom_in",
	ZoomOut:           "zoom_out",
	Fire:              "fire",
	Quit:              "quit",
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return intentNames[i]
}

// Intents lists every intent except None.
func Intents() []Intent {
	out := make([]Intent, 0, len(intentNames)-1)
	for i := MoveUp; int(i) < len(intentNames); i++ {
		out = append(out, i)
	}
	return out
}

// ParseIntent accepts the snake_case name of an intent, ignoring case and
// treating '-' like '_'.
func ParseIntent(s string) (Intent, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range intentNames {
		if Intent(i) != None && n == name {
			return Intent(i), nil
		}
	}
	return None, fmt.Errorf("unknown intent %q", s)
}
