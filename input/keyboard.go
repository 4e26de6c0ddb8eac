package input

// Key codes, numerically equal to GLFW's so a window callback can pass its
// codes straight through.
const (
	KeySpace      = 32
	KeyMinus      = 45
	KeyEqual      = 61
	KeyA          = 65
	KeyZ          = 90
	KeyEscape     = 256
	KeyRight      = 262
	KeyLeft       = 263
	KeyDown       = 264
	KeyUp         = 265
	KeyKPSubtract = 333
	KeyKPAdd      = 334
	KeyLeftShift  = 340
	KeyRightShift = 344
)

// Action is a key transition. The order matches GLFW's actions.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// Keyboard turns key transitions into intents. It tracks the Shift
// modifiers itself from press and release events, so it never needs to
// poll the window.
type Keyboard struct {
	leftShift  bool
	rightShift bool
	last       Intent
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// ShiftDown reports whether either Shift key is held.
func (k *Keyboard) ShiftDown() bool {
	return k.leftShift || k.rightShift
}

// Last returns the most recently resolved intent.
func (k *Keyboard) Last() Intent {
	return k.last
}

// Resolve maps one key transition to an intent. Releases and unmapped
// keys resolve to None; held keys repeat their intent.
func (k *Keyboard) Resolve(key int, action Action) Intent {
	switch key {
	case KeyLeftShift:
		k.leftShift = action != Release
		return None
	case KeyRightShift:
		k.rightShift = action != Release
		return None
	}
	if action == Release {
		return None
	}

	in := k.lookup(key)
	if in != None {
		k.last = in
	}
	return in
}

func (k *Keyboard) lookup(key int) Intent {
	shift := k.ShiftDown()
	switch key {
	case KeyA:
		return MoveUp
	case KeyZ:
		return MoveDown
	case KeyUp:
		if shift {
			return CameraTiltUp
		}
		return Forward
	case KeyDown:
		if shift {
			return CameraTiltDown
		}
		return Backward
	case KeyLeft:
		if shift {
			return CameraRotateLeft
		}
		return YawLeft
	case KeyRight:
		if shift {
			return CameraRotateRight
		}
		return YawRight
	case KeyEqual, KeyKPAdd:
		return ZoomIn
	case KeyMinus, KeyKPSubtract:
		return ZoomOut
	case KeySpace:
		return Fire
	case KeyEscape:
		return Quit
	}
	return None
}
