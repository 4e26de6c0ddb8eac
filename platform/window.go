// Package platform owns the GLFW window and the OpenGL context.
package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	Resizable  bool
	VSync      bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     800,
		Height:    800,
		Title:     "heliscene",
		Resizable: true,
		VSync:     true,
	}
}

// KeyAction is a key transition reported by the window.
type KeyAction int

const (
	Release KeyAction = iota
	Press
	Repeat
)

// KeyCallback receives raw key codes (the values of the Key* constants).
type KeyCallback func(key int, action KeyAction)

// NewWindow creates a window with a current OpenGL 4.1 core context.
func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	window := &Window{
		Handle: handle,
		Width:  config.Width,
		Height: config.Height,
		Title:  config.Title,
	}

	handle.SetSizeCallback(func(w *glfw.Window, width, height int) {
		window.Width = width
		window.Height = height
	})

	return window, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) Close() {
	w.Handle.SetShouldClose(true)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// Aspect returns the framebuffer width over height, or 1 for a minimised window.
func (w *Window) Aspect() float32 {
	fw, fh := w.GetFramebufferSize()
	if fw <= 0 || fh <= 0 {
		return 1
	}
	return float32(fw) / float32(fh)
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// SetKeyCallback forwards key transitions to cb. Callbacks run on the
// thread that calls PollEvents.
func (w *Window) SetKeyCallback(cb KeyCallback) {
	w.Handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press:
			cb(int(key), Press)
		case glfw.Release:
			cb(int(key), Release)
		case glfw.Repeat:
			cb(int(key), Repeat)
		}
	})
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	KeySpace      = int(glfw.KeySpace)
	KeyMinus      = int(glfw.KeyMinus)
	KeyEqual      = int(glfw.KeyEqual)
	KeyA          = int(glfw.KeyA)
	KeyZ          = int(glfw.KeyZ)
	KeyEscape     = int(glfw.KeyEscape)
	KeyRight      = int(glfw.KeyRight)
	KeyLeft       = int(glfw.KeyLeft)
	KeyDown       = int(glfw.KeyDown)
	KeyUp         = int(glfw.KeyUp)
	KeyKPSubtract = int(glfw.KeyKPSubtract)
	KeyKPAdd      = int(glfw.KeyKPAdd)
	KeyLeftShift  = int(glfw.KeyLeftShift)
	KeyRightShift = int(glfw.KeyRightShift)
)
