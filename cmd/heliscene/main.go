package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"heliscene/composer"
	"heliscene/input"
	"heliscene/internal/opengl"
	"heliscene/platform"
)

type options struct {
	window platform.WindowConfig
	scene  composer.Config
	remote string
}

func defaultOptions() options {
	return options{
		window: platform.DefaultWindowConfig(),
		scene:  composer.DefaultConfig(),
	}
}

func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.IntVar(&o.window.Width, "width", o.window.Width, "window width in pixels")
	fs.IntVar(&o.window.Height, "height", o.window.Height, "window height in pixels")
	fs.BoolVar(&o.window.Fullscreen, "fullscreen", o.window.Fullscreen, "open fullscreen on the primary monitor")
	fs.BoolVar(&o.window.VSync, "vsync", o.window.VSync, "wait for vertical sync")
	fs.StringVar(&o.scene.HeightmapPath, "heightmap", o.scene.HeightmapPath, "heightmap image (PNG or JPEG)")
	fs.StringVar(&o.scene.HeliPath, "heli", o.scene.HeliPath, "helicopter body model (OBJ or glTF)")
	fs.StringVar(&o.scene.PropellerPath, "propeller", o.scene.PropellerPath, "propeller model (OBJ or glTF)")
	fs.IntVar(&o.scene.TerrainSize, "terrain-size", o.scene.TerrainSize, "terrain grid cells per side")
	fs.StringVar(&o.remote, "remote", "", "serve websocket remote control on this address, e.g. :8080")
	fs.BoolVar(&o.scene.SmoothZoom, "smooth-zoom", o.scene.SmoothZoom, "ease field-of-view changes")
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()
	cmd := &cobra.Command{
		Use:   "heliscene",
		Short: "Fly a helicopter over height-mapped terrain",
		Long: `heliscene renders a helicopter over a height-mapped terrain lit by a
directional key light and one point light per bullet in flight.

Keys: A/Z up/down, arrows move and yaw, Shift+arrows orbit the camera,
=/- zoom, Space fires, Escape quits.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.scene.TerrainSize < 1 {
				return fmt.Errorf("--terrain-size must be positive, got %d", opts.scene.TerrainSize)
			}
			return run(cmd.Context(), opts)
		},
	}
	bindFlags(cmd.Flags(), &opts)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	logger := log.New(os.Stderr, "heliscene: ", log.LstdFlags)
	opts.scene.Logger = logger

	window, err := platform.NewWindow(opts.window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	dev, err := opengl.NewDevice(logger)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	scene, err := composer.New(dev, opts.scene)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	scene.LoadAssets(ctx)

	apply := func(in input.Intent) {
		switch in {
		case input.None:
		case input.Quit:
			window.Close()
		default:
			scene.Apply(in)
		}
	}

	keyboard := input.NewKeyboard()
	window.SetKeyCallback(func(key int, action platform.KeyAction) {
		apply(keyboard.Resolve(key, input.Action(action)))
	})

	var remote *input.RemoteServer
	remoteDone := make(chan struct{})
	if opts.remote != "" {
		remote = input.NewRemoteServer(input.DefaultRemoteQueue, logger)
		go func() {
			defer close(remoteDone)
			if err := remote.ListenAndServe(ctx, opts.remote); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("remote: %v", err)
			}
		}()
	} else {
		close(remoteDone)
	}

	logger.Printf("running; close the window or press Escape to quit")
	var lastErr, title string
	for !window.ShouldClose() && ctx.Err() == nil {
		if remote != nil {
			remote.Drain(apply)
		}

		w, h := window.GetFramebufferSize()
		dev.SetViewport(w, h)
		scene.SetAspect(window.Aspect())

		if err := scene.Tick(time.Now()); err != nil {
			if msg := err.Error(); msg != lastErr {
				logger.Printf("frame: %v", err)
				lastErr = msg
			}
		} else {
			lastErr = ""
		}

		if status := scene.Status(); status != title {
			window.SetTitle(status)
			title = status
		}

		window.SwapBuffers()
		window.PollEvents()
	}

	cancel()
	<-remoteDone
	return nil
}
