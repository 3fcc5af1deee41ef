// Package app wires the configurator together and runs the window loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"configurator/internal/assets"
	"configurator/internal/camera"
	"configurator/internal/config"
	"configurator/internal/frame"
	"configurator/internal/loader"
	"configurator/internal/material"
	"configurator/internal/parts"
	"configurator/internal/render"
	"configurator/internal/scene"
	"configurator/internal/ui"
)

const prefetchLimit = 4

type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// CacheDir overrides the configured asset cache.
	CacheDir string
	// Offline serves remote assets from the cache only.
	Offline bool
	// Progress receives download progress bars. Nil disables them.
	Progress io.Writer
}

// Run opens the window, loads the model and runs the frame loop until the
// window is closed or ctx is cancelled. It must be called from the main
// thread.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cacheDir := cfg.CacheDir
	if opts.CacheDir != "" {
		cacheDir = opts.CacheDir
	}
	fetcher, err := assets.NewFetcher(cacheDir, logger)
	if err != nil {
		return err
	}
	fetcher.Offline = opts.Offline
	fetcher.Progress = opts.Progress

	render.RouteTraceLog(logger)

	flags := uint32(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagVsyncHint)
	if cfg.Window.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if !rl.IsWindowReady() {
		return errors.New("open window")
	}
	defer rl.CloseWindow()

	if cfg.Window.TargetFPS > 0 {
		rl.SetTargetFPS(cfg.Window.TargetFPS)
	}
	ui.InitStyle()

	sched := frame.NewScheduler()
	defer sched.Close()

	picker := ui.NewPicker(cfg.Entries())
	registry, err := parts.New(cfg.Entries(), logger, picker.SetActive)
	if err != nil {
		return fmt.Errorf("part catalog: %w", err)
	}
	picker.OnSelect = func(id parts.ID) { registry.Select(id) }
	registry.Subscribe(func(e parts.Entry) {
		logger.Debug("part selected", slog.String("part", string(e.ID)))
	})

	holder := &scene.Holder{}
	cam := newCamera(cfg, float32(cfg.Window.Width)/float32(cfg.Window.Height))

	renderer, err := render.New(render.Options{
		Scene:  cfg.Scene,
		Model:  cfg.Model,
		Holder: holder,
		Camera: cam,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer renderer.Unload()

	pipeline := NewPipeline(ctx, registry, holder, fetcher, sched, renderer, logger)

	tray := ui.NewTray(swatches(cfg.Swatches))
	tray.Thumbnail = renderer.Textures.Get
	tray.OnPick = pipeline.Pick

	overlay := &ui.Overlay{Picker: picker, Tray: tray}
	renderer.SetOverlay(overlay.Draw)

	cam.Input = func() camera.Input {
		if overlay.CapturesMouse() {
			return camera.Input{}
		}
		in := camera.Input{
			Wheel:      rl.GetMouseWheelMove(),
			ViewHeight: float32(rl.GetScreenHeight()),
		}
		if rl.IsMouseButtonDown(rl.MouseLeftButton) {
			d := rl.GetMouseDelta()
			in.DragX, in.DragY = d.X, d.Y
		}
		return in
	}

	fallback, err := material.Build(cfg.InitialMaterial.Request())
	if err != nil {
		return fmt.Errorf("initial material: %w", err)
	}
	initial, err := cfg.Initial()
	if err != nil {
		return err
	}
	ld := loader.New(fetcher, sched, renderer, holder, scene.Tagging{
		Parts:    registry.IDs(),
		Explicit: cfg.Explicit(),
		Initial:  initial,
		Fallback: fallback,
	}, logger)

	overlay.Status = "Loading model…"
	ld.Load(ctx, cfg.Model.URL, func(_ *scene.Model, err error) {
		if err != nil {
			overlay.Status = "Could not load the model"
			return
		}
		overlay.Status = ""
	})

	go func() {
		if err := pipeline.Prefetch(cfg.TextureURLs(), prefetchLimit); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("prefetch stopped", slog.Any("err", err))
		}
	}()

	loop := &frame.Loop{
		Controls:  controls{overlay: overlay, camera: cam},
		Renderer:  renderer,
		Surface:   renderer,
		Camera:    cam,
		Scheduler: sched,
		DeltaTime: rl.GetFrameTime,
	}
	loop.Start()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		sched.RunFrame()
	}
	logger.Debug("window closed", slog.String("loop", loop.State().String()), slog.Uint64("frames", loop.Frames()))
	return nil
}

// controls lets the overlay claim the pointer before the camera reads it.
type controls struct {
	overlay *ui.Overlay
	camera  *camera.OrbitCamera
}

func (c controls) Update(deltaTime float32) {
	c.overlay.Update()
	c.camera.Update(deltaTime)
}

func newCamera(cfg *config.Config, aspect float32) *camera.OrbitCamera {
	p := cfg.Camera.Position
	cam := camera.New(rl.Vector3{X: p[0], Y: p[1], Z: p[2]}, aspect)
	if cfg.Camera.Fov > 0 {
		cam.Fovy = cfg.Camera.Fov
	}
	if cfg.Camera.Near > 0 {
		cam.Near = cfg.Camera.Near
	}
	if cfg.Camera.Far > cam.Near {
		cam.Far = cfg.Camera.Far
	}

	ctl := cfg.Controls
	if ctl.MaxPolar > 0 {
		cam.MinPolar, cam.MaxPolar = ctl.MinPolar, ctl.MaxPolar
	}
	cam.Damping = ctl.Damping
	if ctl.RotateSpeed > 0 {
		cam.RotateSpeed = ctl.RotateSpeed
	}
	if ctl.ZoomSpeed > 0 {
		cam.ZoomSpeed = ctl.ZoomSpeed
	}
	cam.EnableZoom = ctl.EnableZoom
	cam.AutoRotate = ctl.AutoRotate
	cam.AutoRotateRPM = 2
	return cam
}

// swatches converts the catalog for the tray. Textured swatches show a
// neutral tint until their thumbnail is uploaded.
func swatches(catalog []config.Swatch) []ui.Swatch {
	out := make([]ui.Swatch, len(catalog))
	for i, s := range catalog {
		c := rl.LightGray
		if s.Texture == "" {
			hex := config.Hex(s.Color, 0xcccccc)
			c = rl.NewColor(uint8(hex>>16), uint8(hex>>8), uint8(hex), 255)
		}
		out[i] = ui.Swatch{Request: s.Request(), Color: c}
	}
	return out
}
