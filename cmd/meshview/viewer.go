package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/internal/bake"
	"github.com/Faultbox/gltfmesh/internal/config"
	"github.com/Faultbox/gltfmesh/internal/engine/camera"
	"github.com/Faultbox/gltfmesh/internal/engine/debug"
	"github.com/Faultbox/gltfmesh/internal/engine/input"
	"github.com/Faultbox/gltfmesh/internal/engine/renderer"
	"github.com/Faultbox/gltfmesh/internal/engine/window"
	"github.com/Faultbox/gltfmesh/internal/logger"
	"github.com/Faultbox/gltfmesh/pkg/mesh"
	"github.com/Faultbox/gltfmesh/pkg/scene"
)

type viewer struct {
	path string
	log  *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Orbit
	shots    *debug.Screenshots
}

func newViewer(cfg *config.Config, path string) (*viewer, error) {
	drawables, err := loadDrawables(cfg, path)
	if err != nil {
		return nil, err
	}
	if len(drawables) == 0 {
		return nil, fmt.Errorf("%s has no drawable primitives", path)
	}

	v := &viewer{
		path:  path,
		log:   logger.Named("viewer"),
		input: input.New(),
		shots: debug.NewScreenshots("", "meshview"),
	}

	v.window, err = window.New(window.Config{
		Title:      "meshview - " + filepath.Base(path),
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    4,
	}, logger.Named("window"))
	if err != nil {
		return nil, err
	}

	width, height := v.window.DrawableSize()
	var bg [3]float32
	copy(bg[:], cfg.Viewer.Background)
	v.renderer, err = renderer.New(renderer.Config{Width: width, Height: height, Background: bg}, logger.Named("renderer"))
	if err != nil {
		v.window.Close()
		return nil, err
	}

	for _, d := range drawables {
		if err := v.renderer.Add(d); err != nil {
			// Degenerate primitives are not fatal for viewing.
			v.log.Warn("drawable not uploaded",
				zap.Int("mesh", d.Mesh),
				zap.Int("primitive", d.Primitive),
				zap.Error(err))
		}
	}
	if v.renderer.MeshCount() == 0 {
		v.Close()
		return nil, fmt.Errorf("%s: nothing to draw", path)
	}

	v.camera = camera.NewOrbit(cfg.Viewer.FOV)
	v.reframe()
	v.updateTitle()
	return v, nil
}

// loadDrawables compiles a glTF asset or restores a baked file.
func loadDrawables(cfg *config.Config, path string) ([]*mesh.Drawable, error) {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		f, err := bake.ReadFile(path)
		if err != nil {
			return nil, err
		}
		out := make([]*mesh.Drawable, 0, len(f.Drawables))
		for i := range f.Drawables {
			d, err := f.Drawables[i].Restore()
			if err != nil {
				return nil, fmt.Errorf("drawable %d: %w", i, err)
			}
			out = append(out, d)
		}
		return out, nil
	}

	asset, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	opts := []mesh.Option{mesh.WithLogger(logger.Named("mesh"))}
	if !cfg.Decode.CacheBuffers {
		opts = append(opts, mesh.WithoutCache())
	}
	c := mesh.NewCompiler(asset, opts...)

	drawables, err := c.CompileAll(context.Background(), mesh.BatchOptions{
		Workers:    cfg.Decode.Workers,
		BestEffort: cfg.Decode.BestEffort,
	})
	if err != nil {
		if !cfg.Decode.BestEffort {
			return nil, err
		}
		for _, e := range multierr.Errors(err) {
			logger.Log.Warn("primitive skipped", zap.Error(e))
		}
	}
	return drawables, nil
}

// Run drives the frame loop until the window is closed.
func (v *viewer) Run() {
	for {
		if v.input.Update() {
			return
		}
		for _, e := range v.input.Events() {
			v.handle(e)
		}
		v.renderer.Frame(v.camera)
		v.window.SwapBuffers()
	}
}

func (v *viewer) handle(e input.Event) {
	switch e.Type {
	case input.EventDrag:
		if e.Button == sdl.BUTTON_LEFT {
			v.camera.Drag(e.DX, e.DY)
		}
	case input.EventClick:
		if e.Button == sdl.BUTTON_LEFT {
			v.pick(e.X, e.Y)
			v.updateTitle()
		}
	case input.EventScroll:
		v.camera.Zoom(e.DY)
	case input.EventWindowResize:
		v.renderer.Resize(v.window.DrawableSize())
	case input.EventKeyDown:
		v.key(e.Key)
	}
}

func (v *viewer) key(k sdl.Scancode) {
	switch k {
	case sdl.SCANCODE_B:
		v.renderer.ShowBounds = !v.renderer.ShowBounds
	case sdl.SCANCODE_U:
		v.renderer.ShowUV = !v.renderer.ShowUV
	case sdl.SCANCODE_W:
		v.renderer.Wireframe = !v.renderer.Wireframe
	case sdl.SCANCODE_L:
		v.renderer.FixedLight = !v.renderer.FixedLight
	case sdl.SCANCODE_F:
		v.reframe()
	case sdl.SCANCODE_F12:
		v.screenshot()
	default:
		return
	}
	v.updateTitle()
}

func (v *viewer) reframe() {
	min, max, ok := v.renderer.Bounds()
	if !ok {
		return
	}
	v.camera.Frame(min, max)
}

// pick selects the primitive under a click given in window coordinates.
func (v *viewer) pick(x, y float32) {
	ww, wh := v.window.Size()
	dw, dh := v.window.DrawableSize()
	if ww > 0 && wh > 0 {
		x *= float32(dw) / float32(ww)
		y *= float32(dh) / float32(wh)
	}

	i, ok := v.renderer.Pick(v.camera, x, y)
	if !ok {
		v.renderer.Select(-1)
		return
	}
	v.renderer.Select(i)
	_, id, _ := v.renderer.Selected()
	v.log.Info("primitive selected", zap.Int("mesh", id.Mesh), zap.Int("primitive", id.Primitive))
}

func (v *viewer) screenshot() {
	width, height := v.window.DrawableSize()
	pixels, err := v.renderer.Capture(v.camera, width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	path, err := v.shots.Save(pixels, width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) updateTitle() {
	var flags []string
	if v.renderer.ShowBounds {
		flags = append(flags, "bounds")
	}
	if v.renderer.ShowUV {
		flags = append(flags, "uv")
	}
	if v.renderer.Wireframe {
		flags = append(flags, "wire")
	}
	if v.renderer.FixedLight {
		flags = append(flags, "sun")
	}
	title := fmt.Sprintf("meshview - %s (%d meshes)", filepath.Base(v.path), v.renderer.MeshCount())
	if _, id, ok := v.renderer.Selected(); ok {
		title += fmt.Sprintf(" mesh %d/%d", id.Mesh, id.Primitive)
	}
	if len(flags) > 0 {
		title += " [" + strings.Join(flags, " ") + "]"
	}
	v.window.SetTitle(title)
}

// Close releases GPU resources and the window.
func (v *viewer) Close() {
	if v.renderer != nil {
		v.renderer.Close()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
