// Package renderer draws uploaded drawables with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/internal/engine/camera"
	"github.com/Faultbox/gltfmesh/internal/engine/debug"
	"github.com/Faultbox/gltfmesh/internal/engine/framebuffer"
	"github.com/Faultbox/gltfmesh/internal/engine/gpu"
	"github.com/Faultbox/gltfmesh/internal/engine/lighting"
	"github.com/Faultbox/gltfmesh/internal/engine/picking"
	"github.com/Faultbox/gltfmesh/internal/engine/shader"
	"github.com/Faultbox/gltfmesh/pkg/mesh"
)

// Config holds renderer configuration.
type Config struct {
	Width, Height int // framebuffer size in pixels
	Background    [3]float32
}

// Renderer owns the GPU copies of the drawables of one asset.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram *shader.Program
	lineProgram *shader.Program

	meshes []*gpu.Mesh
	ids    []MeshID
	boxes  []picking.Box // per-mesh bounds, parallel to meshes
	box    *gpu.Lines

	selected    int // index into meshes, -1 for none
	selectedBox *gpu.Lines

	// Bounds of everything added so far.
	min, max  [3]float32
	hasBounds bool

	ShowBounds     bool
	ShowUV         bool
	Wireframe      bool
	FixedLight     bool
	LightAzimuth   float32
	LightElevation float32
}

// New creates a renderer. The GL context must be current.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{config: cfg, log: log, selected: -1, LightAzimuth: 35, LightElevation: 50}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.meshProgram, err = shader.Compile(shader.MeshVertex, shader.MeshFragment); err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	if r.lineProgram, err = shader.Compile(shader.LineVertex, shader.LineFragment); err != nil {
		r.meshProgram.Delete()
		return nil, fmt.Errorf("line program: %w", err)
	}
	return r, nil
}

// MeshID names the primitive an uploaded mesh was compiled from.
type MeshID struct {
	Mesh, Primitive int
}

// Add uploads a drawable and grows the scene bounds.
func (r *Renderer) Add(d *mesh.Drawable) error {
	m, err := gpu.Upload(d)
	if err != nil {
		return fmt.Errorf("uploading mesh %d primitive %d: %w", d.Mesh, d.Primitive, err)
	}
	r.meshes = append(r.meshes, m)
	r.ids = append(r.ids, MeshID{Mesh: d.Mesh, Primitive: d.Primitive})

	bmin, bmax, ok := d.Bounds()
	box := picking.EmptyBox
	if ok {
		box = picking.Box{Min: bmin, Max: bmax}
	}
	r.boxes = append(r.boxes, box)

	if ok {
		r.min, r.max = debug.UnionBounds(r.min, r.max, bmin, bmax, r.hasBounds)
		r.hasBounds = true
		if r.box != nil {
			r.box.Delete()
		}
		r.box = gpu.UploadLines(debug.BoxLines(r.min, r.max, 0))
	}

	r.log.Debug("drawable uploaded",
		zap.Int("mesh", d.Mesh),
		zap.Int("primitive", d.Primitive),
		zap.Uint32("vao", m.VAO),
		zap.Int32("count", m.Count),
	)
	return nil
}

// Bounds returns the combined bounds of the added drawables.
func (r *Renderer) Bounds() (min, max [3]float32, ok bool) {
	return r.min, r.max, r.hasBounds
}

// MeshCount returns the number of uploaded drawables.
func (r *Renderer) MeshCount() int {
	return len(r.meshes)
}

// Pick returns the mesh whose bounds are nearest along the ray through
// pixel (x, y) of the framebuffer.
func (r *Renderer) Pick(cam *camera.Orbit, x, y float32) (int, bool) {
	view, proj := r.matrices(cam, r.config.Width, r.config.Height)
	ray, ok := picking.FromScreen(x, y, r.config.Width, r.config.Height, view, proj)
	if !ok {
		return -1, false
	}
	return picking.Nearest(ray, r.boxes)
}

// Select highlights mesh i. A negative i clears the selection.
func (r *Renderer) Select(i int) {
	if r.selectedBox != nil {
		r.selectedBox.Delete()
		r.selectedBox = nil
	}
	r.selected = -1
	if i < 0 || i >= len(r.meshes) {
		return
	}
	r.selected = i
	b := r.boxes[i]
	if b.Empty() {
		return
	}
	r.selectedBox = gpu.UploadLines(debug.BoxLines(b.Min, b.Max, 0))
}

// Selected returns the selected mesh and where it came from.
func (r *Renderer) Selected() (int, MeshID, bool) {
	if r.selected < 0 {
		return -1, MeshID{}, false
	}
	return r.selected, r.ids[r.selected], true
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width, r.config.Height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Frame draws every mesh from the camera's point of view.
func (r *Renderer) Frame(cam *camera.Orbit) {
	r.draw(cam, r.config.Width, r.config.Height)
}

// Capture renders one frame of width x height pixels offscreen and returns
// it as bottom-up RGBA rows.
func (r *Renderer) Capture(cam *camera.Orbit, width, height int) ([]byte, error) {
	target, err := framebuffer.New(width, height)
	if err != nil {
		return nil, err
	}
	defer target.Destroy()

	restore := target.Bind()
	r.draw(cam, width, height)
	pixels := target.ReadPixels()
	restore()
	return pixels, nil
}

func (r *Renderer) matrices(cam *camera.Orbit, width, height int) (view, proj mgl32.Mat4) {
	aspect := float32(width) / float32(max(height, 1))
	return cam.View(), cam.Projection(aspect)
}

func (r *Renderer) draw(cam *camera.Orbit, width, height int) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view, proj := r.matrices(cam, width, height)

	light := lighting.Headlight(cam.Position(), cam.Target)
	if r.FixedLight {
		light = lighting.Direction(r.LightAzimuth, r.LightElevation)
	}

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	r.meshProgram.Use()
	r.meshProgram.SetMat4("uModel", mgl32.Ident4())
	r.meshProgram.SetMat4("uView", view)
	r.meshProgram.SetMat4("uProjection", proj)
	r.meshProgram.SetVec3("uLightDir", light)
	for i, m := range r.meshes {
		color := mgl32.Vec3{0.78, 0.76, 0.72}
		if i == r.selected {
			color = mgl32.Vec3{0.95, 0.62, 0.25}
		}
		r.meshProgram.SetVec3("uBaseColor", color)
		r.meshProgram.SetInt("uHasNormal", boolInt(m.HasNormal))
		r.meshProgram.SetInt("uShowUV", boolInt(r.ShowUV && m.HasUV))
		m.Draw()
	}

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	if (r.ShowBounds && r.box != nil) || r.selectedBox != nil {
		r.lineProgram.Use()
		r.lineProgram.SetMat4("uView", view)
		r.lineProgram.SetMat4("uProjection", proj)
		if r.ShowBounds && r.box != nil {
			r.lineProgram.SetVec3("uColor", mgl32.Vec3{1, 0.8, 0.2})
			r.box.Draw()
		}
		if r.selectedBox != nil {
			r.lineProgram.SetVec3("uColor", mgl32.Vec3{0.3, 0.9, 1})
			r.selectedBox.Draw()
		}
	}
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Debug("closing renderer", zap.Int("meshes", len(r.meshes)))
	for _, m := range r.meshes {
		m.Delete()
	}
	r.meshes = nil
	if r.box != nil {
		r.box.Delete()
	}
	r.Select(-1)
	r.lineProgram.Delete()
	r.meshProgram.Delete()
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
