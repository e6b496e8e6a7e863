// Package camera provides the orbit camera of the mesh viewer.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit circles a target point at a distance.
type Orbit struct {
	Target   mgl32.Vec3
	Distance float32
	Yaw      float32 // radians around +Y
	Pitch    float32 // radians above the horizon

	FOV        float32 // vertical field of view, degrees
	Near, Far  float32
	MinPitch   float32
	MaxPitch   float32
	MinDist    float32
	MaxDist    float32
	DragSpeed  float32 // radians per pixel
	ZoomFactor float32 // distance scale per wheel step
}

// NewOrbit creates a camera looking at the origin.
func NewOrbit(fov float32) *Orbit {
	return &Orbit{
		Distance:   3,
		Yaw:        0.6,
		Pitch:      0.4,
		FOV:        fov,
		Near:       0.01,
		Far:        100,
		MinPitch:   -1.5,
		MaxPitch:   1.5,
		MinDist:    0.001,
		MaxDist:    1e6,
		DragSpeed:  0.008,
		ZoomFactor: 0.1,
	}
}

// Position returns the eye position in world space.
func (c *Orbit) Position() mgl32.Vec3 {
	cosPitch := float32(math.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		cosPitch * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cosPitch * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

// View returns the view matrix.
func (c *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for a viewport aspect ratio.
func (c *Orbit) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Drag rotates the camera by a mouse movement in pixels.
func (c *Orbit) Drag(dx, dy float32) {
	c.Yaw -= dx * c.DragSpeed
	c.Pitch = mgl32.Clamp(c.Pitch+dy*c.DragSpeed, c.MinPitch, c.MaxPitch)
}

// Zoom moves the camera toward the target for positive steps.
func (c *Orbit) Zoom(steps float32) {
	c.Distance = mgl32.Clamp(c.Distance*(1-steps*c.ZoomFactor), c.MinDist, c.MaxDist)
}

// Frame points the camera at the center of an axis-aligned box and backs
// off until the box's bounding sphere fits the vertical field of view.
// Clip planes follow the box size.
func (c *Orbit) Frame(min, max [3]float32) {
	lo := mgl32.Vec3{min[0], min[1], min[2]}
	hi := mgl32.Vec3{max[0], max[1], max[2]}

	c.Target = lo.Add(hi).Mul(0.5)
	radius := hi.Sub(lo).Len() / 2
	if radius <= 0 {
		radius = 1
	}

	half := mgl32.DegToRad(c.FOV) / 2
	c.Distance = radius / float32(math.Sin(float64(half)))
	c.Near = c.Distance / 1000
	c.Far = c.Distance + radius*4
	c.MinDist = radius / 100
	c.MaxDist = c.Distance * 20
}
