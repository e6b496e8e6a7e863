// Package picking selects drawables under the cursor.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line in world space. Dir is normalized.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max [3]float32
}

// EmptyBox contains no point and is never hit.
var EmptyBox = Box{Min: [3]float32{1, 1, 1}, Max: [3]float32{-1, -1, -1}}

// Empty reports whether b contains no point.
func (b Box) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// FromScreen unprojects pixel (x, y) of a width x height viewport into a
// world-space ray. y grows downward, as in window coordinates.
func FromScreen(x, y float32, width, height int, view, proj mgl32.Mat4) (Ray, bool) {
	if width <= 0 || height <= 0 {
		return Ray{}, false
	}
	winY := float32(height) - y
	near, err := mgl32.UnProject(mgl32.Vec3{x, winY, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, false
	}
	far, err := mgl32.UnProject(mgl32.Vec3{x, winY, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return Ray{}, false
	}

	dir := far.Sub(near)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: near, Dir: dir.Normalize()}, true
}

// Hit returns the distance along r to box using the slab test. A ray that
// starts inside the box hits it at its exit point.
func (r Ray) Hit(box Box) (float32, bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Dir[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Nearest returns the index of the closest box hit by r.
func Nearest(r Ray, boxes []Box) (int, bool) {
	best, bestT := -1, float32(math.MaxFloat32)
	for i, b := range boxes {
		if b.Empty() {
			continue
		}
		if t, ok := r.Hit(b); ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best, best >= 0
}
