// Package debug provides viewer helpers: bounds wireframes and screenshots.
package debug

// BoxLineVertexCount is the number of vertices of a box wireframe (12 edges × 2).
const BoxLineVertexCount = 24

// BoxLines returns the edges of an axis-aligned box as an xyz line list,
// grown by pad on every side.
func BoxLines(min, max [3]float32, pad float32) []float32 {
	x0, y0, z0 := min[0]-pad, min[1]-pad, min[2]-pad
	x1, y1, z1 := max[0]+pad, max[1]+pad, max[2]+pad

	return []float32{
		// bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y0, z1,
		x1, y0, z1, x0, y0, z1,
		x0, y0, z1, x0, y0, z0,
		// top
		x0, y1, z0, x1, y1, z0,
		x1, y1, z0, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y1, z0,
		// verticals
		x0, y0, z0, x0, y1, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y0, z1, x1, y1, z1,
		x0, y0, z1, x0, y1, z1,
	}
}

// UnionBounds grows the box (min, max) to include (bmin, bmax).
// ok reports whether the result holds anything.
func UnionBounds(min, max, bmin, bmax [3]float32, ok bool) ([3]float32, [3]float32) {
	if !ok {
		return bmin, bmax
	}
	for i := 0; i < 3; i++ {
		if bmin[i] < min[i] {
			min[i] = bmin[i]
		}
		if bmax[i] > max[i] {
			max[i] = bmax[i]
		}
	}
	return min, max
}
