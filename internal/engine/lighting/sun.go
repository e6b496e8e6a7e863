// Package lighting provides the viewer's directional light.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction converts an azimuth around +Y and an elevation above the
// horizon, both in degrees, to a unit vector pointing toward the light.
func Direction(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))
	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// Headlight returns a light direction that follows the eye, slightly
// raised so silhouettes keep some shading.
func Headlight(eye, target mgl32.Vec3) mgl32.Vec3 {
	d := eye.Sub(target)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize().Add(mgl32.Vec3{0, 0.3, 0}).Normalize()
}
