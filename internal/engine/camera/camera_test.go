package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbit_Frame(t *testing.T) {
	c := NewOrbit(60)
	c.Frame([3]float32{-1, 0, -1}, [3]float32{1, 2, 1})

	if !c.Target.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("target = %v, want box center (0,1,0)", c.Target)
	}

	// Radius sqrt(3), half fov 30 degrees.
	want := float32(math.Sqrt(3)) / 0.5
	if !mgl32.FloatEqualThreshold(c.Distance, want, 1e-4) {
		t.Errorf("distance = %v, want %v", c.Distance, want)
	}
	if c.Near <= 0 || c.Far <= c.Distance {
		t.Errorf("clip planes %v..%v do not enclose the target at %v", c.Near, c.Far, c.Distance)
	}
}

func TestOrbit_FrameDegenerateBox(t *testing.T) {
	c := NewOrbit(45)
	c.Frame([3]float32{2, 2, 2}, [3]float32{2, 2, 2})

	if c.Distance <= 0 || math.IsInf(float64(c.Distance), 0) {
		t.Errorf("distance = %v for a point", c.Distance)
	}
}

func TestOrbit_PositionDistance(t *testing.T) {
	c := NewOrbit(45)
	c.Target = mgl32.Vec3{1, 2, 3}
	c.Distance = 5

	for _, yaw := range []float32{0, 1, 2.5} {
		c.Yaw = yaw
		got := c.Position().Sub(c.Target).Len()
		if !mgl32.FloatEqualThreshold(got, 5, 1e-4) {
			t.Errorf("yaw %v: eye is %v from target, want 5", yaw, got)
		}
	}
}

func TestOrbit_ViewLooksAtTarget(t *testing.T) {
	c := NewOrbit(45)
	c.Target = mgl32.Vec3{0, 1, 0}
	c.Distance = 4

	// The target lands on the view axis at -Distance.
	p := c.View().Mul4x1(c.Target.Vec4(1))
	if !mgl32.FloatEqualThreshold(p.X(), 0, 1e-4) || !mgl32.FloatEqualThreshold(p.Y(), 0, 1e-4) {
		t.Errorf("target in view space = %v, want on the axis", p)
	}
	if !mgl32.FloatEqualThreshold(p.Z(), -4, 1e-4) {
		t.Errorf("target depth = %v, want -4", p.Z())
	}
}

func TestOrbit_DragClampsPitch(t *testing.T) {
	c := NewOrbit(45)
	c.Drag(0, 10000)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch = %v, want clamped to %v", c.Pitch, c.MaxPitch)
	}
	c.Drag(0, -20000)
	if c.Pitch != c.MinPitch {
		t.Errorf("pitch = %v, want clamped to %v", c.Pitch, c.MinPitch)
	}

	yaw := c.Yaw
	c.Drag(100, 0)
	if c.Yaw >= yaw {
		t.Errorf("dragging right did not decrease yaw: %v -> %v", yaw, c.Yaw)
	}
}

func TestOrbit_Zoom(t *testing.T) {
	c := NewOrbit(45)
	c.Distance = 10
	c.MaxDist = 50

	c.Zoom(1)
	if !mgl32.FloatEqualThreshold(c.Distance, 9, 1e-4) {
		t.Errorf("distance after zoom in = %v, want 9", c.Distance)
	}
	c.Zoom(-100)
	if c.Distance != c.MaxDist {
		t.Errorf("distance = %v, want clamped to %v", c.Distance, c.MaxDist)
	}
}

func TestOrbit_Projection(t *testing.T) {
	c := NewOrbit(90)
	p := c.Projection(2)
	// With a 90 degree fov, m[1][1] = 1 and m[0][0] = 1/aspect.
	if !mgl32.FloatEqualThreshold(p.At(1, 1), 1, 1e-4) || !mgl32.FloatEqualThreshold(p.At(0, 0), 0.5, 1e-4) {
		t.Errorf("projection = %v", p)
	}
	if c.Projection(0) != c.Projection(1) {
		t.Error("zero aspect not treated as square")
	}
}
