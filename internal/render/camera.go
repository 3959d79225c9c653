// Package render draws aviary scenes into an ebiten window: a fixed
// perspective camera over the arena, a ground grid, coordinate axes and
// one marker per drone and target.
package render

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/swarmlab/crazyrl/internal/aviary"
)

// Viewer geometry mirrors the original CrazyRL window: a square
// viewport with the camera parked at (3, -11, 3), looking at the arena
// origin with +Z up and a 75° vertical field of view.
const (
	windowSize = 900
	fovDegrees = 75.0
	nearPlane  = 0.1
)

var (
	cameraEye = aviary.Vec3{3, -11, 3}
	cameraUp  = aviary.Vec3{0, 0, 1}
)

// Camera projects world-space points onto the viewport. Its view basis
// is computed once at construction and never changes afterwards: the
// camera stays put across frames.
type Camera struct {
	right, up, forward aviary.Vec3 // orthonormal view basis
	eye                aviary.Vec3
	fovScale           float64 // cot(fov/2)
	width, height      float64
}

// NewCamera builds the fixed arena camera for a viewport of the given
// pixel dimensions.
func NewCamera(width, height int) *Camera {
	forward := aviary.Vec3{}.Sub(cameraEye).Unit()
	right := cross(forward, cameraUp).Unit()
	up := cross(right, forward)
	return &Camera{
		right:    right,
		up:       up,
		forward:  forward,
		eye:      cameraEye,
		fovScale: 1 / math.Tan(fovDegrees*math.Pi/360),
		width:    float64(width),
		height:   float64(height),
	}
}

// Project maps p to viewport pixel coordinates. ok is false when p sits
// at or behind the near plane.
func (c *Camera) Project(p aviary.Vec3) (x, y float32, ok bool) {
	d := p.Sub(c.eye)
	depth := dot(c.forward, d)
	if depth < nearPlane {
		return 0, 0, false
	}
	aspect := c.width / c.height
	xn := c.fovScale / aspect * dot(c.right, d) / depth
	yn := c.fovScale * dot(c.up, d) / depth
	return float32((xn + 1) / 2 * c.width), float32((1 - yn) / 2 * c.height), true
}

func dot(a, b aviary.Vec3) float64 {
	return floats.Dot(a[:], b[:])
}

func cross(a, b aviary.Vec3) aviary.Vec3 {
	return aviary.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
