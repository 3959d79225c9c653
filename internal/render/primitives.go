package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/swarmlab/crazyrl/internal/aviary"
)

const (
	agentRadius  = 7.0
	targetRadius = 5.0
	axisLength   = 1.5
)

var (
	backgroundColor = color.RGBA{R: 16, G: 18, B: 24, A: 255}
	fieldColor      = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	shadowColor     = color.RGBA{R: 70, G: 74, B: 84, A: 255}
	agentColor      = colornames.Skyblue
	targetColor     = colornames.Red
	axisXColor      = colornames.Crimson
	axisYColor      = colornames.Limegreen
	axisZColor      = colornames.Royalblue
)

// strokeSegment projects a world-space segment and strokes it when both
// endpoints are in front of the camera.
func strokeSegment(dst *ebiten.Image, cam *Camera, a, b aviary.Vec3, width float32, col color.Color) {
	x0, y0, ok0 := cam.Project(a)
	x1, y1, ok1 := cam.Project(b)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(dst, x0, y0, x1, y1, width, col, true)
}

// drawField draws the bounding grid on the ground plane, one line per
// arena unit across [-size, size] on both axes.
func drawField(dst *ebiten.Image, cam *Camera, size int) {
	if size <= 0 {
		return
	}
	f := float64(size)
	for i := -size; i <= size; i++ {
		v := float64(i)
		strokeSegment(dst, cam, aviary.Vec3{v, -f, 0}, aviary.Vec3{v, f, 0}, 1, fieldColor)
		strokeSegment(dst, cam, aviary.Vec3{-f, v, 0}, aviary.Vec3{f, v, 0}, 1, fieldColor)
	}
}

// drawAxes draws the XYZ axes at the arena origin.
func drawAxes(dst *ebiten.Image, cam *Camera) {
	o := aviary.Vec3{}
	strokeSegment(dst, cam, o, aviary.Vec3{axisLength, 0, 0}, 2, axisXColor)
	strokeSegment(dst, cam, o, aviary.Vec3{0, axisLength, 0}, 2, axisYColor)
	strokeSegment(dst, cam, o, aviary.Vec3{0, 0, axisLength}, 2, axisZColor)
}

// drawAgentMarker draws one drone with a drop line to the ground plane
// so altitude reads on screen.
func drawAgentMarker(dst *ebiten.Image, cam *Camera, pos aviary.Vec3) {
	x, y, ok := cam.Project(pos)
	if !ok {
		return
	}
	gx, gy, gok := cam.Project(aviary.Vec3{pos[0], pos[1], 0})
	if gok {
		vector.StrokeLine(dst, x, y, gx, gy, 1, shadowColor, true)
	}
	vector.FillCircle(dst, x, y, agentRadius, agentColor, true)
}

// drawTargetMarker draws one target.
func drawTargetMarker(dst *ebiten.Image, cam *Camera, pos aviary.Vec3) {
	x, y, ok := cam.Project(pos)
	if !ok {
		return
	}
	vector.FillCircle(dst, x, y, targetRadius, targetColor, true)
	vector.StrokeCircle(dst, x, y, targetRadius+3, 1, targetColor, true)
}
