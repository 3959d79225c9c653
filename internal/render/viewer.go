package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/swarmlab/crazyrl/internal/aviary"
)

// FPS is the viewer's tick and draw rate.
const FPS = 20

// Viewer is an aviary.FrameRenderer backed by an ebiten window. The
// environment pushes scene snapshots through Frame; the game loop
// started by Run presents the latest one. The offscreen world buffer is
// allocated lazily on first draw and released by Close, which is safe
// to call repeatedly.
type Viewer struct {
	mu     sync.Mutex
	scene  aviary.Scene
	ready  bool
	closed bool

	cam      *Camera
	worldBuf *ebiten.Image
}

func NewViewer() *Viewer {
	return &Viewer{}
}

// Frame stores the latest scene snapshot for the draw loop.
func (v *Viewer) Frame(s aviary.Scene) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.scene = s
	v.ready = true
}

// Close releases the draw resources; the run loop exits on its next
// update. Calling Close again, or before anything was allocated, is a
// no-op.
func (v *Viewer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	if v.worldBuf != nil {
		v.worldBuf.Deallocate()
		v.worldBuf = nil
	}
	return nil
}

// Run opens the window and invokes step once per tick until step
// returns an error, Close is called, or the window is closed by the
// user.
func (v *Viewer) Run(step func() error) error {
	ebiten.SetWindowSize(windowSize, windowSize)
	ebiten.SetWindowTitle("Crazy RL")
	ebiten.SetTPS(FPS)
	return ebiten.RunGame(&viewerGame{v: v, step: step})
}

type viewerGame struct {
	v    *Viewer
	step func() error
}

func (g *viewerGame) Update() error {
	g.v.mu.Lock()
	closed := g.v.closed
	g.v.mu.Unlock()
	if closed {
		return ebiten.Termination
	}
	if g.step != nil {
		return g.step()
	}
	return nil
}

func (g *viewerGame) Draw(screen *ebiten.Image) {
	v := g.v
	v.mu.Lock()
	defer v.mu.Unlock()

	screen.Fill(backgroundColor)
	if !v.ready || v.closed {
		return
	}
	if v.cam == nil {
		v.cam = NewCamera(windowSize, windowSize)
	}
	if v.worldBuf == nil {
		v.worldBuf = ebiten.NewImage(windowSize, windowSize)
	}

	// Same draw order as the original viewer: drones, then field and
	// axes, then targets on top.
	buf := v.worldBuf
	buf.Fill(backgroundColor)
	for _, pos := range v.scene.Agents {
		drawAgentMarker(buf, v.cam, pos)
	}
	drawField(buf, v.cam, v.scene.Size)
	drawAxes(buf, v.cam)
	for _, pos := range v.scene.Targets {
		drawTargetMarker(buf, v.cam, pos)
	}
	screen.DrawImage(buf, nil)
}

func (g *viewerGame) Layout(_, _ int) (int, int) {
	return windowSize, windowSize
}
