package game

import (
	"math"
	"testing"
)

const tick = 1.0 / TargetFPS

type placement struct {
	x, y, z float64
}

// fakeScene records every call the core makes.
type fakeScene struct {
	next      MeshID
	kinds     map[MeshID]string
	placed    map[MeshID]placement
	destroyed []MeshID
	progress  []float64
	width     float64
	height    float64
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		kinds:  make(map[MeshID]string),
		placed: make(map[MeshID]placement),
	}
}

func (s *fakeScene) SetupBackground(width, height float64) {
	s.width, s.height = width, height
}

func (s *fakeScene) CreatePocketMesh(radius float64) MeshID {
	s.next++
	s.kinds[s.next] = "pocket"
	return s.next
}

func (s *fakeScene) CreateBallMesh(radius float64) MeshID {
	s.next++
	s.kinds[s.next] = "ball"
	return s.next
}

func (s *fakeScene) PlaceMesh(mesh MeshID, x, y, z float64) {
	if _, ok := s.kinds[mesh]; !ok {
		panic("place of unknown mesh")
	}
	s.placed[mesh] = placement{x, y, z}
}

func (s *fakeScene) DestroyMesh(mesh MeshID) {
	if _, ok := s.kinds[mesh]; !ok {
		panic("destroy of unknown mesh")
	}
	delete(s.kinds, mesh)
	delete(s.placed, mesh)
	s.destroyed = append(s.destroyed, mesh)
}

func (s *fakeScene) UpdateProgressBar(progress float64) {
	s.progress = append(s.progress, progress)
}

type fakeEngine struct {
	fps int
}

func (e *fakeEngine) SetTargetFPS(fps int) {
	e.fps = fps
}

func newTestGame(t *testing.T) (*Game, *fakeScene) {
	t.Helper()
	scene := newFakeScene()
	g := NewGame(scene)
	g.Init()
	return g, scene
}

// parkBalls moves the given object balls off the table so a test can work
// with a reduced set.
func parkBalls(g *Game, ids ...int) {
	for _, i := range ids {
		g.positions[i] = Sentinel()
		g.velocities[i] = Vec2{}
	}
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
