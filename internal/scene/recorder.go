package scene

import (
	"fmt"
	"sort"

	"github.com/playmatatu/billiards/internal/game"
)

// MeshKind distinguishes pockets from balls.
type MeshKind string

const (
	KindPocket MeshKind = "pocket"
	KindBall   MeshKind = "ball"
)

// Mesh is one recorded mesh and its last placement.
type Mesh struct {
	ID     game.MeshID `json:"id"`
	Kind   MeshKind    `json:"kind"`
	Radius float64     `json:"radius"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Z      float64     `json:"z"`
}

// Frame is what a client needs to draw the table at one point in time.
type Frame struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Meshes   []Mesh  `json:"meshes"`
	Progress float64 `json:"progress"`
}

// Recorder is a game.Scene that keeps meshes in memory instead of drawing
// them. Frames are pulled from it by whoever renders or streams the table.
type Recorder struct {
	width    float64
	height   float64
	nextID   game.MeshID
	meshes   map[game.MeshID]*Mesh
	progress float64
	dirty    bool
}

func NewRecorder() *Recorder {
	return &Recorder{meshes: make(map[game.MeshID]*Mesh)}
}

func (r *Recorder) SetupBackground(width, height float64) {
	r.width, r.height = width, height
	r.dirty = true
}

func (r *Recorder) CreatePocketMesh(radius float64) game.MeshID {
	return r.create(KindPocket, radius)
}

func (r *Recorder) CreateBallMesh(radius float64) game.MeshID {
	return r.create(KindBall, radius)
}

func (r *Recorder) create(kind MeshKind, radius float64) game.MeshID {
	r.nextID++
	r.meshes[r.nextID] = &Mesh{ID: r.nextID, Kind: kind, Radius: radius}
	r.dirty = true
	return r.nextID
}

// PlaceMesh moves a mesh. Placing a mesh that was never created or was
// already destroyed panics.
func (r *Recorder) PlaceMesh(mesh game.MeshID, x, y, z float64) {
	m, ok := r.meshes[mesh]
	if !ok {
		panic(fmt.Sprintf("scene: place of unknown mesh %d", mesh))
	}
	if m.X == x && m.Y == y && m.Z == z {
		return
	}
	m.X, m.Y, m.Z = x, y, z
	r.dirty = true
}

func (r *Recorder) DestroyMesh(mesh game.MeshID) {
	if _, ok := r.meshes[mesh]; !ok {
		panic(fmt.Sprintf("scene: destroy of unknown mesh %d", mesh))
	}
	delete(r.meshes, mesh)
	r.dirty = true
}

func (r *Recorder) UpdateProgressBar(progress float64) {
	if progress == r.progress {
		return
	}
	r.progress = progress
	r.dirty = true
}

// Dirty reports whether anything changed since the last Frame call.
func (r *Recorder) Dirty() bool {
	return r.dirty
}

// Frame returns the current meshes ordered by id and clears the dirty flag.
func (r *Recorder) Frame() Frame {
	f := r.Peek()
	r.dirty = false
	return f
}

// Peek is Frame without clearing the dirty flag.
func (r *Recorder) Peek() Frame {
	f := Frame{
		Width:    r.width,
		Height:   r.height,
		Meshes:   make([]Mesh, 0, len(r.meshes)),
		Progress: r.progress,
	}
	for _, m := range r.meshes {
		f.Meshes = append(f.Meshes, *m)
	}
	sort.Slice(f.Meshes, func(i, j int) bool {
		return f.Meshes[i].ID < f.Meshes[j].ID
	})
	return f
}

// Balls returns the ball meshes of a frame in creation order, which is ball
// index order for a table racked by game.Table.
func (f Frame) Balls() []Mesh {
	balls := make([]Mesh, 0, game.NumBalls)
	for _, m := range f.Meshes {
		if m.Kind == KindBall {
			balls = append(balls, m)
		}
	}
	return balls
}
