package game

// Table owns the pocket and ball meshes. Meshes are never shared with other
// components; Game only repositions the ball meshes Balls returns.
type Table struct {
	scene   Scene
	pockets [NumPockets]MeshID
	balls   [NumBalls]MeshID
}

func NewTable(scene Scene) *Table {
	return &Table{scene: scene}
}

// Init creates all meshes and places them at their rack positions.
// Calling Init twice without Deinit is a programming error and panics.
func (t *Table) Init() {
	pockets := PocketPositions()
	for i := range t.pockets {
		if t.pockets[i] != 0 {
			panic("game: table already initialized")
		}
		t.pockets[i] = t.scene.CreatePocketMesh(PocketRadius)
		t.scene.PlaceMesh(t.pockets[i], pockets[i].X, pockets[i].Y, 0)
	}

	rack := RackPositions()
	for i := range t.balls {
		if t.balls[i] != 0 {
			panic("game: table already initialized")
		}
		t.balls[i] = t.scene.CreateBallMesh(BallRadius)
		t.scene.PlaceMesh(t.balls[i], rack[i].X, rack[i].Y, 0)
	}
}

// Deinit destroys every mesh and clears the handles.
func (t *Table) Deinit() {
	for _, mesh := range t.pockets {
		if mesh != 0 {
			t.scene.DestroyMesh(mesh)
		}
	}
	for _, mesh := range t.balls {
		if mesh != 0 {
			t.scene.DestroyMesh(mesh)
		}
	}
	t.pockets = [NumPockets]MeshID{}
	t.balls = [NumBalls]MeshID{}
}

// Balls returns the ball mesh handles in ball index order.
func (t *Table) Balls() [NumBalls]MeshID {
	return t.balls
}

// Initialized reports whether Init has run since the last Deinit.
func (t *Table) Initialized() bool {
	return t.balls[CueBall] != 0
}
