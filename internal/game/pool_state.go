package game

// BallState is a ball's position and status for serialization.
type BallState struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Pocketed bool    `json:"pocketed"`
}

// Snapshot is a copy of the simulation state at one point in time.
type Snapshot struct {
	Balls          [NumBalls]BallState `json:"balls"`
	Charging       bool                `json:"charging"`
	ChargeProgress float64             `json:"charge_progress"`
	Frozen         bool                `json:"frozen"`
}

// Game holds the physics state of one rack and the shot controller.
// It is not safe for concurrent use; one goroutine owns it.
type Game struct {
	scene      Scene
	table      *Table
	positions  [NumBalls]Vec2
	velocities [NumBalls]Vec2
	shot       ShotController
	events     []Event
}

func NewGame(scene Scene) *Game {
	return &Game{
		scene: scene,
		table: NewTable(scene),
	}
}

// Init creates the table meshes and racks the balls.
func (g *Game) Init() {
	g.table.Init()
	g.positions = RackPositions()
	g.velocities = [NumBalls]Vec2{}
}

// Deinit destroys all meshes.
func (g *Game) Deinit() {
	g.table.Deinit()
}

// Update advances physics and shot charging by dt seconds. A tick that
// re-racks the table ends there: the shot does not charge on it.
func (g *Game) Update(dt float64) {
	if !g.IsFrozen() && g.step(dt) {
		return
	}
	g.shot.Charge(dt)
}

// IsFrozen reports whether every ball is at rest, in which case the physics
// step is a no-op.
func (g *Game) IsFrozen() bool {
	for _, v := range g.velocities {
		if v.Magnitude() >= Accuracy {
			return false
		}
	}
	return true
}

// rerack resets the table to its initial state: meshes are recreated and
// every ball goes back to its rack position at rest.
func (g *Game) rerack() {
	g.table.Deinit()
	g.Init()
	g.record(Event{Type: EventRack, BallID: CueBall, TargetID: -1})
}

func (g *Game) placeBall(i int) {
	p := g.positions[i]
	g.scene.PlaceMesh(g.table.Balls()[i], p.X, p.Y, 0)
}

func (g *Game) Position(i int) Vec2 {
	return g.positions[i]
}

func (g *Game) Velocity(i int) Vec2 {
	return g.velocities[i]
}

// IsPocketed reports whether ball i has been captured and parked this rack.
func (g *Game) IsPocketed(i int) bool {
	return g.positions[i].IsEqualTo(Sentinel()) && g.velocities[i].IsZero()
}

// ChargeProgress returns the current shot charge in [0, 1].
func (g *Game) ChargeProgress() float64 {
	return g.shot.Progress()
}

// IsChargingShot reports whether a shot is being charged.
func (g *Game) IsChargingShot() bool {
	return g.shot.Charging()
}

func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Charging:       g.shot.Charging(),
		ChargeProgress: g.shot.Progress(),
		Frozen:         g.IsFrozen(),
	}
	for i := 0; i < NumBalls; i++ {
		s.Balls[i] = BallState{
			ID:       i,
			X:        g.positions[i].X,
			Y:        g.positions[i].Y,
			VX:       g.velocities[i].X,
			VY:       g.velocities[i].Y,
			Pocketed: g.IsPocketed(i),
		}
	}
	return s
}

func (g *Game) record(e Event) {
	g.events = append(g.events, e)
}

// DrainEvents returns the events recorded since the last call and clears them.
func (g *Game) DrainEvents() []Event {
	events := g.events
	g.events = nil
	return events
}
