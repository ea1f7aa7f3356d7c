package game

import "math"

// EventType names what happened in an Event.
type EventType string

const (
	EventShot   EventType = "shot"
	EventBall   EventType = "ball"
	EventBorder EventType = "border"
	EventPocket EventType = "pocket"
	EventRack   EventType = "rack"
)

// Event records a shot, a collision or a rack reset, for persistence and
// sound playback.
type Event struct {
	Type     EventType `json:"type"`
	BallID   int       `json:"ball_id"`
	TargetID int       `json:"target_id"` // ball ID or pocket index, -1 when not applicable
	Speed    float64   `json:"speed"`
	Velocity Vec2      `json:"velocity"`
	Charge   float64   `json:"charge,omitempty"` // shots only
}

// step runs one physics tick. Balls are processed in index order; a ball that
// took part in a pair collision this tick is not processed again.
// It returns true when the cue ball was pocketed and the table re-racked, in
// which case the rest of the tick, friction included, is abandoned.
func (g *Game) step(dt float64) bool {
	var skip [NumBalls]bool

	for i := 0; i < NumBalls; i++ {
		if g.velocities[i].Magnitude() <= Accuracy || skip[i] {
			continue
		}

		end := g.positions[i].Plus(g.velocities[i].Times(dt))

		if pocket, ok := inPocket(end); ok {
			g.record(Event{
				Type:     EventPocket,
				BallID:   i,
				TargetID: pocket,
				Speed:    g.velocities[i].Magnitude(),
				Velocity: g.velocities[i],
			})
			if i == CueBall {
				g.rerack()
				return true
			}
			g.positions[i] = Sentinel()
			g.velocities[i] = Vec2{}
			g.placeBall(i)
			continue
		}

		if g.borderCollision(end, i) {
			continue
		}

		j := g.closestBall(end, i)
		if j == i {
			g.positions[i] = end
			g.placeBall(i)
			continue
		}

		g.resolveCollision(i, j, dt)
		skip[i], skip[j] = true, true
	}

	g.reduceVelocities(dt)
	return false
}

// inPocket returns the index of the pocket capturing a ball centred at pos.
// A ball is captured once its centre is within a quarter radius beyond the
// pocket edge.
func inPocket(pos Vec2) (int, bool) {
	for i, pocket := range PocketPositions() {
		if pos.Minus(pocket).Magnitude() <= PocketRadius+BallRadius/4 {
			return i, true
		}
	}
	return -1, false
}

// borderCollision flips the velocity components of ball i whose axis puts
// end inside the cushion band. The ball is not moved on a bounce tick.
func (g *Game) borderCollision(end Vec2, i int) bool {
	hit := false
	speed := g.velocities[i].Magnitude()

	if math.Abs(math.Abs(end.X)-TableWidth/2) <= BallRadius+Accuracy {
		g.velocities[i].X = -g.velocities[i].X
		hit = true
	}
	if math.Abs(math.Abs(end.Y)-TableHeight/2) <= BallRadius+Accuracy {
		g.velocities[i].Y = -g.velocities[i].Y
		hit = true
	}

	if hit {
		g.record(Event{
			Type:     EventBorder,
			BallID:   i,
			TargetID: -1,
			Speed:    speed,
			Velocity: g.velocities[i],
		})
	}
	return hit
}

// closestBall returns the ball nearest to subject, measured from the
// subject's current position, among the balls its end position overlaps.
// It returns subject when nothing overlaps. Parked balls drop out by distance.
func (g *Game) closestBall(end Vec2, subject int) int {
	index := subject
	distance := Infinity

	for i := 0; i < NumBalls; i++ {
		if i == subject {
			continue
		}
		if end.Minus(g.positions[i]).Magnitude() >= 2*BallRadius {
			continue
		}
		d := g.positions[subject].Minus(g.positions[i]).Magnitude()
		if d < distance {
			distance = d
			index = i
		}
	}
	return index
}

// resolveCollision moves subject to the approximate contact point, exchanges
// velocities with target and advances both for the rest of the tick.
func (g *Game) resolveCollision(subject, target int, dt float64) {
	before := g.velocities[subject]
	distance := g.positions[subject].Minus(g.positions[target]).Magnitude()
	dtau := timeToContact(distance, before.Magnitude())
	contact := g.positions[subject].Plus(before.Times(dtau))

	g.exchangeVelocities(subject, target)

	rest := dt - dtau
	g.positions[subject] = contact.Plus(g.velocities[subject].Times(rest))
	g.positions[target] = g.positions[target].Plus(g.velocities[target].Times(rest))

	g.placeBall(subject)
	g.placeBall(target)

	g.record(Event{
		Type:     EventBall,
		BallID:   subject,
		TargetID: target,
		Speed:    before.Magnitude(),
		Velocity: g.velocities[subject],
	})
}

// exchangeVelocities swaps the normal components of an equal-mass elastic
// collision. The tangential part is v minus its projection on the normal, so
// it is orthogonal to the normal and kinetic energy is preserved.
func (g *Game) exchangeVelocities(subject, target int) {
	n := g.positions[target].Minus(g.positions[subject]).Normalize()

	vs, vt := g.velocities[subject], g.velocities[target]
	sn, tn := vs.Dot(n), vt.Dot(n)

	st := vs.Minus(n.Times(sn))
	tt := vt.Minus(n.Times(tn))

	g.velocities[subject] = st.Plus(n.Times(tn))
	g.velocities[target] = tt.Plus(n.Times(sn))
}

// timeToContact approximates, for small dt, when two balls distance apart
// touch if only the subject moves at speed.
func timeToContact(distance, speed float64) float64 {
	return (distance - 2*BallRadius) / speed
}

// reduceVelocities applies rolling friction along each axis. Friction never
// reverses a component; it stops at zero.
func (g *Game) reduceVelocities(dt float64) {
	decel := Friction * Gravity * dt

	for i := range g.velocities {
		v := &g.velocities[i]
		if v.Magnitude() < Accuracy {
			continue
		}
		v.X = applyFriction(v.X, decel)
		v.Y = applyFriction(v.Y, decel)
	}
}

func applyFriction(component, decel float64) float64 {
	switch {
	case component > 0:
		return math.Max(component-decel, 0)
	case component < 0:
		return math.Min(component+decel, 0)
	}
	return 0
}
