package game

import "math"

// ShotController tracks the charge-and-release gesture.
type ShotController struct {
	charging bool
	progress float64
}

// Press starts charging. Progress keeps its current value.
func (s *ShotController) Press() {
	s.charging = true
}

// Charge accumulates progress while charging, clamped at 1.
func (s *ShotController) Charge(dt float64) {
	if !s.charging {
		return
	}
	s.progress = math.Min(s.progress+dt/ShotChargeTime, 1)
}

// Release ends charging and returns the progress reached.
func (s *ShotController) Release() float64 {
	progress := s.progress
	s.charging = false
	s.progress = 0
	return progress
}

func (s *ShotController) Charging() bool {
	return s.charging
}

func (s *ShotController) Progress() float64 {
	return s.progress
}

// MouseButtonPressed starts charging a shot. The press position is unused.
func (g *Game) MouseButtonPressed(x, y float64) {
	g.shot.Press()
}

// MouseButtonReleased launches the cue ball toward (x, y) with an impulse
// scaled by the charge reached. A release while the cue ball is still rolling,
// on top of the cue ball, with no charge, or so far away that the direction
// cannot be normalized is consumed without effect. Either way the charge is
// cleared.
func (g *Game) MouseButtonReleased(x, y float64) {
	charge := g.shot.Release()

	if g.velocities[CueBall].Magnitude() >= Accuracy {
		return
	}

	speed := Impulse * charge
	if !(speed > 0) {
		return
	}

	dir := NewVec2(x, y).Minus(g.positions[CueBall])
	if dir.Magnitude() < Accuracy {
		return
	}

	v := dir.Normalize().Times(speed)
	if !finite(v) || v.IsZero() {
		return
	}

	g.velocities[CueBall] = v
	g.record(Event{
		Type:     EventShot,
		BallID:   CueBall,
		TargetID: -1,
		Speed:    v.Magnitude(),
		Velocity: v,
		Charge:   charge,
	})
}

func finite(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
