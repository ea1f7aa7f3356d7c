package game

// Table, ball and shot parameters. Values are fixed; tests and clients
// depend on them exactly.
const (
	TableWidth   = 15.0
	TableHeight  = 8.0
	PocketRadius = 0.4
	BallRadius   = 0.3

	TargetFPS = 60
	Accuracy  = 0.01 // convergence tolerance for speeds and distances

	ShotChargeTime = 1.0 // seconds to reach full power
	Impulse        = 6.0
	Friction       = 0.03
	Gravity        = 9.81

	NumBalls   = 7 // 0=cue, 1-6=object balls
	NumPockets = 6
	CueBall    = 0

	// Infinity is the coordinate pocketed balls are parked at, well off the table.
	Infinity = 2 * (TableWidth + TableHeight)
)

// PocketPositions returns the 6 pocket centres: the four corners and the
// middle of both long sides.
func PocketPositions() [NumPockets]Vec2 {
	w, h := TableWidth/2, TableHeight/2
	return [NumPockets]Vec2{
		NewVec2(-w, -h),
		NewVec2(0, -h),
		NewVec2(w, -h),
		NewVec2(-w, h),
		NewVec2(0, h),
		NewVec2(w, h),
	}
}

// RackPositions returns the initial ball positions, cue ball first.
func RackPositions() [NumBalls]Vec2 {
	w, h := TableWidth, TableHeight
	return [NumBalls]Vec2{
		// Cue ball
		NewVec2(-0.3*w, 0),
		// Object balls
		NewVec2(0.2*w, 0),
		NewVec2(0.25*w, 0.05*h),
		NewVec2(0.25*w, -0.05*h),
		NewVec2(0.3*w, 0.1*h),
		NewVec2(0.3*w, 0),
		NewVec2(0.3*w, -0.1*h),
	}
}

// Sentinel is where pocketed object balls are parked.
func Sentinel() Vec2 {
	return NewVec2(Infinity, Infinity)
}
