package models

import (
	"database/sql"
	"time"
)

// TableSession is one table's lifetime on the server.
type TableSession struct {
	ID          string         `db:"id" json:"id"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	ClosedAt    sql.NullTime   `db:"closed_at" json:"closed_at,omitempty"`
	CloseReason sql.NullString `db:"close_reason" json:"close_reason,omitempty"`
	ShotCount   int            `db:"shot_count" json:"shot_count"`
}

// Shot is one cue launch.
type Shot struct {
	ID         int64     `db:"id" json:"id"`
	TableID    string    `db:"table_id" json:"table_id"`
	ShotNumber int       `db:"shot_number" json:"shot_number"`
	Charge     float64   `db:"charge" json:"charge"`
	VelocityX  float64   `db:"velocity_x" json:"velocity_x"`
	VelocityY  float64   `db:"velocity_y" json:"velocity_y"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Pocketing is a ball captured by a pocket during a shot.
type Pocketing struct {
	ID         int64     `db:"id" json:"id"`
	TableID    string    `db:"table_id" json:"table_id"`
	ShotNumber int       `db:"shot_number" json:"shot_number"`
	BallID     int       `db:"ball_id" json:"ball_id"`
	PocketID   int       `db:"pocket_id" json:"pocket_id"`
	Speed      float64   `db:"speed" json:"speed"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
