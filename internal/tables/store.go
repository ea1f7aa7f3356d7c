package tables

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/billiards/internal/game"
	"github.com/playmatatu/billiards/internal/models"
)

// Store writes table history to Postgres. A Store without a database
// accepts every call and does nothing, so tables run without persistence.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) enabled() bool {
	return s != nil && s.db != nil
}

func (s *Store) CreateTable(tableID string) error {
	if !s.enabled() {
		return nil
	}
	if _, err := s.db.Exec(`INSERT INTO table_sessions (id, created_at) VALUES ($1, NOW())`, tableID); err != nil {
		return fmt.Errorf("insert table session: %w", err)
	}
	return nil
}

func (s *Store) CloseTable(tableID, reason string) error {
	if !s.enabled() {
		return nil
	}
	if _, err := s.db.Exec(
		`UPDATE table_sessions SET closed_at = NOW(), close_reason = $2 WHERE id = $1 AND closed_at IS NULL`,
		tableID, reason,
	); err != nil {
		return fmt.Errorf("close table session: %w", err)
	}
	return nil
}

// RecordShot stores a shot launch event.
func (s *Store) RecordShot(tableID string, shotNumber int, e game.Event) {
	if !s.enabled() {
		return
	}
	_, err := s.db.Exec(
		`INSERT INTO shots (table_id, shot_number, charge, velocity_x, velocity_y, created_at) VALUES ($1,$2,$3,$4,$5,NOW())`,
		tableID, shotNumber, e.Charge, e.Velocity.X, e.Velocity.Y,
	)
	if err != nil {
		log.Printf("[DB] Failed to record shot %d for table %s: %v", shotNumber, tableID, err)
	}
}

// RecordPocket stores a pocketing event against the shot that caused it.
func (s *Store) RecordPocket(tableID string, shotNumber int, e game.Event) {
	if !s.enabled() {
		return
	}
	_, err := s.db.Exec(
		`INSERT INTO pocketings (table_id, shot_number, ball_id, pocket_id, speed, created_at) VALUES ($1,$2,$3,$4,$5,NOW())`,
		tableID, shotNumber, e.BallID, e.TargetID, e.Speed,
	)
	if err != nil {
		log.Printf("[DB] Failed to record pocketing of ball %d for table %s: %v", e.BallID, tableID, err)
	}
}

// ListShots returns a table's shots in order. Without a database the history
// is always empty.
func (s *Store) ListShots(tableID string) ([]models.Shot, error) {
	shots := []models.Shot{}
	if !s.enabled() {
		return shots, nil
	}
	err := s.db.Select(&shots,
		`SELECT id, table_id, shot_number, charge, velocity_x, velocity_y, created_at
		 FROM shots WHERE table_id = $1 ORDER BY shot_number`, tableID)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	return shots, nil
}

// ListPocketings returns the balls pocketed on a table in order.
func (s *Store) ListPocketings(tableID string) ([]models.Pocketing, error) {
	pocketings := []models.Pocketing{}
	if !s.enabled() {
		return pocketings, nil
	}
	err := s.db.Select(&pocketings,
		`SELECT id, table_id, shot_number, ball_id, pocket_id, speed, created_at
		 FROM pocketings WHERE table_id = $1 ORDER BY id`, tableID)
	if err != nil {
		return nil, fmt.Errorf("list pocketings: %w", err)
	}
	return pocketings, nil
}

// ListSessions returns table sessions newest first with their shot counts,
// and the total number of sessions.
func (s *Store) ListSessions(limit, offset int) ([]models.TableSession, int, error) {
	sessions := []models.TableSession{}
	if !s.enabled() {
		return sessions, 0, nil
	}

	var total int
	if err := s.db.Get(&total, `SELECT COUNT(*) FROM table_sessions`); err != nil {
		return nil, 0, fmt.Errorf("count table sessions: %w", err)
	}

	err := s.db.Select(&sessions, `
		SELECT ts.id, ts.created_at, ts.closed_at, ts.close_reason,
			(SELECT COUNT(*) FROM shots sh WHERE sh.table_id = ts.id) AS shot_count
		FROM table_sessions ts
		ORDER BY ts.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list table sessions: %w", err)
	}
	return sessions, total, nil
}
