// Package repository implements the store interfaces on PostgreSQL using
// pgx directly (no ORM).
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fortuna-totem/engine/internal/game"
	"github.com/fortuna-totem/engine/internal/model"
	"github.com/fortuna-totem/engine/internal/service"
)

// PlayStore persists play records and pacing counters.
type PlayStore struct {
	db *pgxpool.Pool
}

// NewPlayStore constructs a PlayStore.
func NewPlayStore(db *pgxpool.Pool) *PlayStore {
	return &PlayStore{db: db}
}

// Play runs fn inside a transaction that starts by locking the single
// game_state row with SELECT … FOR UPDATE. Every concurrent play blocks on
// that lock until the first transaction commits or rolls back, so the
// read-decide-write sequence never interleaves. Without the lock two plays
// can both observe free stock or batch capacity and both win — the
// classic check-then-act race.
func (r *PlayStore) Play(ctx context.Context, fn func(s service.PlaySession) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin play transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var st game.BatchState
	err = tx.QueryRow(ctx,
		`SELECT total_plays, current_batch_wins, last_reset_batch
		 FROM game_state
		 WHERE id = 1
		 FOR UPDATE`,
	).Scan(&st.TotalPlays, &st.CurrentBatchWins, &st.LastResetBatch)
	if err != nil {
		return fmt.Errorf("lock game state: %w", err)
	}

	if err = fn(&pgSession{tx: tx, state: st}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit play transaction: %w", err)
	}
	return nil
}

// pgSession exposes the history store through the open play transaction.
type pgSession struct {
	tx    pgx.Tx
	state game.BatchState
}

func (s *pgSession) HasPlayed(ctx context.Context, employeeID string) (bool, error) {
	var played bool
	err := s.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM plays WHERE employee_id = $1)`,
		employeeID,
	).Scan(&played)
	if err != nil {
		return false, fmt.Errorf("check played: %w", err)
	}
	return played, nil
}

func (s *pgSession) WinningPrizeNames(ctx context.Context) ([]string, error) {
	rows, err := s.tx.Query(ctx,
		`SELECT prize FROM plays WHERE win AND prize IS NOT NULL`,
	)
	if err != nil {
		return nil, fmt.Errorf("list winning prizes: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan winning prize: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *pgSession) BatchState(context.Context) (game.BatchState, error) {
	return s.state, nil
}

func (s *pgSession) Append(ctx context.Context, rec model.PlayRecord, st game.BatchState) error {
	_, err := s.tx.Exec(ctx,
		`INSERT INTO plays (id, employee_id, employee_name, tenure_days, win, prize, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.EmployeeID, rec.Name, rec.TenureDays, rec.Win, rec.Prize, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert play: %w", err)
	}

	_, err = s.tx.Exec(ctx,
		`UPDATE game_state
		 SET total_plays = $1, current_batch_wins = $2, last_reset_batch = $3
		 WHERE id = 1`,
		st.TotalPlays, st.CurrentBatchWins, st.LastResetBatch,
	)
	if err != nil {
		return fmt.Errorf("update game state: %w", err)
	}
	return nil
}

// History returns all play records, newest first.
func (r *PlayStore) History(ctx context.Context) ([]model.PlayRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, employee_id, employee_name, tenure_days, win, prize, created_at
		 FROM plays
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list plays: %w", err)
	}
	defer rows.Close()

	var recs []model.PlayRecord
	for rows.Next() {
		var rec model.PlayRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Name, &rec.TenureDays, &rec.Win, &rec.Prize, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan play: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Reset truncates the ledger and zeroes the pacing counters in one
// transaction.
func (r *PlayStore) Reset(ctx context.Context) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `TRUNCATE plays`); err != nil {
		return fmt.Errorf("truncate plays: %w", err)
	}
	if _, err = tx.Exec(ctx,
		`UPDATE game_state SET total_plays = 0, current_batch_wins = 0, last_reset_batch = 0 WHERE id = 1`,
	); err != nil {
		return fmt.Errorf("zero game state: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

const emergencyKey = "emergency_mode"

// SettingsStore persists operator settings.
type SettingsStore struct {
	db *pgxpool.Pool
}

// NewSettingsStore constructs a SettingsStore.
func NewSettingsStore(db *pgxpool.Pool) *SettingsStore {
	return &SettingsStore{db: db}
}

// EmergencyMode reads the flag. A missing row means off.
func (r *SettingsStore) EmergencyMode(ctx context.Context) (bool, error) {
	var enabled bool
	err := r.db.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`,
		emergencyKey,
	).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("read emergency mode: %w", err)
	}
	return enabled, nil
}

// SetEmergencyMode upserts the flag.
func (r *SettingsStore) SetEmergencyMode(ctx context.Context, enabled bool) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		emergencyKey, enabled,
	)
	if err != nil {
		return fmt.Errorf("write emergency mode: %w", err)
	}
	return nil
}
