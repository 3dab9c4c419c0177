package service

import (
	"context"
	"errors"

	"github.com/fortuna-totem/engine/internal/game"
	"github.com/fortuna-totem/engine/internal/model"
)

// ErrAlreadyPlayed is returned when a non-test participant already has a
// play on record. Terminal for that participant; nothing is written.
var ErrAlreadyPlayed = errors.New("participant already played")

// ErrStoreUnavailable is returned when the backing store cannot complete a
// play. A win is never reported unless its record committed.
var ErrStoreUnavailable = errors.New("store unavailable")

// PlaySession is the view of the history store inside one play
// transaction. Every read through it and the final Append happen under the
// same lock, so the state a decision is made against cannot move before
// the record lands.
type PlaySession interface {
	// HasPlayed reports whether the participant already has a record.
	HasPlayed(ctx context.Context, employeeID string) (bool, error)
	// WinningPrizeNames returns the prize name of every winning record.
	WinningPrizeNames(ctx context.Context) ([]string, error)
	// BatchState returns the persisted pacing counters.
	BatchState(ctx context.Context) (game.BatchState, error)
	// Append writes the play record and the updated pacing counters.
	Append(ctx context.Context, rec model.PlayRecord, st game.BatchState) error
}

// PlayStore owns the outcome history ledger and the pacing counters.
type PlayStore interface {
	// Play runs fn inside a transaction that serializes against all other
	// plays. If fn returns an error nothing fn did through the session is
	// kept.
	Play(ctx context.Context, fn func(s PlaySession) error) error
	// History returns all play records, newest first.
	History(ctx context.Context) ([]model.PlayRecord, error)
	// Reset clears the ledger and zeroes the pacing counters. The engine
	// treats the resulting empty history as a valid starting state.
	Reset(ctx context.Context) error
}

// SettingsStore exposes the operator-controlled emergency flag.
type SettingsStore interface {
	EmergencyMode(ctx context.Context) (bool, error)
	SetEmergencyMode(ctx context.Context, enabled bool) error
}
