// Package service implements the win-determination engine: it owns the
// duplicate-play guard and runs the decide-and-commit sequence as one
// atomic unit against the play store.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fortuna-totem/engine/internal/catalog"
	"github.com/fortuna-totem/engine/internal/config"
	"github.com/fortuna-totem/engine/internal/game"
	"github.com/fortuna-totem/engine/internal/model"
)

// Game orchestrates a single play: eligibility, pacing, inventory,
// overrides, and the committed record.
type Game struct {
	store    PlayStore
	settings SettingsStore
	catalog  *catalog.Catalog
	rules    game.Rules
	rng      game.Rand
	log      zerolog.Logger
	now      func() time.Time
}

// New constructs the engine from its collaborators and the event rules.
func New(store PlayStore, settings SettingsStore, cat *catalog.Catalog, cfg config.Config, rng game.Rand, log zerolog.Logger) *Game {
	testIDs := make(map[string]bool, len(cfg.TestIDs))
	for _, id := range cfg.TestIDs {
		testIDs[id] = true
	}
	return &Game{
		store:    store,
		settings: settings,
		catalog:  cat,
		rules: game.Rules{
			WinProbability: cfg.WinProbability,
			MinTenureDays:  cfg.MinTenureDays,
			BatchSize:      cfg.BatchSize,
			PrizesPerBatch: cfg.PrizesPerBatch,
			TestIDs:        testIDs,
		},
		rng: rng,
		log: log,
		now: time.Now,
	}
}

// Play runs one play to a terminal outcome. The whole sequence — duplicate
// check, state reads, decision, record append — executes inside a single
// store transaction so concurrent plays cannot both observe the same free
// capacity.
func (g *Game) Play(ctx context.Context, p model.Participant) (model.Outcome, error) {
	var out model.Outcome
	err := g.store.Play(ctx, func(s PlaySession) error {
		if !g.rules.IsTestID(p.ID) {
			played, err := s.HasPlayed(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("%w: duplicate check: %v", ErrStoreUnavailable, err)
			}
			if played {
				return ErrAlreadyPlayed
			}
		}

		st, err := s.BatchState(ctx)
		if err != nil {
			return fmt.Errorf("%w: load pacing state: %v", ErrStoreUnavailable, err)
		}

		// A failed inventory read degrades to "nothing available": the
		// participant loses instead of the stock overrunning.
		var available []string
		if names, err := s.WinningPrizeNames(ctx); err != nil {
			g.log.Warn().Err(err).Msg("winning-prize query failed, treating inventory as empty")
		} else {
			available = game.AvailablePrizes(g.catalog.List(), names, g.catalog.TotalRow())
		}

		// Re-read per play; a stale emergency flag must not outlive one
		// decision. Read errors fail safe to off.
		emergency, err := g.settings.EmergencyMode(ctx)
		if err != nil {
			g.log.Warn().Err(err).Msg("settings read failed, emergency mode off")
			emergency = false
		}

		now := g.now()
		d := game.Decide(p, now, g.rules, game.Inputs{
			Available: available,
			Emergency: emergency,
			Batch:     st,
		}, g.rng)

		rec := model.PlayRecord{
			ID:         uuid.New().String(),
			EmployeeID: p.ID,
			Name:       p.Name,
			TenureDays: d.TenureDays,
			Win:        d.Win,
			CreatedAt:  now.UTC(),
		}
		if d.Win {
			prize := d.Prize
			rec.Prize = &prize
		}

		st.RecordPlay(g.rules.BatchSize, d.Win)
		if err := s.Append(ctx, rec, st); err != nil {
			return fmt.Errorf("%w: append play record: %v", ErrStoreUnavailable, err)
		}

		out = model.Outcome{Win: d.Win, Prize: d.Prize}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyPlayed) || errors.Is(err, ErrStoreUnavailable) {
			return model.Outcome{}, err
		}
		return model.Outcome{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	g.log.Info().
		Str("employee_id", p.ID).
		Bool("win", out.Win).
		Str("prize", out.Prize).
		Msg("play committed")
	return out, nil
}

// History returns all play records, newest first.
func (g *Game) History(ctx context.Context) ([]model.PlayRecord, error) {
	recs, err := g.store.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read history: %v", ErrStoreUnavailable, err)
	}
	return recs, nil
}

// Stats summarises the event for the admin dashboard.
func (g *Game) Stats(ctx context.Context) (model.Stats, error) {
	recs, err := g.store.History(ctx)
	if err != nil {
		return model.Stats{}, fmt.Errorf("%w: read history: %v", ErrStoreUnavailable, err)
	}

	var distributed []string
	winners := 0
	for _, r := range recs {
		if r.Win {
			winners++
			if r.Prize != nil {
				distributed = append(distributed, *r.Prize)
			}
		}
	}

	emergency, err := g.settings.EmergencyMode(ctx)
	if err != nil {
		emergency = false
	}

	return model.Stats{
		TotalPlays:     len(recs),
		Winners:        winners,
		EmergencyMode:  emergency,
		RemainingStock: game.RemainingStock(g.catalog.List(), distributed, g.catalog.TotalRow()),
	}, nil
}

// ResetHistory clears the ledger and pacing counters. Administrative
// operation; the next play starts from an empty history.
func (g *Game) ResetHistory(ctx context.Context) error {
	if err := g.store.Reset(ctx); err != nil {
		return fmt.Errorf("%w: reset history: %v", ErrStoreUnavailable, err)
	}
	g.log.Info().Msg("history reset")
	return nil
}

// Emergency reports the current emergency-mode flag, failing safe to off.
func (g *Game) Emergency(ctx context.Context) bool {
	on, err := g.settings.EmergencyMode(ctx)
	if err != nil {
		return false
	}
	return on
}

// SetEmergency flips the operator override.
func (g *Game) SetEmergency(ctx context.Context, enabled bool) error {
	if err := g.settings.SetEmergencyMode(ctx, enabled); err != nil {
		return fmt.Errorf("%w: write emergency mode: %v", ErrStoreUnavailable, err)
	}
	g.log.Info().Bool("enabled", enabled).Msg("emergency mode changed")
	return nil
}
