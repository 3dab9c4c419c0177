package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna-totem/engine/internal/catalog"
	"github.com/fortuna-totem/engine/internal/config"
	"github.com/fortuna-totem/engine/internal/game"
	"github.com/fortuna-totem/engine/internal/model"
)

const totalRow = "TOTAL DE PREMIOS"

func testConfig() config.Config {
	return config.Config{
		BatchSize:       250,
		PrizesPerBatch:  20,
		WinProbability:  0.15,
		MinTenureDays:   90,
		TestIDs:         []string{"9999"},
		CatalogTotalRow: totalRow,
	}
}

func testCatalog(t *testing.T, raw string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(raw), totalRow)
	require.NoError(t, err)
	return c
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	return testCatalog(t, `[
		{"name": "Bono $500 MXN", "total": 3},
		{"name": "Día Libre", "total": 2},
		{"name": "TOTAL DE PREMIOS", "total": 5}
	]`)
}

func newTestGame(t *testing.T, store *MemoryStore, cat *catalog.Catalog, cfg config.Config) *Game {
	t.Helper()
	return New(store, store, cat, cfg, game.NewSeededRand(1), zerolog.Nop())
}

func eligible(id string) model.Participant {
	hired := time.Now().AddDate(-3, 0, 0)
	return model.Participant{ID: id, Name: "Empleado " + id, Role: model.RoleEmployee, HireDate: &hired}
}

func TestEmergencyWinCommitsRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetEmergencyMode(ctx, true))
	g := newTestGame(t, store, defaultCatalog(t), testConfig())

	out, err := g.Play(ctx, eligible("1042"))
	require.NoError(t, err)
	assert.True(t, out.Win)
	assert.NotEmpty(t, out.Prize)

	recs, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].Win)
	require.NotNil(t, recs[0].Prize)
	assert.Equal(t, out.Prize, *recs[0].Prize)
	require.NotNil(t, recs[0].TenureDays)

	st := store.State()
	assert.Equal(t, int64(1), st.TotalPlays)
	assert.Equal(t, 1, st.CurrentBatchWins)
}

func TestDuplicatePlayRejected(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cfg := testConfig()
	cfg.WinProbability = 0
	g := newTestGame(t, store, defaultCatalog(t), cfg)

	_, err := g.Play(ctx, eligible("1042"))
	require.NoError(t, err)

	_, err = g.Play(ctx, eligible("1042"))
	require.ErrorIs(t, err, ErrAlreadyPlayed)

	recs, _ := store.History(ctx)
	assert.Len(t, recs, 1)
	assert.Equal(t, int64(1), store.State().TotalPlays)
}

func TestTestIDReplaysAndAlwaysWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cfg := testConfig()
	cfg.WinProbability = 0
	g := newTestGame(t, store, defaultCatalog(t), cfg)

	for i := 0; i < 2; i++ {
		out, err := g.Play(ctx, eligible("9999"))
		require.NoError(t, err)
		assert.True(t, out.Win)
	}
	recs, _ := store.History(ctx)
	assert.Len(t, recs, 2)
}

func TestDirectorAndShortTenureLose(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetEmergencyMode(ctx, true))
	cfg := testConfig()
	cfg.WinProbability = 1
	g := newTestGame(t, store, defaultCatalog(t), cfg)

	dir := eligible("1100")
	dir.Role = model.RoleDirector
	out, err := g.Play(ctx, dir)
	require.NoError(t, err)
	assert.False(t, out.Win)

	recent := eligible("1187")
	hired := time.Now().AddDate(0, 0, -30)
	recent.HireDate = &hired
	out, err = g.Play(ctx, recent)
	require.NoError(t, err)
	assert.False(t, out.Win)
}

func TestSingleStockConcurrentPlays(t *testing.T) {
	// Stock of exactly one prize, emergency on: ten concurrent plays must
	// produce exactly one winner.
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetEmergencyMode(ctx, true))
	cat := testCatalog(t, `[
		{"name": "Bono $500 MXN", "total": 1},
		{"name": "TOTAL DE PREMIOS", "total": 1}
	]`)
	g := newTestGame(t, store, cat, testConfig())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := g.Play(ctx, eligible(fmt.Sprintf("20%02d", n)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	recs, _ := store.History(ctx)
	require.Len(t, recs, 10)
	wins := 0
	for _, r := range recs {
		if r.Win {
			wins++
			require.NotNil(t, r.Prize)
			assert.Equal(t, "Bono $500 MXN", *r.Prize)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestPerPrizeStockNeverExceeded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cfg := testConfig()
	cfg.WinProbability = 1
	cat := testCatalog(t, `[
		{"name": "Bono $500 MXN", "total": 2},
		{"name": "Día Libre", "total": 3},
		{"name": "TOTAL DE PREMIOS", "total": 5}
	]`)
	g := newTestGame(t, store, cat, cfg)

	for i := 0; i < 20; i++ {
		_, err := g.Play(ctx, eligible(fmt.Sprintf("30%02d", i)))
		require.NoError(t, err)
	}

	recs, _ := store.History(ctx)
	counts := map[string]int{}
	for _, r := range recs {
		if r.Win && r.Prize != nil {
			counts[*r.Prize]++
		}
	}
	assert.LessOrEqual(t, counts["Bono $500 MXN"], 2)
	assert.LessOrEqual(t, counts["Día Libre"], 3)
	assert.Equal(t, 5, counts["Bono $500 MXN"]+counts["Día Libre"])
}

func TestBatchWindowCapsWinners(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cfg := testConfig()
	cfg.BatchSize = 27
	cfg.PrizesPerBatch = 3
	cfg.WinProbability = 1
	cat := testCatalog(t, `[
		{"name": "Termo Premium", "total": 100},
		{"name": "TOTAL DE PREMIOS", "total": 100}
	]`)
	g := newTestGame(t, store, cat, cfg)

	for i := 0; i < 27; i++ {
		_, err := g.Play(ctx, eligible(fmt.Sprintf("40%02d", i)))
		require.NoError(t, err)
	}

	recs, _ := store.History(ctx)
	require.Len(t, recs, 27)
	wins := 0
	for _, r := range recs {
		if r.Win {
			wins++
		}
	}
	assert.Equal(t, 3, wins)
}

func TestInventoryReadFailureDegradesToLoss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetEmergencyMode(ctx, true))
	store.FailHistoryReads = true
	g := newTestGame(t, store, defaultCatalog(t), testConfig())

	out, err := g.Play(ctx, eligible("1042"))
	require.NoError(t, err)
	assert.False(t, out.Win)

	// The losing play is still recorded.
	recs, _ := store.History(ctx)
	assert.Len(t, recs, 1)
}

func TestSettingsReadFailureMeansEmergencyOff(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetEmergencyMode(ctx, true))
	store.FailSettingsReads = true
	cfg := testConfig()
	cfg.WinProbability = 0
	g := newTestGame(t, store, defaultCatalog(t), cfg)

	out, err := g.Play(ctx, eligible("1042"))
	require.NoError(t, err)
	assert.False(t, out.Win)
}

func TestAppendFailureReportsStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetEmergencyMode(ctx, true))
	store.FailAppends = true
	g := newTestGame(t, store, defaultCatalog(t), testConfig())

	_, err := g.Play(ctx, eligible("1042"))
	require.ErrorIs(t, err, ErrStoreUnavailable)

	// No "you won" without a durable record, and nothing half-written.
	recs, _ := store.History(ctx)
	assert.Empty(t, recs)
	assert.Equal(t, int64(0), store.State().TotalPlays)
}

func TestResetAllowsReplayFromEmptyHistory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	cfg := testConfig()
	cfg.WinProbability = 0
	g := newTestGame(t, store, defaultCatalog(t), cfg)

	_, err := g.Play(ctx, eligible("1042"))
	require.NoError(t, err)
	_, err = g.Play(ctx, eligible("1042"))
	require.ErrorIs(t, err, ErrAlreadyPlayed)

	require.NoError(t, g.ResetHistory(ctx))
	assert.Equal(t, game.BatchState{}, store.State())

	_, err = g.Play(ctx, eligible("1042"))
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetEmergencyMode(ctx, true))
	cat := testCatalog(t, `[
		{"name": "Bono $500 MXN", "total": 1},
		{"name": "Día Libre", "total": 2},
		{"name": "TOTAL DE PREMIOS", "total": 3}
	]`)
	g := newTestGame(t, store, cat, testConfig())

	out, err := g.Play(ctx, eligible("1042"))
	require.NoError(t, err)
	require.True(t, out.Win)

	stats, err := g.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPlays)
	assert.Equal(t, 1, stats.Winners)
	assert.True(t, stats.EmergencyMode)
	left := stats.RemainingStock["Bono $500 MXN"] + stats.RemainingStock["Día Libre"]
	assert.Equal(t, 2, left)
	_, hasTotal := stats.RemainingStock[totalRow]
	assert.False(t, hasTotal)
}
