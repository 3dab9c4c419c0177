package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fortuna-totem/engine/internal/model"
)

const totalRow = "TOTAL DE PREMIOS"

var catalog = []model.PrizeDefinition{
	{Name: "Bono $500 MXN", Total: 1},
	{Name: "Día Libre", Total: 2},
	{Name: "Termo Premium", Total: 0},
	{Name: totalRow, Total: 3},
}

func TestAvailablePrizesExcludesExhausted(t *testing.T) {
	got := AvailablePrizes(catalog, []string{"Bono $500 MXN"}, totalRow)
	assert.Equal(t, []string{"Día Libre"}, got)
}

func TestAvailablePrizesExcludesTotalRow(t *testing.T) {
	got := AvailablePrizes(catalog, nil, totalRow)
	assert.NotContains(t, got, totalRow)
	assert.ElementsMatch(t, []string{"Bono $500 MXN", "Día Libre"}, got)
}

func TestAvailablePrizesEmptyHistory(t *testing.T) {
	got := AvailablePrizes(catalog, []string{}, totalRow)
	assert.Len(t, got, 2)
}

func TestAvailablePrizesAllDistributed(t *testing.T) {
	dist := []string{"Bono $500 MXN", "Día Libre", "Día Libre"}
	assert.Empty(t, AvailablePrizes(catalog, dist, totalRow))
}

func TestRemainingStock(t *testing.T) {
	dist := []string{"Día Libre"}
	stock := RemainingStock(catalog, dist, totalRow)
	assert.Equal(t, map[string]int{
		"Bono $500 MXN": 1,
		"Día Libre":     1,
		"Termo Premium": 0,
	}, stock)
}

func TestRemainingStockNeverNegative(t *testing.T) {
	dist := []string{"Bono $500 MXN", "Bono $500 MXN"}
	stock := RemainingStock(catalog, dist, totalRow)
	assert.Equal(t, 0, stock["Bono $500 MXN"])
}
