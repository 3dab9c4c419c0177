package game

import "github.com/fortuna-totem/engine/internal/model"

// AvailablePrizes derives the prize names still in stock: catalog entries
// whose distributed count (winning records carrying that name) is below the
// allotted total. The catalog's grand-total row is metadata, never
// assignable, and is skipped by name.
//
// Callers that fail to read the winning-prize list must pass the failure
// down as an empty catalog or handle it by treating the result as empty:
// degrading toward "nothing available" can only under-award, never overrun
// stock.
func AvailablePrizes(catalog []model.PrizeDefinition, distributed []string, totalRow string) []string {
	counts := make(map[string]int, len(distributed))
	for _, name := range distributed {
		counts[name]++
	}

	var available []string
	for _, p := range catalog {
		if p.Name == totalRow {
			continue
		}
		if p.Total <= 0 {
			continue
		}
		if counts[p.Name] < p.Total {
			available = append(available, p.Name)
		}
	}
	return available
}

// RemainingStock reports, per assignable prize, how many units are left.
// Used by the admin stats endpoint; never negative even if the ledger
// somehow holds more wins than stock.
func RemainingStock(catalog []model.PrizeDefinition, distributed []string, totalRow string) map[string]int {
	counts := make(map[string]int, len(distributed))
	for _, name := range distributed {
		counts[name]++
	}

	stock := make(map[string]int, len(catalog))
	for _, p := range catalog {
		if p.Name == totalRow {
			continue
		}
		left := p.Total - counts[p.Name]
		if left < 0 {
			left = 0
		}
		stock[p.Name] = left
	}
	return stock
}
