// Package catalog loads the static prize catalog for the event. The file
// is the JSON produced from the prize spreadsheet: an array of
// {"name": …, "total": …} entries, optionally including a grand-total row
// that is metadata rather than an assignable prize.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fortuna-totem/engine/internal/model"
)

// Catalog is the immutable prize list, loaded once at startup.
type Catalog struct {
	prizes   []model.PrizeDefinition
	totalRow string
}

// Load reads and validates the catalog file. Entries with an empty name or
// non-positive total are rejected outright; the event should not start with
// a malformed prize list.
func Load(path, totalRow string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prize catalog: %w", err)
	}
	return Parse(raw, totalRow)
}

// Parse builds a Catalog from raw JSON.
func Parse(raw []byte, totalRow string) (*Catalog, error) {
	var prizes []model.PrizeDefinition
	if err := json.Unmarshal(raw, &prizes); err != nil {
		return nil, fmt.Errorf("parse prize catalog: %w", err)
	}
	if len(prizes) == 0 {
		return nil, fmt.Errorf("prize catalog is empty")
	}

	seen := make(map[string]bool, len(prizes))
	for i, p := range prizes {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("prize catalog entry %d has no name", i)
		}
		if p.Total <= 0 {
			return nil, fmt.Errorf("prize %q has non-positive total %d", name, p.Total)
		}
		if seen[name] {
			return nil, fmt.Errorf("prize %q appears twice in the catalog", name)
		}
		seen[name] = true
		prizes[i].Name = name
	}

	return &Catalog{prizes: prizes, totalRow: totalRow}, nil
}

// List returns all catalog entries, grand-total row included.
func (c *Catalog) List() []model.PrizeDefinition {
	out := make([]model.PrizeDefinition, len(c.prizes))
	copy(out, c.prizes)
	return out
}

// TotalRow is the name of the metadata row excluded from assignment.
func (c *Catalog) TotalRow() string {
	return c.totalRow
}
