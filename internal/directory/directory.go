// Package directory provides read-only lookup into the employee list
// prepared from the HR spreadsheet. The engine only ever asks "who is this
// id"; maintaining the list is someone else's job.
package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fortuna-totem/engine/internal/model"
)

// entry mirrors one row of employees.json as produced by the spreadsheet
// conversion: role comes through in Spanish, hire_date is optional.
type entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	HireDate string `json:"hire_date"`
}

// Directory is an immutable id → participant index.
type Directory struct {
	byID map[string]model.Participant
}

// Load reads the employee file and indexes it by id.
func Load(path string) (*Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read employee directory: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Directory from raw JSON. Rows without an id are skipped;
// duplicate ids keep the first occurrence.
func Parse(raw []byte) (*Directory, error) {
	var entries []entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse employee directory: %w", err)
	}

	byID := make(map[string]model.Participant, len(entries))
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			continue
		}
		if _, dup := byID[id]; dup {
			continue
		}

		p := model.Participant{
			ID:   id,
			Name: displayName(e),
			Role: model.RoleEmployee,
		}
		if strings.EqualFold(e.Role, "director") {
			p.Role = model.RoleDirector
		}
		if e.HireDate != "" {
			hired, err := time.Parse("2006-01-02", e.HireDate)
			if err != nil {
				return nil, fmt.Errorf("employee %s: bad hire_date %q: %w", id, e.HireDate, err)
			}
			p.HireDate = &hired
		}
		byID[id] = p
	}

	if len(byID) == 0 {
		return nil, fmt.Errorf("employee directory is empty")
	}
	return &Directory{byID: byID}, nil
}

func displayName(e entry) string {
	if e.FullName != "" {
		return e.FullName
	}
	return strings.TrimSpace(e.Name + " " + e.Surname)
}

// Lookup returns the participant for an id, if known.
func (d *Directory) Lookup(id string) (model.Participant, bool) {
	p, ok := d.byID[id]
	return p, ok
}

// Size is the number of employees on file.
func (d *Directory) Size() int {
	return len(d.byID)
}
