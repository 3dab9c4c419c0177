package game

import (
	"math"
	"time"

	"github.com/fortuna-totem/engine/internal/model"
)

const msPerDay = 86_400_000

// Rules holds the event configuration the decision depends on.
type Rules struct {
	WinProbability float64
	MinTenureDays  int
	BatchSize      int
	PrizesPerBatch int
	TestIDs        map[string]bool
}

// IsTestID reports whether the identifier is a designated test id. Test
// ids may replay freely and always win while any stock remains.
func (r Rules) IsTestID(id string) bool {
	return r.TestIDs[id]
}

// Inputs is the per-play state snapshot the decision is made against. All
// of it must be read inside the same play transaction that commits the
// resulting record, or two concurrent plays can both observe capacity.
type Inputs struct {
	Available []string
	Emergency bool
	Batch     BatchState
}

// Decision is the computed result of one play, before it is committed.
type Decision struct {
	Win        bool
	Prize      string
	TenureDays *int
}

// TenureDays is the participant's tenure at play time, in whole days
// rounded up: ceil(|now - hire| in milliseconds / 86,400,000). Nil when no
// hire date is on file.
func TenureDays(p model.Participant, now time.Time) *int {
	if p.HireDate == nil {
		return nil
	}
	ms := now.Sub(*p.HireDate).Milliseconds()
	if ms < 0 {
		ms = -ms
	}
	days := int(math.Ceil(float64(ms) / msPerDay))
	return &days
}

// Decide applies the ordered eligibility rules for a single play and
// returns the outcome. First applicable rule wins:
//
//  1. directors never win
//  2. tenure below the minimum never wins
//  3. test ids force a win, subject only to the inventory guard
//  4. the batch pacing cap blocks further winners this window
//  5. empty inventory loses absolutely, overriding every override
//  6. emergency mode forces a win
//  7. otherwise a uniform draw against WinProbability
//
// On a win the prize is picked uniformly from the available list as it
// stands now, not from any earlier snapshot. Decide never mutates Batch;
// the caller records the play afterwards.
func Decide(p model.Participant, now time.Time, rules Rules, in Inputs, rng Rand) Decision {
	d := Decision{TenureDays: TenureDays(p, now)}

	if p.Role == model.RoleDirector {
		return d
	}
	if d.TenureDays != nil && *d.TenureDays < rules.MinTenureDays {
		return d
	}

	forced := rules.IsTestID(p.ID)
	if !forced && !in.Batch.AdmitWin(rules.BatchSize, rules.PrizesPerBatch) {
		return d
	}
	if len(in.Available) == 0 {
		return d
	}

	switch {
	case forced, in.Emergency:
		d.Win = true
	default:
		d.Win = rng.Float64() < rules.WinProbability
	}
	if d.Win {
		d.Prize = in.Available[rng.Intn(len(in.Available))]
	}
	return d
}
