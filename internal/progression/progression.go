// Package progression maps per-category completion counters to
// achievement tiers and the aggregate score to a character stage.
// Everything in here is pure, persistence lives in the repositories.
package progression

import (
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/pkg/entity"
)

// CurrentTier returns the highest tier whose threshold is <= count.
// ok is false while the counter sits below the first threshold.
func CurrentTier(count int, tiers []Tier) (Tier, bool) {
	var current Tier
	ok := false
	for _, t := range tiers {
		if count < t.Threshold {
			break
		}
		current = t
		ok = true
	}
	return current, ok
}

// NextTier returns the lowest tier whose threshold is > count. ok is
// false once every tier of the table is unlocked.
func NextTier(count int, tiers []Tier) (Tier, bool) {
	for _, t := range tiers {
		if count < t.Threshold {
			return t, true
		}
	}
	return Tier{}, false
}

// ProgressFraction is count over the next threshold, clamped to [0,1].
// With every tier unlocked there is nothing left to progress towards
// and the fraction is 1.0.
func ProgressFraction(count int, tiers []Tier) float64 {
	next, ok := NextTier(count, tiers)
	if !ok {
		return 1.0
	}
	f := float64(count) / float64(next.Threshold)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// CounterFor reads the counter of a category out of a profile.
func CounterFor(p *entity.Profile, c Category) int {
	switch c {
	case CategoryPunctual:
		return p.Punctual
	case CategoryAcademicWarrior:
		return p.AcademicWarrior
	case CategoryAthleticFreak:
		return p.AthleticFreak
	}
	return 0
}

// ApplyCompletion returns a copy of the profile with exactly the chosen
// category counter and the score each incremented by one. Every other
// field is untouched. The caller guards that the underlying event is
// completed only once.
func ApplyCompletion(p entity.Profile, c Category) (entity.Profile, error) {
	switch c {
	case CategoryPunctual:
		p.Punctual++
	case CategoryAcademicWarrior:
		p.AcademicWarrior++
	case CategoryAthleticFreak:
		p.AthleticFreak++
	default:
		return p, errorvalues.ErrUnknownCategory
	}
	p.Score++
	return p, nil
}

// CategoryProgress is the per-track rollup shown on the achievements
// panel: unlocked tier, next tier and how close the counter is to it.
type CategoryProgress struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Current  *Tier    `json:"current,omitempty"`
	Next     *Tier    `json:"next,omitempty"`
	Fraction float64  `json:"fraction"`
}

// Report builds the progress of every category for a profile, in the
// fixed category order.
func Report(p *entity.Profile) []CategoryProgress {
	out := make([]CategoryProgress, 0, len(Categories()))
	for _, c := range Categories() {
		tiers := Tiers(c)
		count := CounterFor(p, c)
		cp := CategoryProgress{
			Category: c,
			Count:    count,
			Fraction: ProgressFraction(count, tiers),
		}
		if cur, ok := CurrentTier(count, tiers); ok {
			t := cur
			cp.Current = &t
		}
		if next, ok := NextTier(count, tiers); ok {
			t := next
			cp.Next = &t
		}
		out = append(out, cp)
	}
	return out
}
