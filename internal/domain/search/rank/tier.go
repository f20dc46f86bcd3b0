package rank

import (
	"fmt"
	"math"
)

// Tier is one recency boost step: content at most MaxAgeDays old (relative to the window end)
// has its similarity multiplied by Multiplier for ordering purposes.
type Tier struct {
	MaxAgeDays int
	Multiplier float64
}

// DefaultTiers returns the standard boost schedule: last week ×1.3, last month ×1.1.
func DefaultTiers() []Tier {
	return []Tier{
		{MaxAgeDays: 7, Multiplier: 1.3},
		{MaxAgeDays: 30, Multiplier: 1.1},
	}
}

// ValidateTiers checks tiers are in strictly ascending age order with positive multipliers.
func ValidateTiers(tiers []Tier) error {
	prev := -1
	for i, t := range tiers {
		if t.MaxAgeDays < 0 {
			return fmt.Errorf("tier %d: max_age_days must be >= 0, got %d", i, t.MaxAgeDays)
		}
		if t.MaxAgeDays <= prev {
			return fmt.Errorf("tier %d: max_age_days must be strictly ascending (%d after %d)", i, t.MaxAgeDays, prev)
		}
		if math.IsNaN(t.Multiplier) || math.IsInf(t.Multiplier, 0) || t.Multiplier <= 0 {
			return fmt.Errorf("tier %d: multiplier must be a positive number, got %v", i, t.Multiplier)
		}
		prev = t.MaxAgeDays
	}
	return nil
}

// multiplier returns the boost for content ageDays old; 1.0 past the last tier.
func multiplier(tiers []Tier, ageDays int) float64 {
	for _, t := range tiers {
		if ageDays <= t.MaxAgeDays {
			return t.Multiplier
		}
	}
	return 1.0
}
