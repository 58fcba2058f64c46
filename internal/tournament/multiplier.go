package tournament

import (
	"fmt"
	"strings"
)

// CostBasis selects which fees make up the denominator of the multiplier.
type CostBasis string

const (
	CostEntryPlusAddOn CostBasis = "entry_plus_addon"
	CostEntryOnly      CostBasis = "entry_only"
)

// ParseCostBasis validates a cost basis name; "" selects entry fee + add-on.
func ParseCostBasis(s string) (CostBasis, error) {
	switch b := CostBasis(strings.ToLower(strings.TrimSpace(s))); b {
	case "", CostEntryPlusAddOn:
		return CostEntryPlusAddOn, nil
	case CostEntryOnly:
		return b, nil
	}
	return "", fmt.Errorf("unknown cost basis %q", s)
}

const (
	// DefaultMultiplierCeiling marks ratios at or above it as data-entry noise.
	DefaultMultiplierCeiling = 500.0

	// DefaultSatelliteMarker identifies satellite events by title.
	DefaultSatelliteMarker = "サテ"
)

// MultiplierPolicy holds the tunables of the prize multiplier.
type MultiplierPolicy struct {
	CostBasis       CostBasis `json:"cost_basis" yaml:"cost_basis"`
	Ceiling         float64   `json:"ceiling" yaml:"ceiling"`
	SatelliteMarker string    `json:"satellite_marker" yaml:"satellite_marker"`
}

// DefaultPolicy returns entry fee + add-on as cost, a ceiling of 500 and
// satellite exclusion.
func DefaultPolicy() MultiplierPolicy {
	return MultiplierPolicy{
		CostBasis:       CostEntryPlusAddOn,
		Ceiling:         DefaultMultiplierCeiling,
		SatelliteMarker: DefaultSatelliteMarker,
	}
}

// IsSatellite reports whether title carries the satellite marker (case-sensitive).
func (p MultiplierPolicy) IsSatellite(title string) bool {
	return p.SatelliteMarker != "" && strings.Contains(title, p.SatelliteMarker)
}

// Cost returns the cost basis for the given fees. Missing fees count as zero.
func (p MultiplierPolicy) Cost(entryFee, addOn *float64) float64 {
	cost := deref(entryFee)
	if p.CostBasis != CostEntryOnly {
		cost += deref(addOn)
	}
	return cost
}

// Compute returns totalPrize / cost. It reports ok=false when the cost or the
// prize is missing or not positive, when the title marks a satellite, or when
// the ratio reaches the ceiling.
func (p MultiplierPolicy) Compute(totalPrize, entryFee, addOn *float64, title string) (float64, bool) {
	if totalPrize == nil || p.IsSatellite(title) {
		return 0, false
	}
	cost := p.Cost(entryFee, addOn)
	if cost <= 0 {
		return 0, false
	}

	m := *totalPrize / cost
	if m <= 0 {
		return 0, false
	}
	if p.Ceiling > 0 && m >= p.Ceiling {
		return 0, false
	}
	return m, true
}

// ComputeMultiplier applies DefaultPolicy.
func ComputeMultiplier(totalPrize, entryFee, addOn *float64, title string) (float64, bool) {
	return DefaultPolicy().Compute(totalPrize, entryFee, addOn, title)
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
