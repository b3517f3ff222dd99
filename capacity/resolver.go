// Package capacity resolves the usable frame capacity and the optical
// codec version tier it implies, per FORMAT.md.
//
// Resolution is a pure decision table: no I/O, no ambient state. Any
// user-facing warning about a forced clamp or downgrade is the
// caller's responsibility to emit.
package capacity

import (
	"math"

	"github.com/qrdrive-io/qrdrive/types"
)

// Per-level capacity ceilings (bytes per frame, inclusive) per FORMAT.md.
// Strength trades off against capacity.
const (
	CeilingLow    = 2953
	CeilingMedium = 2331
	CeilingHigh   = 1273
)

// MaxTier is the largest QR version tier.
const MaxTier = 40

// thresholds is the ascending capacity ladder at Low strength.
// Scaled by the level modifier before comparison per FORMAT.md.
var thresholds = []int{106, 271, 520, 858, 1273, 1732, 2303, 2953}

// tiers[i] is the version tier that covers thresholds[i].
var tiers = []int{5, 10, 15, 20, 25, 30, 35, 40}

// Ceiling returns the hard capacity ceiling for a level.
func Ceiling(level types.ECLevel) int {
	switch level {
	case types.ECMedium:
		return CeilingMedium
	case types.ECHigh:
		return CeilingHigh
	default:
		return CeilingLow
	}
}

// modifier returns the threshold scaling factor for a level.
func modifier(level types.ECLevel) float64 {
	switch level {
	case types.ECMedium:
		return 0.75
	case types.ECHigh:
		return 0.4
	default:
		return 1.0
	}
}

// scaled returns the ladder threshold at index i scaled for level,
// truncated to whole bytes.
func scaled(i int, level types.ECLevel) int {
	return int(math.Floor(float64(thresholds[i]) * modifier(level)))
}

// Clamp limits a requested capacity to the level's ceiling.
// Returns the effective capacity and whether clamping occurred.
func Clamp(requested int, level types.ECLevel) (int, bool) {
	ceiling := Ceiling(level)
	if requested > ceiling {
		return ceiling, true
	}
	return requested, false
}

// TierFor returns the smallest version tier whose scaled threshold
// covers the capacity. Capacities above every scaled rung resolve to
// the maximum tier: the per-level ceilings are what tier 40 actually
// holds at that level, so a ceiling-clamped capacity never needs a
// further reduction here.
func TierFor(cap int, level types.ECLevel) int {
	for i := range thresholds {
		if cap <= scaled(i, level) {
			return tiers[i]
		}
	}
	return MaxTier
}

// Physical describes a print medium's legibility floor: the available
// linear size for one code and the smallest module width that remains
// scannable on that medium, in the same unit (points, pixels, ...).
type Physical struct {
	AvailableSize float64
	MinModuleSize float64
}

// maxLegibleTier returns the largest version tier whose module grid
// fits the medium at or above the minimum module size. A tier v spans
// 17+4v modules per side (quiet zone excluded, matching how sheets
// scale the rendered image).
func (p Physical) maxLegibleTier() int {
	if p.MinModuleSize <= 0 || p.AvailableSize <= 0 {
		return MaxTier
	}
	side := int(p.AvailableSize / p.MinModuleSize)
	tier := (side - 17) / 4
	if tier > MaxTier {
		return MaxTier
	}
	if tier < 1 {
		return 1
	}
	return tier
}

// Result is a resolved capacity decision.
type Result struct {
	// Capacity is the effective bytes-per-frame bound.
	Capacity int
	// Tier is the version tier the encoder must request.
	Tier int
	// Clamped is true when the request exceeded the level ceiling.
	Clamped bool
	// Downgraded is true when a physical constraint forced the
	// capacity below the (clamped) request.
	Downgraded bool
}

// Resolve computes the effective capacity and tier for a request.
//
// phys may be nil (no physical constraint). When the tier implied by
// the capacity would not print legibly, the capacity is stepped down
// the threshold ladder one rung at a time until it fits or the
// smallest rung is reached. force suppresses the downgrade and
// restores the clamped request even if it will not print legibly —
// an escape hatch, not a bug.
func Resolve(requested int, level types.ECLevel, phys *Physical, force bool) Result {
	capBytes, clamped := Clamp(requested, level)
	res := Result{Capacity: capBytes, Tier: TierFor(capBytes, level), Clamped: clamped}
	if phys == nil || force {
		return res
	}

	legible := phys.maxLegibleTier()
	for res.Tier > legible {
		next, ok := stepDown(res.Capacity, level)
		if !ok {
			break
		}
		res.Capacity = next
		res.Tier = TierFor(next, level)
		res.Downgraded = true
	}
	return res
}

// stepDown returns the largest scaled ladder rung strictly below cap.
// ok is false at the bottom of the ladder.
func stepDown(cap int, level types.ECLevel) (int, bool) {
	for i := len(thresholds) - 1; i >= 0; i-- {
		if s := scaled(i, level); s < cap {
			return s, true
		}
	}
	return cap, false
}
