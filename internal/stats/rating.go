package stats

import "math"

// Scaling constants for the HLTV-2.0-like approximation. The upstream API
// does not expose per-round KAST/impact data, so the official formula cannot
// be computed; this is a community approximation, not the official metric.
const (
	kprBaseline = 0.679
	dprBaseline = 0.317
	adrBaseline = 85.0

	ratingMin = 0.1
	ratingMax = 2.5
	dprCap    = 1.5
)

// Estimate computes the approximate rating from kills, deaths, kills per
// round and ADR. It returns ok=false when the inputs carry too little signal
// to estimate rounds played (no kills or no K/R).
func Estimate(kills, deaths, killsPerRound, adr float64) (float64, bool) {
	if killsPerRound <= 0 || kills <= 0 {
		return 0, false
	}

	rounds := math.Max(math.Max(kills/killsPerRound, deaths), 1.0)
	dpr := clamp(deaths/rounds, 0.0, dprCap)

	rating := (killsPerRound/kprBaseline +
		(1.0-dpr)/(1.0-dprBaseline) +
		adr/adrBaseline) / 3.0

	return round2(clamp(rating, ratingMin, ratingMax)), true
}

// EstimateLoose is the unconditional variant: when the primary inputs are
// too weak it substitutes a pseudo deaths-per-round derived from the K/D
// ratio. Callers must not mix the two formulations within one response.
func EstimateLoose(kills, deaths, killsPerRound, adr, killDeathRatio float64) float64 {
	if r, ok := Estimate(kills, deaths, killsPerRound, adr); ok {
		return r
	}

	dpr := dprCap
	if killDeathRatio > 0 {
		dpr = clamp(killsPerRound/killDeathRatio, 0.0, dprCap)
	}

	rating := (killsPerRound/kprBaseline +
		(1.0-dpr)/(1.0-dprBaseline) +
		adr/adrBaseline) / 3.0

	return round2(clamp(rating, ratingMin, ratingMax))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
