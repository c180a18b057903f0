// Package stats normalizes the raw per-player statistics mappings returned
// by the upstream match-stats endpoint and derives the approximate rating.
//
// Upstream keys player stats by display labels ("Kills", "K/R Ratio",
// "Headshots %") whose spelling drifted across API versions, and values may
// arrive as numbers or as strings with a trailing "%". Each logical field
// therefore carries an ordered list of accepted labels; the first one that
// parses wins, everything else degrades to zero.
package stats

import (
	"strconv"
	"strings"
)

type Field int

const (
	FieldKills Field = iota
	FieldDeaths
	FieldAssists
	FieldADR
	FieldHeadshotPct
	FieldKillsPerRound
	FieldKillDeathRatio
	FieldResult
	FieldTeamScore
)

// fieldLabels lists historically-observed upstream labels per logical field,
// in probe order.
var fieldLabels = map[Field][]string{
	FieldKills:          {"Kills"},
	FieldDeaths:         {"Deaths"},
	FieldAssists:        {"Assists"},
	FieldADR:            {"ADR", "Average Damage per Round"},
	FieldHeadshotPct:    {"Headshots %", "Headshot %", "HS %"},
	FieldKillsPerRound:  {"K/R Ratio", "K/R", "KR"},
	FieldKillDeathRatio: {"K/D Ratio", "K/D", "KD"},
	FieldResult:         {"Result"},
	FieldTeamScore:      {"Final Score", "Score"},
}

// Lookup probes the candidate labels for field in order and returns the
// first value that parses as numeric, with ok=false when none did.
func Lookup(raw map[string]any, field Field) (float64, bool) {
	for _, label := range fieldLabels[field] {
		v, ok := raw[label]
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0.0, false
}

// Extract is Lookup with the documented zero default for missing or
// malformed values.
func Extract(raw map[string]any, field Field) float64 {
	f, _ := Lookup(raw, field)
	return f
}

// ExtractInt truncates the float extraction; upstream sometimes emits
// decimal strings for integer-valued fields, so the string is never
// re-parsed as an integer.
func ExtractInt(raw map[string]any, field Field) int {
	return int(Extract(raw, field))
}

// toFloat accepts the numeric shapes seen in upstream payloads: JSON
// numbers, integers, and strings with optional surrounding whitespace and a
// trailing "%".
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "%"))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
