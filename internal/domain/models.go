package domain

import (
	"fmt"
	"strings"
)

// UnknownField is the sentinel for map/score values the upstream never
// produced; presentation code renders it verbatim.
const UnknownField = "-"

// Reasons recorded on a match when no personal stat line could be built.
const (
	ReasonNotReadyOrHidden  = "not_ready_or_hidden"
	ReasonNetworkError      = "network_error"
	ReasonPlayerNotInRoster = "player_not_in_roster"
)

type PlayerRef struct {
	PlayerID   string `json:"player_id"`
	Nickname   string `json:"nickname"`
	Country    string `json:"country,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	ProfileURL string `json:"profile_url"`
}

// Outcome is the tri-state win/loss signal. It marshals to JSON true/false
// when known and to the string "unknown" otherwise.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) MarshalJSON() ([]byte, error) {
	switch o {
	case OutcomeWon:
		return []byte("true"), nil
	case OutcomeLost:
		return []byte("false"), nil
	default:
		return []byte(`"unknown"`), nil
	}
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*o = OutcomeWon
	case "false":
		*o = OutcomeLost
	case `"unknown"`:
		*o = OutcomeUnknown
	default:
		return fmt.Errorf("invalid outcome value: %s", data)
	}
	return nil
}

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "true"
	case OutcomeLost:
		return "false"
	default:
		return "unknown"
	}
}

type RosterPlayer struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar,omitempty"`
}

type TeamSummary struct {
	TeamID   string         `json:"team_id,omitempty"`
	Nickname string         `json:"nickname,omitempty"`
	Score    *int           `json:"score,omitempty"`
	Players  []RosterPlayer `json:"players,omitempty"`
}

// PlayerStatLine is the requesting player's normalized personal line for one
// match. Values already went through the field normalizer, so malformed
// upstream data shows up as zeroes, never as an error.
type PlayerStatLine struct {
	Nickname    string  `json:"nickname,omitempty"`
	Team        string  `json:"team,omitempty"`
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Assists     int     `json:"assists"`
	KDRatio     float64 `json:"kd"`
	KRRatio     float64 `json:"kr"`
	ADR         float64 `json:"adr"`
	HeadshotPct float64 `json:"hs_pct"`
}

type EnrichedMatch struct {
	MatchID    string          `json:"match_id"`
	Game       string          `json:"game,omitempty"`
	Map        string          `json:"map"`
	Score      string          `json:"score"`
	StartedAt  int64           `json:"started_at,omitempty"`
	FinishedAt int64           `json:"finished_at,omitempty"`
	RoomURL    string          `json:"room_url"`
	Teams      []TeamSummary   `json:"teams,omitempty"`
	Player     *PlayerStatLine `json:"player,omitempty"`
	Won        Outcome         `json:"won"`
	Rating     *float64        `json:"rating,omitempty"`

	// StatsUnavailableReason is set exactly when Player is absent.
	StatsUnavailableReason string `json:"stats_unavailable_reason,omitempty"`
}

// RoomURL builds the match room page link. Derived, never fetched.
func RoomURL(game, matchID string) string {
	slug := strings.ToLower(strings.TrimSpace(game))
	if slug == "" {
		slug = "cs2"
	}
	return fmt.Sprintf("https://www.faceit.com/en/%s/room/%s", slug, matchID)
}

// ProfileURL builds the player profile page link, or "#" when the nickname
// is unknown.
func ProfileURL(nickname string) string {
	nick := strings.TrimSpace(nickname)
	if nick == "" {
		return "#"
	}
	return fmt.Sprintf("https://www.faceit.com/en/players/%s", nick)
}
