package api

// PlayerResponse is the /players and /players/{id} payload.
type PlayerResponse struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Country  string `json:"country"`
	Avatar   string `json:"avatar"`
}

// SearchResponse is the /search/players payload, used as the fuzzy fallback
// when an exact nickname lookup 404s.
type SearchResponse struct {
	Items []SearchItem `json:"items"`
}

type SearchItem struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Country  string `json:"country"`
	Avatar   string `json:"avatar"`
}

// HistoryResponse is the /players/{id}/history payload: ordered match stubs,
// newest first.
type HistoryResponse struct {
	Items []MatchHistoryItem `json:"items"`
}

type MatchHistoryItem struct {
	MatchID    string         `json:"match_id"`
	GameID     string         `json:"game_id"`
	Region     string         `json:"region"`
	StartedAt  int64          `json:"started_at"`
	FinishedAt int64          `json:"finished_at"`
	Status     string         `json:"status"`
	Results    *MatchResults  `json:"results,omitempty"`
	Teams      map[string]any `json:"teams,omitempty"`
}

type MatchResults struct {
	Winner string         `json:"winner"`
	Score  map[string]int `json:"score"`
}

// MatchStatsResponse is the /matches/{id}/stats payload. The raw stat
// mappings stay untyped: labels and value shapes drifted across API versions
// and are reconciled by the stats package.
type MatchStatsResponse struct {
	Rounds []StatsRound `json:"rounds"`
}

type StatsRound struct {
	MatchID    string         `json:"match_id"`
	GameMode   string         `json:"game_mode"`
	RoundStats map[string]any `json:"round_stats"`
	Teams      []StatsTeam    `json:"teams"`
}

type StatsTeam struct {
	TeamID    string         `json:"team_id"`
	Premade   bool           `json:"premade"`
	TeamStats map[string]any `json:"team_stats"`
	Players   []StatsPlayer  `json:"players"`
}

type StatsPlayer struct {
	PlayerID    string         `json:"player_id"`
	Nickname    string         `json:"nickname"`
	PlayerStats map[string]any `json:"player_stats"`
}

// MatchResponse is the /matches/{id} payload: the lighter fallback with
// roster composition but no per-player numeric stats.
type MatchResponse struct {
	MatchID    string                  `json:"match_id"`
	Game       string                  `json:"game"`
	Region     string                  `json:"region"`
	StartedAt  int64                   `json:"started_at"`
	FinishedAt int64                   `json:"finished_at"`
	Teams      map[string]MatchFaction `json:"teams"`
	Voting     MatchVoting             `json:"voting"`
	Results    *MatchResults           `json:"results,omitempty"`
}

type MatchFaction struct {
	FactionID string        `json:"faction_id"`
	Name      string        `json:"name"`
	Avatar    string        `json:"avatar"`
	Roster    []RosterEntry `json:"roster"`
}

type RosterEntry struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type MatchVoting struct {
	Map MatchVotingMap `json:"map"`
}

type MatchVotingMap struct {
	Pick []string `json:"pick"`
}

// MapName returns the voted map name, or empty string if unavailable.
func (m *MatchResponse) MapName() string {
	if len(m.Voting.Map.Pick) > 0 {
		return m.Voting.Map.Pick[0]
	}
	return ""
}
