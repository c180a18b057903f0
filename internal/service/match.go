package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"protracker/internal/api"
	"protracker/internal/constants"
	"protracker/internal/domain"
	"protracker/internal/stats"
)

type MatchService struct {
	faceit *api.FaceitClient
	logger zerolog.Logger
}

func NewMatchService(faceit *api.FaceitClient, logger zerolog.Logger) *MatchService {
	return &MatchService{faceit: faceit, logger: logger}
}

// RecentMatches fetches the player's match history and enriches every entry.
// Output order is the history order. A player with no recent matches yields
// an empty slice, not an error.
func (s *MatchService) RecentMatches(ctx context.Context, playerID string, limit int) ([]domain.EnrichedMatch, error) {
	if limit <= 0 {
		limit = constants.DefaultMatchLimit
	}
	if limit > constants.MaxMatchLimit {
		limit = constants.MaxMatchLimit
	}

	history, err := s.faceit.GetPlayerHistory(ctx, playerID, constants.DefaultGame, limit)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return []domain.EnrichedMatch{}, nil
		}
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	return s.EnrichAll(ctx, history.Items, playerID), nil
}

// EnrichAll enriches the given match stubs concurrently with a bounded
// worker count. Results are written back by stub index, so output order is
// input order regardless of completion order. A match whose enrichment
// fails fatally is excluded; its siblings are unaffected.
func (s *MatchService) EnrichAll(ctx context.Context, stubs []api.MatchHistoryItem, playerID string) []domain.EnrichedMatch {
	batchID, _ := gonanoid.New(8)
	log := s.logger.With().Str("batch_id", batchID).Str("player_id", playerID).Logger()
	log.Info().Int("match_count", len(stubs)).Msg("enriching match batch")

	results := make([]*domain.EnrichedMatch, len(stubs))

	g := new(errgroup.Group)
	limit := constants.EnrichConcurrency
	if len(stubs) < limit {
		limit = len(stubs)
	}
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, stub := range stubs {
		g.Go(func() error {
			enriched, err := s.enrichOne(ctx, stub, playerID)
			if err != nil {
				log.Error().Err(err).Str("match_id", stub.MatchID).Msg("match enrichment failed, excluding match")
				return nil
			}
			results[i] = enriched
			return nil
		})
	}
	// workers never return errors; Wait is a join
	_ = g.Wait()

	out := make([]domain.EnrichedMatch, 0, len(stubs))
	for _, m := range results {
		if m != nil {
			out = append(out, *m)
		}
	}
	log.Info().Int("enriched", len(out)).Msg("match batch done")
	return out
}

// enrichOne runs the per-match pipeline: statistics fetch, roster scan, win
// determination, and the basic-match fallback when statistics are
// unavailable. Every missing field takes its sentinel instead of failing the
// match; only unexpected upstream errors are fatal, and only for this match.
func (s *MatchService) enrichOne(ctx context.Context, stub api.MatchHistoryItem, playerID string) (*domain.EnrichedMatch, error) {
	game := stub.GameID
	if game == "" {
		game = constants.DefaultGame
	}

	m := &domain.EnrichedMatch{
		MatchID:    stub.MatchID,
		Game:       game,
		Map:        domain.UnknownField,
		Score:      domain.UnknownField,
		StartedAt:  stub.StartedAt,
		FinishedAt: stub.FinishedAt,
		RoomURL:    domain.RoomURL(game, stub.MatchID),
		Won:        domain.OutcomeUnknown,
	}

	statsResp, err := s.faceit.GetMatchStats(ctx, stub.MatchID)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound), errors.Is(err, api.ErrUnauthorized):
			m.StatsUnavailableReason = domain.ReasonNotReadyOrHidden
		case errors.Is(err, api.ErrNetwork):
			m.StatsUnavailableReason = domain.ReasonNetworkError
		default:
			return nil, fmt.Errorf("fetch stats: %w", err)
		}
		s.fillFromBasicMatch(ctx, m, stub)
		return m, nil
	}
	if len(statsResp.Rounds) == 0 {
		m.StatsUnavailableReason = domain.ReasonNotReadyOrHidden
		s.fillFromBasicMatch(ctx, m, stub)
		return m, nil
	}

	// statistics are only trusted from the first round
	round := statsResp.Rounds[0]

	if name, ok := roundStatString(round.RoundStats, "Map"); ok {
		m.Map = name
	}

	teamScores := s.resolveTeamScores(round)
	if score := formatScores(teamScores); score != "" {
		m.Score = score
	} else if raw, ok := roundStatString(round.RoundStats, "Score"); ok {
		// keep whatever the unified field said even when it did not parse
		m.Score = strings.TrimSpace(raw)
	}

	playerTeamIdx := -1
	teams := make([]domain.TeamSummary, 0, len(round.Teams))
	for ti, team := range round.Teams {
		summary := domain.TeamSummary{
			TeamID:   team.TeamID,
			Nickname: teamNickname(team.TeamStats),
			Score:    teamScores[ti],
		}
		for _, p := range team.Players {
			summary.Players = append(summary.Players, domain.RosterPlayer{
				PlayerID: p.PlayerID,
				Nickname: p.Nickname,
			})
			if p.PlayerID == playerID {
				playerTeamIdx = ti
				m.Player = buildStatLine(p, team.TeamID)
				if rating, ok := stats.Estimate(
					float64(m.Player.Kills),
					float64(m.Player.Deaths),
					m.Player.KRRatio,
					m.Player.ADR,
				); ok {
					m.Rating = &rating
				}
			}
		}
		teams = append(teams, summary)
	}
	m.Teams = teams

	if m.Player == nil {
		m.StatsUnavailableReason = domain.ReasonPlayerNotInRoster
	}

	// won needs both the faction placement and two parsed integer scores
	if playerTeamIdx >= 0 && len(teamScores) == 2 &&
		teamScores[0] != nil && teamScores[1] != nil {
		own, opp := *teamScores[playerTeamIdx], *teamScores[1-playerTeamIdx]
		if own > opp {
			m.Won = domain.OutcomeWon
		} else {
			m.Won = domain.OutcomeLost
		}
	}

	return m, nil
}

// resolveTeamScores applies the score precedence: the unified round_stats
// "Score" pair first, the per-team numeric score second. Entries stay nil
// when neither shape parsed.
func (s *MatchService) resolveTeamScores(round api.StatsRound) []*int {
	scores := make([]*int, len(round.Teams))

	if raw, ok := roundStatString(round.RoundStats, "Score"); ok && len(round.Teams) == 2 {
		if a, b, ok := parseScorePair(raw); ok {
			scores[0], scores[1] = &a, &b
			return scores
		}
	}

	for i, team := range round.Teams {
		if v, ok := stats.Lookup(team.TeamStats, stats.FieldTeamScore); ok {
			n := int(v)
			scores[i] = &n
		}
	}
	return scores
}

// fillFromBasicMatch populates map and rosters from the lighter match
// endpoint when statistics were unavailable. Best effort: any failure here
// leaves the sentinels in place. The personal stat line and the win state
// stay absent on this path.
func (s *MatchService) fillFromBasicMatch(ctx context.Context, m *domain.EnrichedMatch, stub api.MatchHistoryItem) {
	detail, err := s.faceit.GetMatch(ctx, m.MatchID)
	if err != nil {
		s.logger.Debug().Err(err).Str("match_id", m.MatchID).Msg("basic match fallback unavailable")
		if score, ok := formatResultsScore(stub.Results); ok && m.Score == domain.UnknownField {
			m.Score = score
		}
		return
	}

	if name := detail.MapName(); name != "" {
		m.Map = name
	}

	factions := make([]string, 0, len(detail.Teams))
	for key := range detail.Teams {
		factions = append(factions, key)
	}
	sort.Strings(factions)

	teams := make([]domain.TeamSummary, 0, len(factions))
	for _, key := range factions {
		faction := detail.Teams[key]
		summary := domain.TeamSummary{
			TeamID:   faction.FactionID,
			Nickname: faction.Name,
		}
		for _, entry := range faction.Roster {
			summary.Players = append(summary.Players, domain.RosterPlayer{
				PlayerID: entry.PlayerID,
				Nickname: entry.Nickname,
				Avatar:   entry.Avatar,
			})
		}
		teams = append(teams, summary)
	}
	if len(teams) > 0 {
		m.Teams = teams
	}

	results := detail.Results
	if results == nil {
		results = stub.Results
	}
	if score, ok := formatResultsScore(results); ok && m.Score == domain.UnknownField {
		m.Score = score
	}
}

func buildStatLine(p api.StatsPlayer, teamID string) *domain.PlayerStatLine {
	raw := p.PlayerStats
	return &domain.PlayerStatLine{
		Nickname:    p.Nickname,
		Team:        teamID,
		Kills:       stats.ExtractInt(raw, stats.FieldKills),
		Deaths:      stats.ExtractInt(raw, stats.FieldDeaths),
		Assists:     stats.ExtractInt(raw, stats.FieldAssists),
		KDRatio:     stats.Extract(raw, stats.FieldKillDeathRatio),
		KRRatio:     stats.Extract(raw, stats.FieldKillsPerRound),
		ADR:         stats.Extract(raw, stats.FieldADR),
		HeadshotPct: stats.Extract(raw, stats.FieldHeadshotPct),
	}
}

func roundStatString(roundStats map[string]any, key string) (string, bool) {
	v, ok := roundStats[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return "", false
	}
	return str, true
}

func teamNickname(teamStats map[string]any) string {
	if name, ok := teamStats["Team"].(string); ok {
		return name
	}
	return ""
}

// parseScorePair parses the unified "13 / 9" score string.
func parseScorePair(raw string) (int, int, bool) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return a, b, true
}

func formatScores(scores []*int) string {
	if len(scores) != 2 || scores[0] == nil || scores[1] == nil {
		return ""
	}
	return fmt.Sprintf("%d / %d", *scores[0], *scores[1])
}

// formatResultsScore renders the history-level results block, the last
// resort of the score precedence chain. Faction keys are emitted in sorted
// order (faction1 / faction2).
func formatResultsScore(results *api.MatchResults) (string, bool) {
	if results == nil || len(results.Score) != 2 {
		return "", false
	}
	keys := make([]string, 0, 2)
	for key := range results.Score {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%d / %d", results.Score[keys[0]], results.Score[keys[1]]), true
}
