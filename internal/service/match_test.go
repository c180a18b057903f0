package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protracker/internal/api"
	"protracker/internal/cache"
	"protracker/internal/config"
	"protracker/internal/domain"
)

func newMatchService(t *testing.T, handler http.Handler) *MatchService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{FaceitAPIKey: "test-key", FaceitAPIURL: srv.URL}
	client := api.NewFaceitClient(cfg, cache.New(false), zerolog.Nop())
	return NewMatchService(client, zerolog.Nop())
}

const aliceStatsBody = `{
  "rounds": [
    {
      "round_stats": {"Map": "de_mirage", "Score": "13 / 9", "Rounds": "22"},
      "teams": [
        {
          "team_id": "TA",
          "team_stats": {"Team": "team_alpha", "Final Score": "13"},
          "players": [
            {
              "player_id": "P1",
              "nickname": "alice",
              "player_stats": {
                "Kills": "22",
                "Deaths": "14",
                "Assists": "5",
                "ADR": "78.5",
                "K/R Ratio": "0.81",
                "K/D Ratio": "1.57",
                "Headshots %": "45"
              }
            }
          ]
        },
        {
          "team_id": "TB",
          "team_stats": {"Team": "team_bravo", "Final Score": "9"},
          "players": [
            {"player_id": "P9", "nickname": "rival", "player_stats": {"Kills": "10"}}
          ]
        }
      ]
    }
  ]
}`

func TestEnrichWinPath(t *testing.T) {
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/matches/M1/stats", r.URL.Path)
		w.Write([]byte(aliceStatsBody))
	}))

	out := svc.EnrichAll(context.Background(), []api.MatchHistoryItem{
		{MatchID: "M1", GameID: "cs2"},
	}, "P1")

	require.Len(t, out, 1)
	m := out[0]

	assert.Equal(t, "M1", m.MatchID)
	assert.Equal(t, "de_mirage", m.Map)
	assert.Equal(t, "13 / 9", m.Score)
	assert.Equal(t, "https://www.faceit.com/en/cs2/room/M1", m.RoomURL)
	assert.Equal(t, domain.OutcomeWon, m.Won)
	assert.Empty(t, m.StatsUnavailableReason)

	require.NotNil(t, m.Player)
	assert.Equal(t, 22, m.Player.Kills)
	assert.Equal(t, 14, m.Player.Deaths)
	assert.Equal(t, 5, m.Player.Assists)
	assert.InDelta(t, 78.5, m.Player.ADR, 1e-9)
	assert.InDelta(t, 0.81, m.Player.KRRatio, 1e-9)
	assert.Equal(t, "TA", m.Player.Team)

	require.NotNil(t, m.Rating)
	assert.GreaterOrEqual(t, *m.Rating, 0.1)
	assert.LessOrEqual(t, *m.Rating, 2.5)

	require.Len(t, m.Teams, 2)
	assert.Equal(t, "TA", m.Teams[0].TeamID)
	require.NotNil(t, m.Teams[0].Score)
	assert.Equal(t, 13, *m.Teams[0].Score)
	require.NotNil(t, m.Teams[1].Score)
	assert.Equal(t, 9, *m.Teams[1].Score)
}

func TestEnrichLossUsesPerTeamScores(t *testing.T) {
	// no unified Score field; the per-team numeric score decides
	body := `{
	  "rounds": [{
	    "round_stats": {"Map": "de_nuke"},
	    "teams": [
	      {"team_id": "TA", "team_stats": {"Final Score": "7"},
	       "players": [{"player_id": "P1", "nickname": "alice",
	        "player_stats": {"Kills": "12", "Deaths": "18", "ADR": "55.2", "K/R Ratio": "0.55"}}]},
	      {"team_id": "TB", "team_stats": {"Final Score": "13"}, "players": []}
	    ]
	  }]
	}`
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	out := svc.EnrichAll(context.Background(), []api.MatchHistoryItem{{MatchID: "M1"}}, "P1")
	require.Len(t, out, 1)
	assert.Equal(t, domain.OutcomeLost, out[0].Won)
	assert.Equal(t, "7 / 13", out[0].Score)
}

func TestEnrichWonUnknownWhenScoreNotNumeric(t *testing.T) {
	body := `{
	  "rounds": [{
	    "round_stats": {"Map": "de_inferno", "Score": "13 / nine"},
	    "teams": [
	      {"team_id": "TA", "team_stats": {},
	       "players": [{"player_id": "P1", "nickname": "alice",
	        "player_stats": {"Kills": "20", "Deaths": "10", "ADR": "80", "K/R Ratio": "0.8"}}]},
	      {"team_id": "TB", "team_stats": {}, "players": []}
	    ]
	  }]
	}`
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))

	out := svc.EnrichAll(context.Background(), []api.MatchHistoryItem{{MatchID: "M1"}}, "P1")
	require.Len(t, out, 1)

	// placement is known but the scores did not parse
	assert.Equal(t, domain.OutcomeUnknown, out[0].Won)
	assert.Equal(t, "13 / nine", out[0].Score)
	require.NotNil(t, out[0].Player)
}

func TestEnrichPlayerNotInRoster(t *testing.T) {
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(aliceStatsBody))
	}))

	out := svc.EnrichAll(context.Background(), []api.MatchHistoryItem{{MatchID: "M1"}}, "P-unknown")
	require.Len(t, out, 1)

	assert.Nil(t, out[0].Player)
	assert.Nil(t, out[0].Rating)
	assert.Equal(t, domain.ReasonPlayerNotInRoster, out[0].StatsUnavailableReason)
	assert.Equal(t, domain.OutcomeUnknown, out[0].Won)
	// map, score and rosters still come through
	assert.Equal(t, "de_mirage", out[0].Map)
	assert.Equal(t, "13 / 9", out[0].Score)
	assert.Len(t, out[0].Teams, 2)
}

func TestEnrichHiddenStatsFallsBackToBasicMatch(t *testing.T) {
	detailBody := `{
	  "match_id": "M2",
	  "game": "cs2",
	  "voting": {"map": {"pick": ["de_ancient"]}},
	  "results": {"winner": "faction1", "score": {"faction1": 13, "faction2": 9}},
	  "teams": {
	    "faction1": {"faction_id": "F1", "name": "team_bob",
	      "roster": [{"player_id": "P2", "nickname": "bob", "avatar": "http://a/1.png"}]},
	    "faction2": {"faction_id": "F2", "name": "team_foe",
	      "roster": [{"player_id": "P3", "nickname": "foe"}]}
	  }
	}`
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches/M2/stats":
			w.WriteHeader(http.StatusForbidden)
		case "/matches/M2":
			w.Write([]byte(detailBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	out := svc.EnrichAll(context.Background(), []api.MatchHistoryItem{{MatchID: "M2"}}, "P2")
	require.Len(t, out, 1)
	m := out[0]

	assert.Equal(t, domain.ReasonNotReadyOrHidden, m.StatsUnavailableReason)
	assert.Nil(t, m.Player)
	assert.Nil(t, m.Rating)
	assert.Equal(t, domain.OutcomeUnknown, m.Won)
	assert.Equal(t, "de_ancient", m.Map)
	assert.Equal(t, "13 / 9", m.Score)

	require.Len(t, m.Teams, 2)
	assert.Equal(t, "team_bob", m.Teams[0].Nickname)
	require.Len(t, m.Teams[0].Players, 1)
	assert.Equal(t, "bob", m.Teams[0].Players[0].Nickname)
}

func TestEnrichBatchOrderingWithPartialFailure(t *testing.T) {
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches/m1/stats", "/matches/m3/stats":
			w.Write([]byte(aliceStatsBody))
		case "/matches/m2/stats":
			// slow 404 so m3 finishes first
			time.Sleep(50 * time.Millisecond)
			w.WriteHeader(http.StatusNotFound)
		case "/matches/m2":
			time.Sleep(50 * time.Millisecond)
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	stubs := []api.MatchHistoryItem{{MatchID: "m1"}, {MatchID: "m2"}, {MatchID: "m3"}}
	out := svc.EnrichAll(context.Background(), stubs, "P1")

	require.Len(t, out, 3)
	assert.Equal(t, "m1", out[0].MatchID)
	assert.Equal(t, "m2", out[1].MatchID)
	assert.Equal(t, "m3", out[2].MatchID)

	assert.NotNil(t, out[0].Player)
	assert.NotNil(t, out[2].Player)

	assert.Nil(t, out[1].Player)
	assert.Equal(t, domain.ReasonNotReadyOrHidden, out[1].StatsUnavailableReason)
	assert.Equal(t, domain.UnknownField, out[1].Map)
}

func TestEnrichFatalErrorExcludesSingleMatch(t *testing.T) {
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/matches/m2/stats":
			w.WriteHeader(http.StatusTeapot)
		default:
			w.Write([]byte(aliceStatsBody))
		}
	}))

	stubs := []api.MatchHistoryItem{{MatchID: "m1"}, {MatchID: "m2"}, {MatchID: "m3"}}
	out := svc.EnrichAll(context.Background(), stubs, "P1")

	require.Len(t, out, 2)
	assert.Equal(t, "m1", out[0].MatchID)
	assert.Equal(t, "m3", out[1].MatchID)
}

func TestEnrichNetworkFailureMarksMatch(t *testing.T) {
	cfg := &config.Config{FaceitAPIKey: "test-key", FaceitAPIURL: "http://127.0.0.1:1"}
	client := api.NewFaceitClient(cfg, cache.New(false), zerolog.Nop())
	svc := NewMatchService(client, zerolog.Nop())

	out := svc.EnrichAll(context.Background(), []api.MatchHistoryItem{{MatchID: "m1"}}, "P1")
	require.Len(t, out, 1)
	assert.Equal(t, domain.ReasonNetworkError, out[0].StatsUnavailableReason)
	assert.Nil(t, out[0].Player)
	assert.Equal(t, domain.OutcomeUnknown, out[0].Won)
}

func TestEnrichIdempotent(t *testing.T) {
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(aliceStatsBody))
	}))

	stubs := []api.MatchHistoryItem{{MatchID: "M1", GameID: "cs2", StartedAt: 1700000000}}
	first := svc.EnrichAll(context.Background(), stubs, "P1")
	second := svc.EnrichAll(context.Background(), stubs, "P1")
	assert.Equal(t, first, second)
}

func TestRecentMatchesEmptyHistory(t *testing.T) {
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/players/P1/history", r.URL.Path)
		w.Write([]byte(`{"items":[]}`))
	}))

	out, err := svc.RecentMatches(context.Background(), "P1", 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRecentMatchesClampsLimit(t *testing.T) {
	var gotLimit string
	svc := newMatchService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"items":[]}`))
	}))

	_, err := svc.RecentMatches(context.Background(), "P1", 500)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(20), gotLimit)
}
