package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protracker/internal/api"
	"protracker/internal/cache"
	"protracker/internal/config"
)

func newPlayerService(t *testing.T, handler http.Handler) *PlayerService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{FaceitAPIKey: "test-key", FaceitAPIURL: srv.URL}
	client := api.NewFaceitClient(cfg, cache.New(false), zerolog.Nop())
	return NewPlayerService(client, zerolog.Nop())
}

func TestResolveExactNickname(t *testing.T) {
	svc := newPlayerService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/players", r.URL.Path)
		require.Equal(t, "alice", r.URL.Query().Get("nickname"))
		w.Write([]byte(`{"player_id":"P1","nickname":"alice","country":"se"}`))
	}))

	ref, found, err := svc.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "P1", ref.PlayerID)
	assert.Equal(t, "alice", ref.Nickname)
	assert.Equal(t, "se", ref.Country)
	assert.Equal(t, "Europe/Stockholm", ref.Timezone)
	assert.Equal(t, "https://www.faceit.com/en/players/alice", ref.ProfileURL)
}

func TestResolveIDShapedInputGoesDirect(t *testing.T) {
	const id = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
	var gotPath string
	svc := newPlayerService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"player_id":"` + id + `","nickname":"alice"}`))
	}))

	ref, found, err := svc.Resolve(context.Background(), id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/players/"+id, gotPath)
	assert.Equal(t, id, ref.PlayerID)
}

func TestResolveFallsBackToSearch(t *testing.T) {
	svc := newPlayerService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players":
			w.WriteHeader(http.StatusNotFound)
		case "/search/players":
			require.Equal(t, "alicey", r.URL.Query().Get("nickname"))
			w.Write([]byte(`{"items":[{"player_id":"P7","nickname":"alicey_real","country":"de"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	ref, found, err := svc.Resolve(context.Background(), "alicey")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "P7", ref.PlayerID)
	assert.Equal(t, "alicey_real", ref.Nickname)
}

func TestResolveNotFoundIsNormalOutcome(t *testing.T) {
	svc := newPlayerService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players":
			w.WriteHeader(http.StatusNotFound)
		case "/search/players":
			w.Write([]byte(`{"items":[]}`))
		}
	}))

	ref, found, err := svc.Resolve(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, ref)
}

func TestResolveEmptyInput(t *testing.T) {
	svc := newPlayerService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	}))

	ref, found, err := svc.Resolve(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, ref)
}

func TestResolvePropagatesUpstreamFailure(t *testing.T) {
	svc := newPlayerService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	_, found, err := svc.Resolve(context.Background(), "alice")
	require.Error(t, err)
	assert.False(t, found)
}

func TestLooksLikePlayerID(t *testing.T) {
	assert.True(t, looksLikePlayerID("3fa85f64-5717-4562-b3fc-2c963f66afa6"))
	assert.False(t, looksLikePlayerID("donk666"))
	assert.False(t, looksLikePlayerID("name-with-dashes"))
}
