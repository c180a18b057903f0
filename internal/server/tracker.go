package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"protracker/internal/api"
	"protracker/internal/constants"
	"protracker/internal/domain"
	"protracker/internal/service"
)

const serviceVersion = "0.1.1"

// TrackerServer is the outward collaborator surface: a query operation
// returning a resolved player plus enriched matches, and a health endpoint.
type TrackerServer struct {
	playerSvc *service.PlayerService
	matchSvc  *service.MatchService
	logger    zerolog.Logger
}

func NewTrackerServer(playerSvc *service.PlayerService, matchSvc *service.MatchService, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{playerSvc: playerSvc, matchSvc: matchSvc, logger: logger}
}

func (s *TrackerServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /service", s.ServiceStatus)
	mux.HandleFunc("GET /page-data", s.PageData)
}

type serviceStatusResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *TrackerServer) ServiceStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceStatusResponse{
		OK:      true,
		Service: "protracker",
		Version: serviceVersion,
	})
}

type pageDataResponse struct {
	Found   bool                   `json:"found"`
	Player  *domain.PlayerRef      `json:"player,omitempty"`
	Matches []domain.EnrichedMatch `json:"matches"`
	Limit   int                    `json:"limit"`
}

// PageData handles GET /page-data?nickname=&limit=. An unknown player is a
// normal found=false response, never an HTTP failure; only configuration and
// upstream errors produce error statuses.
func (s *TrackerServer) PageData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestTimeout)
	defer cancel()

	nickname := strings.TrimSpace(r.URL.Query().Get("nickname"))
	if nickname == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "nickname is required")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"))

	player, found, err := s.playerSvc.Resolve(ctx, nickname)
	if err != nil {
		s.writeUpstreamError(w, err, "player resolution failed")
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, pageDataResponse{
			Found:   false,
			Matches: []domain.EnrichedMatch{},
			Limit:   limit,
		})
		return
	}

	matches, err := s.matchSvc.RecentMatches(ctx, player.PlayerID, limit)
	if err != nil {
		s.writeUpstreamError(w, err, "match enrichment failed")
		return
	}

	writeJSON(w, http.StatusOK, pageDataResponse{
		Found:   true,
		Player:  player,
		Matches: matches,
		Limit:   limit,
	})
}

func (s *TrackerServer) writeUpstreamError(w http.ResponseWriter, err error, msg string) {
	s.logger.Error().Err(err).Msg(msg)
	if errors.Is(err, api.ErrMissingCredential) {
		writeError(w, http.StatusInternalServerError, "configuration_error", "upstream API credential is not configured")
		return
	}
	writeError(w, http.StatusBadGateway, "upstream_error", "upstream API request failed")
}

func parseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return constants.DefaultMatchLimit
	}
	if limit > constants.MaxMatchLimit {
		return constants.MaxMatchLimit
	}
	return limit
}
