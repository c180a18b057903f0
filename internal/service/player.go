package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"protracker/internal/api"
	"protracker/internal/constants"
	"protracker/internal/domain"
)

type PlayerService struct {
	faceit *api.FaceitClient
	logger zerolog.Logger
}

func NewPlayerService(faceit *api.FaceitClient, logger zerolog.Logger) *PlayerService {
	return &PlayerService{faceit: faceit, logger: logger}
}

// Resolve turns a nickname or player id into a PlayerRef. An upstream
// "no such player" is a normal outcome reported as found=false; errors are
// real failures (credential, network, unexpected upstream).
func (s *PlayerService) Resolve(ctx context.Context, nicknameOrID string) (*domain.PlayerRef, bool, error) {
	input := strings.TrimSpace(nicknameOrID)
	if input == "" {
		return nil, false, nil
	}

	s.logger.Debug().Str("input", input).Msg("resolving player")

	if looksLikePlayerID(input) {
		player, err := s.faceit.GetPlayerByID(ctx, input)
		if err == nil {
			return s.toRef(player.PlayerID, player.Nickname, player.Country, player.Avatar), true, nil
		}
		if !errors.Is(err, api.ErrNotFound) {
			return nil, false, err
		}
		// id-shaped but unknown; the string may still be a nickname
	}

	player, err := s.faceit.GetPlayerByNickname(ctx, input)
	if err == nil {
		return s.toRef(player.PlayerID, player.Nickname, player.Country, player.Avatar), true, nil
	}
	if !errors.Is(err, api.ErrNotFound) {
		return nil, false, err
	}

	s.logger.Debug().Str("input", input).Msg("exact nickname lookup missed, trying search")

	result, err := s.faceit.SearchPlayers(ctx, input, constants.SearchFallbackLimit)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(result.Items) == 0 {
		s.logger.Info().Str("input", input).Msg("player not found")
		return nil, false, nil
	}

	first := result.Items[0]
	s.logger.Info().Str("input", input).Str("player_id", first.PlayerID).Str("nickname", first.Nickname).Msg("resolved via search fallback")
	return s.toRef(first.PlayerID, first.Nickname, first.Country, first.Avatar), true, nil
}

func (s *PlayerService) toRef(playerID, nickname, country, avatar string) *domain.PlayerRef {
	return &domain.PlayerRef{
		PlayerID:   playerID,
		Nickname:   nickname,
		Country:    country,
		Timezone:   domain.TimezoneForCountry(country),
		Avatar:     avatar,
		ProfileURL: domain.ProfileURL(nickname),
	}
}

// looksLikePlayerID reports whether the input has the upstream's UUID id
// layout (hyphens at the fixed positions).
func looksLikePlayerID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for _, i := range []int{8, 13, 18, 23} {
		if s[i] != '-' {
			return false
		}
	}
	return true
}
