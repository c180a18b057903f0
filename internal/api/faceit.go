package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"protracker/internal/cache"
	"protracker/internal/config"
	"protracker/internal/constants"
)

// FaceitClient issues authenticated GETs against the FaceIt Data API v4.
// 429 and 5xx responses and network-level failures are retried with linear
// backoff; all other non-2xx statuses surface immediately. Successful bodies
// are cached by path+sorted params.
type FaceitClient struct {
	apiKey  string
	baseURL string
	client  *fasthttp.Client
	store   *cache.Cache
	logger  zerolog.Logger
}

func NewFaceitClient(cfg *config.Config, store *cache.Cache, logger zerolog.Logger) *FaceitClient {
	return &FaceitClient{
		apiKey:  cfg.FaceitAPIKey,
		baseURL: cfg.FaceitAPIURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		store:  store,
		logger: logger,
	}
}

func (c *FaceitClient) GetPlayerByNickname(ctx context.Context, nickname string) (*PlayerResponse, error) {
	params := map[string]string{"nickname": nickname}
	return getJSON[PlayerResponse](ctx, c, "/players", params, constants.PlayerCacheTTL)
}

func (c *FaceitClient) GetPlayerByID(ctx context.Context, playerID string) (*PlayerResponse, error) {
	return getJSON[PlayerResponse](ctx, c, "/players/"+url.PathEscape(playerID), nil, constants.PlayerCacheTTL)
}

func (c *FaceitClient) SearchPlayers(ctx context.Context, nickname string, limit int) (*SearchResponse, error) {
	params := map[string]string{
		"nickname": nickname,
		"limit":    strconv.Itoa(limit),
	}
	return getJSON[SearchResponse](ctx, c, "/search/players", params, constants.GeneralCacheTTL)
}

func (c *FaceitClient) GetPlayerHistory(ctx context.Context, playerID, game string, limit int) (*HistoryResponse, error) {
	params := map[string]string{
		"game":   game,
		"offset": "0",
		"limit":  strconv.Itoa(limit),
	}
	path := fmt.Sprintf("/players/%s/history", url.PathEscape(playerID))
	return getJSON[HistoryResponse](ctx, c, path, params, constants.GeneralCacheTTL)
}

func (c *FaceitClient) GetMatchStats(ctx context.Context, matchID string) (*MatchStatsResponse, error) {
	path := fmt.Sprintf("/matches/%s/stats", url.PathEscape(matchID))
	return getJSON[MatchStatsResponse](ctx, c, path, nil, constants.GeneralCacheTTL)
}

func (c *FaceitClient) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	return getJSON[MatchResponse](ctx, c, "/matches/"+url.PathEscape(matchID), nil, constants.GeneralCacheTTL)
}

func getJSON[T any](ctx context.Context, c *FaceitClient, path string, params map[string]string, ttl time.Duration) (*T, error) {
	body, err := c.get(ctx, path, params, ttl)
	if err != nil {
		return nil, err
	}
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &result, nil
}

// get performs the authenticated request with the retry budget. The cache
// key doubles as the request signature: url.Values encodes params in sorted
// key order.
func (c *FaceitClient) get(ctx context.Context, path string, params map[string]string, ttl time.Duration) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	if body, ok := c.store.Get(fullURL); ok {
		return body, nil
	}

	var lastErr error
	for attempt := 0; attempt <= constants.MaxRetries; attempt++ {
		body, retryable, err := c.doRequest(ctx, fullURL)
		if err == nil {
			c.store.Set(fullURL, body, ttl)
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		if attempt == constants.MaxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * constants.RetryBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())
		case <-timer.C:
		}
	}

	c.logger.Warn().Str("path", path).Err(lastErr).Msg("upstream retries exhausted")
	return nil, lastErr
}

func (c *FaceitClient) doRequest(ctx context.Context, fullURL string) (body []byte, retryable bool, err error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(constants.ExternalAPITimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		// fasthttp reuses response buffers after release
		return append([]byte(nil), resp.Body()...), false, nil
	case status == fasthttp.StatusNotFound:
		return nil, false, ErrNotFound
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return nil, false, ErrUnauthorized
	case status == fasthttp.StatusTooManyRequests:
		return nil, true, fmt.Errorf("%w: status=%d", ErrRateLimited, status)
	case status >= 500:
		return nil, true, &UpstreamError{StatusCode: status, Body: string(resp.Body())}
	default:
		return nil, false, &UpstreamError{StatusCode: status, Body: string(resp.Body())}
	}
}
