// Package fixtures talks to the external football-results API used for
// historical candidates and final-score lookups.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/scoreline/internal/config"
	"github.com/yourusername/scoreline/internal/models"
	"github.com/yourusername/scoreline/internal/outcome"
)

// MatchRow is one raw historical row as the provider returns it. Fields are
// loosely typed on purpose; validation happens in the consumers.
type MatchRow struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore *int   `json:"home_score"`
	AwayScore *int   `json:"away_score"`
	Status    string `json:"status"`
}

// Client fetches completed matches and final results over HTTP with retries
// and client-side rate limiting.
type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewClient builds a fixtures client from config.
func NewClient(cfg *config.FixturesConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	rc.Logger = nil

	rps := cfg.RateLimitPerSecond
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// CompletedMatches returns up to count most recent completed matches in the
// given sport and league involving any of the named teams, most recent
// first.
func (c *Client) CompletedMatches(ctx context.Context, sport, league string, teams []string, count int) ([]MatchRow, error) {
	params := url.Values{}
	params.Set("sport", sport)
	params.Set("league", league)
	params.Set("teams", strings.Join(teams, ","))
	params.Set("count", strconv.Itoa(count))
	params.Set("status", "completed")

	var payload struct {
		Matches []MatchRow `json:"matches"`
	}
	if err := c.get(ctx, "/v1/matches", params, &payload); err != nil {
		return nil, err
	}
	return payload.Matches, nil
}

// Results maps each concluded match id to its final result. Ids that have
// not concluded are absent from the returned map.
func (c *Client) Results(ctx context.Context, matchIDs []string) (map[string]models.MatchResult, error) {
	if len(matchIDs) == 0 {
		return map[string]models.MatchResult{}, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(matchIDs, ","))

	var payload struct {
		Matches []MatchRow `json:"matches"`
	}
	if err := c.get(ctx, "/v1/results", params, &payload); err != nil {
		return nil, err
	}

	results := make(map[string]models.MatchResult, len(payload.Matches))
	for _, row := range payload.Matches {
		if row.Status != "completed" || row.HomeScore == nil || row.AwayScore == nil {
			continue
		}
		results[row.ID] = models.MatchResult{
			HomeScore: *row.HomeScore,
			AwayScore: *row.AwayScore,
			Winner:    outcome.Actual(*row.HomeScore, *row.AwayScore),
			Finished:  true,
		}
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("path", path).Error("Fixtures request failed")
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: fixtures API returned %d: %s", models.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}
