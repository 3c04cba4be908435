// Package service orchestrates the forecast pipeline: model query,
// extraction, normalization, ledger bookkeeping and accuracy reporting.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/scoreline/internal/accuracy"
	"github.com/yourusername/scoreline/internal/extract"
	"github.com/yourusername/scoreline/internal/ledger"
	"github.com/yourusername/scoreline/internal/llm"
	"github.com/yourusername/scoreline/internal/metrics"
	"github.com/yourusername/scoreline/internal/models"
	"github.com/yourusername/scoreline/internal/normalize"
)

// ResultsSource maps pending match ids to resolved final results.
type ResultsSource interface {
	Results(ctx context.Context, matchIDs []string) (map[string]models.MatchResult, error)
}

// PredictionService is the engine's front door. It is an explicit instance
// with injected collaborators; there is no ambient global state.
type PredictionService struct {
	model       llm.Client
	ledger      *ledger.Ledger
	results     ResultsSource
	temperature float64
	logger      *logrus.Logger
}

// New wires a prediction service.
func New(model llm.Client, l *ledger.Ledger, results ResultsSource, temperature float64, logger *logrus.Logger) *PredictionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &PredictionService{
		model:       model,
		ledger:      l,
		results:     results,
		temperature: temperature,
		logger:      logger,
	}
}

// standardWire is the response shape requested for a standard prediction.
type standardWire struct {
	HomeWin    any      `json:"home_win"`
	Draw       any      `json:"draw"`
	AwayWin    any      `json:"away_win"`
	Summary    string   `json:"summary"`
	Analysis   string   `json:"analysis"`
	KeyFactors []string `json:"key_factors"`
	Sources    []string `json:"sources"`
}

// PredictStandard asks the model for a headline forecast, validates it, and
// appends it to the ledger. The ledger is written only after the whole
// request resolves, so an abandoned request never leaves a partial entry. A
// totally unparsable response surfaces models.ErrMalformedResponse so the
// caller can offer a retry.
func (s *PredictionService) PredictStandard(ctx context.Context, match models.Match) (models.StandardPrediction, error) {
	subject := fmt.Sprintf("%s vs %s (%s)", match.HomeTeam, match.AwayTeam, match.League)
	instructions := `Forecast the named football match. Respond with JSON only: ` +
		`{"home_win": 0.0, "draw": 0.0, "away_win": 0.0, "summary": "...", "analysis": "...", "key_factors": [], "sources": []}`

	text, err := s.model.Query(ctx, subject, instructions, s.temperature)
	if err != nil {
		return models.StandardPrediction{}, err
	}

	var wire standardWire
	if err := extract.Decode(text, &wire); err != nil {
		metrics.ExtractionFailuresTotal.Inc()
		s.logger.WithError(err).WithField("match_id", match.ID).Warn("Standard prediction response unparsable")
		return models.StandardPrediction{}, err
	}

	pred := models.StandardPrediction{
		MatchID:       match.ID,
		Probabilities: normalize.Probabilities(number(wire.HomeWin), number(wire.Draw), number(wire.AwayWin)),
		Summary:       wire.Summary,
		Analysis:      wire.Analysis,
		KeyFactors:    wire.KeyFactors,
		Sources:       wire.Sources,
		GeneratedAt:   time.Now().UTC(),
	}

	if err := ctx.Err(); err != nil {
		return models.StandardPrediction{}, err
	}
	s.ledger.AppendStandard(ctx, match, pred)
	metrics.PredictionsTotal.WithLabelValues("standard").Inc()

	s.logger.WithFields(logrus.Fields{
		"match_id": match.ID,
		"home":     pred.Probabilities.Home,
		"draw":     pred.Probabilities.Draw,
		"away":     pred.Probabilities.Away,
	}).Info("Standard prediction recorded")
	return pred, nil
}

// PredictDetailed asks the model for a long-form forecast, repairs field
// consistency, and appends it to the ledger under the same write-after-
// success rule as PredictStandard.
func (s *PredictionService) PredictDetailed(ctx context.Context, match models.Match) (models.DetailedForecast, error) {
	subject := fmt.Sprintf("%s vs %s (%s)", match.HomeTeam, match.AwayTeam, match.League)
	instructions := `Produce a detailed forecast for the named football match. Respond with JSON only: ` +
		`{"exact_score": "1-0", "total_goals": "...", "first_to_score": "...", ` +
		`"half_time_winner": "Home|Draw|Away", "second_half_winner": "Home|Draw|Away", ` +
		`"scorers": [{"player": "...", "team": "...", "method": "Shot|Header|Penalty|FreeKick|OwnGoal", "likelihood": "35%"}], ` +
		`"method_breakdown": {"shots": "60%", "headers": "20%", "penalties": "10%", "free_kicks": "8%", "own_goals": "2%"}, ` +
		`"red_card_odds": "15%", "confidence": "High|Medium|Low", "reasoning": "..."}`

	text, err := s.model.Query(ctx, subject, instructions, s.temperature)
	if err != nil {
		return models.DetailedForecast{}, err
	}

	var forecast models.DetailedForecast
	if err := extract.Decode(text, &forecast); err != nil {
		metrics.ExtractionFailuresTotal.Inc()
		s.logger.WithError(err).WithField("match_id", match.ID).Warn("Detailed forecast response unparsable")
		return models.DetailedForecast{}, err
	}
	forecast.MatchID = match.ID
	forecast = normalize.Forecast(forecast)

	if err := ctx.Err(); err != nil {
		return models.DetailedForecast{}, err
	}
	s.ledger.AppendDetailed(ctx, match, forecast)
	metrics.PredictionsTotal.WithLabelValues("detailed").Inc()

	s.logger.WithFields(logrus.Fields{
		"match_id":   match.ID,
		"score":      forecast.ExactScore,
		"confidence": forecast.Confidence,
	}).Info("Detailed forecast recorded")
	return forecast, nil
}

// History returns all ledger entries, most-recent-first.
func (s *PredictionService) History(ctx context.Context) []models.HistoryEntry {
	return s.ledger.List(ctx)
}

// Remove deletes ledger entries by id.
func (s *PredictionService) Remove(ctx context.Context, ids []uuid.UUID) {
	s.ledger.Remove(ctx, ids)
}

// Accuracy computes the current accuracy snapshot from the ledger.
func (s *PredictionService) Accuracy(ctx context.Context) models.AccuracySnapshot {
	return accuracy.Snapshot(s.ledger.List(ctx))
}

// RefreshResults looks up final results for entries still awaiting one and
// attaches whatever has concluded. Returns the number of matches updated.
func (s *PredictionService) RefreshResults(ctx context.Context) (int, error) {
	pending := s.ledger.PendingMatchIDs(ctx)
	if len(pending) == 0 {
		return 0, nil
	}

	resolved, err := s.results.Results(ctx, pending)
	if err != nil {
		return 0, fmt.Errorf("looking up match results: %w", err)
	}

	updated := 0
	for matchID, result := range resolved {
		if s.ledger.AttachResult(ctx, matchID, result) {
			updated++
			metrics.ResultsAttachedTotal.Inc()
		}
	}

	s.logger.WithFields(logrus.Fields{
		"pending": len(pending),
		"updated": updated,
	}).Info("Result refresh completed")
	return updated, nil
}

func number(v any) float64 {
	f, ok := extract.Number(v)
	if !ok {
		return 0
	}
	return f
}
