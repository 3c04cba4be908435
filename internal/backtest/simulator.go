// Package backtest replays past matches against the model without letting
// it see the real outcomes.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/scoreline/internal/extract"
	"github.com/yourusername/scoreline/internal/fixtures"
	"github.com/yourusername/scoreline/internal/llm"
	"github.com/yourusername/scoreline/internal/models"
	"github.com/yourusername/scoreline/internal/normalize"
	"github.com/yourusername/scoreline/internal/outcome"
)

// MaxCandidates is the hard ceiling on matches per run, bounding external
// call volume.
const MaxCandidates = 5

// Request describes one backtest run.
type Request struct {
	Sport  string
	League string
	Teams  []string
	Count  int
}

// CandidateSource supplies raw historical rows for completed matches.
type CandidateSource interface {
	CompletedMatches(ctx context.Context, sport, league string, teams []string, count int) ([]fixtures.MatchRow, error)
}

// Simulator drives sequential, leakage-free historical evaluation runs.
// Candidates are processed strictly one at a time in fetch order, so
// progress is monotonic and external load is bounded. A per-candidate
// failure downgrades to a zero-confidence placeholder and never voids the
// rest of the run.
type Simulator struct {
	model       llm.Client
	source      CandidateSource
	temperature float64
	logger      *logrus.Logger
}

// NewSimulator wires a simulator with its collaborators.
func NewSimulator(model llm.Client, source CandidateSource, temperature float64, logger *logrus.Logger) *Simulator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Simulator{model: model, source: source, temperature: temperature, logger: logger}
}

// Run fetches candidates and evaluates them sequentially, emitting each
// result on the returned channel as soon as it is available so callers can
// observe partial progress. The channel is closed when the batch finishes or
// the context is cancelled; cancellation is checked between candidates so a
// user abort stops further external calls promptly.
func (s *Simulator) Run(ctx context.Context, req Request) (<-chan models.BacktestResultItem, error) {
	count := req.Count
	if count > MaxCandidates {
		count = MaxCandidates
	}
	if count <= 0 {
		count = MaxCandidates
	}

	rows, err := s.source.CompletedMatches(ctx, req.Sport, req.League, req.Teams, count)
	if err != nil {
		return nil, fmt.Errorf("fetching backtest candidates: %w", err)
	}

	candidates := filterCandidates(rows)
	s.logger.WithFields(logrus.Fields{
		"fetched":  len(rows),
		"eligible": len(candidates),
	}).Info("Starting backtest run")

	results := make(chan models.BacktestResultItem, len(candidates))
	go func() {
		defer close(results)
		for i, candidate := range candidates {
			select {
			case <-ctx.Done():
				s.logger.WithField("completed", i).Warn("Backtest cancelled")
				return
			default:
			}
			results <- s.evaluate(ctx, candidate)
		}
	}()

	return results, nil
}

// filterCandidates validates raw rows in fetch order, discarding any row
// missing a date, either team name, or a numeric score pair.
func filterCandidates(rows []fixtures.MatchRow) []models.BacktestCandidate {
	candidates := make([]models.BacktestCandidate, 0, len(rows))
	for _, row := range rows {
		date, ok := parseDate(row.Date)
		if !ok || row.HomeTeam == "" || row.AwayTeam == "" || row.HomeScore == nil || row.AwayScore == nil {
			continue
		}
		candidates = append(candidates, models.BacktestCandidate{
			Date:      date,
			HomeTeam:  row.HomeTeam,
			AwayTeam:  row.AwayTeam,
			HomeScore: *row.HomeScore,
			AwayScore: *row.AwayScore,
		})
	}
	return candidates
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// probabilitiesWire is the response shape requested from the model during a
// backtest query.
type probabilitiesWire struct {
	HomeWin   any    `json:"home_win"`
	Draw      any    `json:"draw"`
	AwayWin   any    `json:"away_win"`
	Rationale string `json:"rationale"`
}

// evaluate runs the full pipeline for one candidate: query the model as of
// the simulation date, extract and normalize the probabilities, resolve both
// outcomes and record correctness. The simulation date is one calendar day
// before the real match date, so it is always strictly earlier.
func (s *Simulator) evaluate(ctx context.Context, candidate models.BacktestCandidate) models.BacktestResultItem {
	simDate := candidate.Date.AddDate(0, 0, -1)
	actual := outcome.Actual(candidate.HomeScore, candidate.AwayScore)

	subject := fmt.Sprintf("%s vs %s", candidate.HomeTeam, candidate.AwayTeam)
	instructions := fmt.Sprintf(
		"Today is %s. Forecast the named upcoming match using only information "+
			"available on that date. Do not consult or reveal the real outcome. "+
			`Respond with JSON only: {"home_win": 0.0, "draw": 0.0, "away_win": 0.0, "rationale": "..."}`,
		simDate.Format("2006-01-02"))

	text, err := s.model.Query(ctx, subject, instructions, s.temperature)
	if err != nil {
		CandidatesTotal.WithLabelValues("failed").Inc()
		s.logger.WithError(err).WithField("match", subject).Warn("Backtest candidate query failed")
		return placeholder(candidate, actual, "model unavailable for this match")
	}

	var wire probabilitiesWire
	if err := extract.Decode(text, &wire); err != nil {
		CandidatesTotal.WithLabelValues("failed").Inc()
		s.logger.WithError(err).WithField("match", subject).Warn("Backtest candidate response unparsable")
		return placeholder(candidate, actual, "model response could not be parsed")
	}

	probs := normalize.Probabilities(number(wire.HomeWin), number(wire.Draw), number(wire.AwayWin))
	predicted := outcome.Predicted(probs)

	CandidatesTotal.WithLabelValues("evaluated").Inc()
	return models.BacktestResultItem{
		Candidate:     candidate,
		Probabilities: probs,
		Predicted:     predicted,
		Actual:        actual,
		Correct:       predicted == actual,
		Rationale:     wire.Rationale,
	}
}

// placeholder is the zero-confidence result emitted when a candidate cannot
// be evaluated.
func placeholder(candidate models.BacktestCandidate, actual models.Outcome, reason string) models.BacktestResultItem {
	return models.BacktestResultItem{
		Candidate:     candidate,
		Probabilities: models.Probabilities{},
		Actual:        actual,
		Correct:       false,
		Rationale:     reason,
	}
}

func number(v any) float64 {
	f, ok := extract.Number(v)
	if !ok {
		return 0
	}
	return f
}
