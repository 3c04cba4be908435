package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/scoreline/internal/models"
)

// Forecast repairs a parsed DetailedForecast so its fields cannot contradict
// each other. It is pure, total, and idempotent: Forecast(Forecast(f))
// equals Forecast(f) for any input. Rules are independent of one another:
//
//   - an exact score of "0-0" forces the scorer list to empty
//   - unrecognized scorer methods default to Shot
//   - every percentage-bearing field becomes a canonical integer-percent
//     string, "0%" when unparsable or missing
//   - half-time and second-half winners default to Draw
//   - confidence defaults to Medium
func Forecast(f models.DetailedForecast) models.DetailedForecast {
	out := f

	if strings.TrimSpace(out.ExactScore) == "0-0" {
		out.Scorers = nil
	} else if len(out.Scorers) > 0 {
		scorers := make([]models.ScorerPrediction, len(out.Scorers))
		for i, s := range out.Scorers {
			if !s.Method.Valid() {
				s.Method = models.MethodShot
			}
			s.Likelihood = Percent(s.Likelihood)
			scorers[i] = s
		}
		out.Scorers = scorers
	}

	out.MethodBreakdown = models.MethodPercentages{
		Shots:     Percent(out.MethodBreakdown.Shots),
		Headers:   Percent(out.MethodBreakdown.Headers),
		Penalties: Percent(out.MethodBreakdown.Penalties),
		FreeKicks: Percent(out.MethodBreakdown.FreeKicks),
		OwnGoals:  Percent(out.MethodBreakdown.OwnGoals),
	}
	out.RedCardOdds = Percent(out.RedCardOdds)

	if !out.HalfTimeWinner.Valid() {
		out.HalfTimeWinner = models.OutcomeDraw
	}
	if !out.SecondHalfWinner.Valid() {
		out.SecondHalfWinner = models.OutcomeDraw
	}
	if !out.Confidence.Valid() {
		out.Confidence = models.ConfidenceMedium
	}

	return out
}

// Percent canonicalizes a percentage-bearing string to the form "<int>%".
// Unparsable or missing values become "0%".
func Percent(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return "0%"
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0%"
	}
	return d.Round(0).String() + "%"
}
