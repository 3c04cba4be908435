// Package accuracy computes overall and rolling accuracy from the
// prediction ledger.
package accuracy

import (
	"math"
	"strconv"
	"strings"

	"github.com/yourusername/scoreline/internal/models"
	"github.com/yourusername/scoreline/internal/outcome"
)

// trendWindow is the number of most recent entries the rolling trend covers.
const trendWindow = 10

// Snapshot aggregates the given entries (most-recent-first, as returned by
// the ledger) into an accuracy summary. Only entries with a finished result
// participate in the counts.
func Snapshot(entries []models.HistoryEntry) models.AccuracySnapshot {
	finished := 0
	correct := 0
	for _, entry := range entries {
		ok, counted := entryCorrect(entry)
		if !counted {
			continue
		}
		finished++
		if ok {
			correct++
		}
	}

	return models.AccuracySnapshot{
		Overall: percent(correct, finished),
		Total:   finished,
		Trend:   trend(entries),
	}
}

// trend walks the most recent trendWindow entries oldest-first and emits one
// cumulative point per position. An unfinished entry occupies a position but
// leaves the counters unchanged until it resolves.
func trend(entries []models.HistoryEntry) []models.TrendPoint {
	n := len(entries)
	if n > trendWindow {
		n = trendWindow
	}
	if n == 0 {
		return nil
	}

	points := make([]models.TrendPoint, 0, n)
	finished := 0
	correct := 0
	for i := n - 1; i >= 0; i-- {
		ok, counted := entryCorrect(entries[i])
		if counted {
			finished++
			if ok {
				correct++
			}
		}
		points = append(points, models.TrendPoint{
			Label:   strconv.Itoa(len(points) + 1),
			Percent: percent(correct, finished),
		})
	}
	return points
}

// entryCorrect reports whether the entry's prediction matched the actual
// outcome and whether it participates at all. The correctness rule depends
// on the prediction kind: standard predictions resolve their probability
// argmax, detailed forecasts compare the ordering of the predicted exact
// score.
func entryCorrect(entry models.HistoryEntry) (correct, counted bool) {
	if !entry.Finished() {
		return false, false
	}
	actual := outcome.Actual(entry.Result.HomeScore, entry.Result.AwayScore)

	switch entry.Kind {
	case models.KindStandard:
		if entry.Standard == nil {
			return false, true
		}
		return outcome.Predicted(entry.Standard.Probabilities) == actual, true
	case models.KindDetailed:
		if entry.Detailed == nil {
			return false, true
		}
		home, away, ok := parseScore(entry.Detailed.ExactScore)
		if !ok {
			return false, true
		}
		return outcome.Actual(home, away) == actual, true
	default:
		return false, false
	}
}

// parseScore pulls the two integers out of an "H-A" score string.
func parseScore(s string) (home, away int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	away, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return home, away, true
}

func percent(correct, finished int) int {
	if finished == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(finished)))
}
