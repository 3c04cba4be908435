package accuracy

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/scoreline/internal/models"
)

func standardEntry(predicted models.Probabilities, result *models.MatchResult) models.HistoryEntry {
	return models.HistoryEntry{
		ID:       uuid.New(),
		Match:    models.Match{ID: "m", HomeTeam: "A", AwayTeam: "B"},
		Kind:     models.KindStandard,
		Standard: &models.StandardPrediction{MatchID: "m", Probabilities: predicted},
		Result:   result,
	}
}

func detailedEntry(exactScore string, result *models.MatchResult) models.HistoryEntry {
	return models.HistoryEntry{
		ID:       uuid.New(),
		Match:    models.Match{ID: "m", HomeTeam: "A", AwayTeam: "B"},
		Kind:     models.KindDetailed,
		Detailed: &models.DetailedForecast{MatchID: "m", ExactScore: exactScore},
		Result:   result,
	}
}

func finished(home, away int) *models.MatchResult {
	return &models.MatchResult{HomeScore: home, AwayScore: away, Finished: true}
}

var (
	homeHeavy = models.Probabilities{Home: 0.6, Draw: 0.25, Away: 0.15}
	awayHeavy = models.Probabilities{Home: 0.15, Draw: 0.25, Away: 0.6}
)

func TestSnapshotEmpty(t *testing.T) {
	snap := Snapshot(nil)
	assert.Equal(t, 0, snap.Overall)
	assert.Equal(t, 0, snap.Total)
	assert.Empty(t, snap.Trend)
}

func TestSnapshotCountsOnlyFinishedEntries(t *testing.T) {
	entries := []models.HistoryEntry{
		standardEntry(homeHeavy, nil),
		standardEntry(homeHeavy, finished(2, 0)),
		standardEntry(homeHeavy, &models.MatchResult{HomeScore: 1, Finished: false}),
	}

	snap := Snapshot(entries)
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 100, snap.Overall)
}

func TestSnapshotOverallRounding(t *testing.T) {
	// Two correct out of three finished rounds to 67.
	entries := []models.HistoryEntry{
		standardEntry(homeHeavy, finished(3, 1)),
		standardEntry(homeHeavy, finished(0, 2)),
		standardEntry(awayHeavy, finished(0, 1)),
	}

	snap := Snapshot(entries)
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 67, snap.Overall)
}

func TestTrendOldestFirstCumulative(t *testing.T) {
	// Ledger order is newest-first; the trend replays oldest-first.
	entries := []models.HistoryEntry{
		standardEntry(homeHeavy, finished(0, 2)), // newest, incorrect
		standardEntry(homeHeavy, finished(2, 0)), // correct
		standardEntry(homeHeavy, finished(1, 0)), // oldest, correct
	}

	snap := Snapshot(entries)
	require.Len(t, snap.Trend, 3)

	assert.Equal(t, models.TrendPoint{Label: "1", Percent: 100}, snap.Trend[0])
	assert.Equal(t, models.TrendPoint{Label: "2", Percent: 100}, snap.Trend[1])
	assert.Equal(t, models.TrendPoint{Label: "3", Percent: 67}, snap.Trend[2])
}

func TestTrendUnfinishedHoldsPosition(t *testing.T) {
	entries := []models.HistoryEntry{
		standardEntry(homeHeavy, finished(2, 0)), // newest, correct
		standardEntry(homeHeavy, nil),            // pending
		standardEntry(homeHeavy, finished(0, 1)), // oldest, incorrect
	}

	snap := Snapshot(entries)
	require.Len(t, snap.Trend, 3)

	assert.Equal(t, 0, snap.Trend[0].Percent)
	// Pending entry emits a point but the counters stand still.
	assert.Equal(t, 0, snap.Trend[1].Percent)
	assert.Equal(t, 50, snap.Trend[2].Percent)
}

func TestTrendWindowCapsAtTenEntries(t *testing.T) {
	var entries []models.HistoryEntry
	for i := 0; i < 15; i++ {
		entries = append(entries, standardEntry(homeHeavy, finished(2, 0)))
	}

	snap := Snapshot(entries)
	require.Len(t, snap.Trend, 10)
	assert.Equal(t, 15, snap.Total)
	for i, point := range snap.Trend {
		assert.Equal(t, fmt.Sprintf("%d", i+1), point.Label)
		assert.Equal(t, 100, point.Percent)
	}
}

func TestDetailedScoredByExactScoreOrdering(t *testing.T) {
	cases := []struct {
		name    string
		exact   string
		result  *models.MatchResult
		correct bool
	}{
		{"matching winner", "2-1", finished(3, 0), true},
		{"matching draw", "1-1", finished(0, 0), true},
		{"wrong side", "0-2", finished(2, 0), false},
		{"unparsable counts as incorrect", "lots-none", finished(2, 0), false},
		{"empty counts as incorrect", "", finished(1, 1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Snapshot([]models.HistoryEntry{detailedEntry(tc.exact, tc.result)})
			assert.Equal(t, 1, snap.Total)
			if tc.correct {
				assert.Equal(t, 100, snap.Overall)
			} else {
				assert.Equal(t, 0, snap.Overall)
			}
		})
	}
}

func TestParseScore(t *testing.T) {
	home, away, ok := parseScore(" 2 - 1 ")
	require.True(t, ok)
	assert.Equal(t, 2, home)
	assert.Equal(t, 1, away)

	_, _, ok = parseScore("21")
	assert.False(t, ok)
}
