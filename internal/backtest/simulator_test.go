package backtest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/scoreline/internal/fixtures"
	"github.com/yourusername/scoreline/internal/models"
)

// MockModel mocks the model client
type MockModel struct {
	mock.Mock
}

func (m *MockModel) Query(ctx context.Context, subject, instructions string, temperature float64) (string, error) {
	args := m.Called(ctx, subject, instructions, temperature)
	return args.String(0), args.Error(1)
}

// MockSource mocks the historical candidate source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) CompletedMatches(ctx context.Context, sport, league string, teams []string, count int) ([]fixtures.MatchRow, error) {
	args := m.Called(ctx, sport, league, teams, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fixtures.MatchRow), args.Error(1)
}

func intPtr(v int) *int { return &v }

func completedRow(id, date, home, away string, homeScore, awayScore int) fixtures.MatchRow {
	return fixtures.MatchRow{
		ID:        id,
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: intPtr(homeScore),
		AwayScore: intPtr(awayScore),
		Status:    "completed",
	}
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func collect(t *testing.T, ch <-chan models.BacktestResultItem) []models.BacktestResultItem {
	t.Helper()
	var items []models.BacktestResultItem
	deadline := time.After(5 * time.Second)
	for {
		select {
		case item, open := <-ch:
			if !open {
				return items
			}
			items = append(items, item)
		case <-deadline:
			t.Fatal("backtest run did not finish")
		}
	}
}

const goodResponse = `{"home_win": 0.6, "draw": 0.25, "away_win": 0.15, "rationale": "home form"}`

func TestRunEvaluatesCandidatesInFetchOrder(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, "football", "EPL", []string(nil), 2).Return([]fixtures.MatchRow{
		completedRow("m1", "2024-03-10", "Arsenal", "Chelsea", 2, 0),
		completedRow("m2", "2024-03-12", "Liverpool", "Everton", 0, 1),
	}, nil)

	model := new(MockModel)
	model.On("Query", mock.Anything, mock.Anything, mock.Anything, 0.3).Return(goodResponse, nil)

	sim := NewSimulator(model, source, 0.3, testLogger())
	ch, err := sim.Run(context.Background(), Request{Sport: "football", League: "EPL", Count: 2})
	require.NoError(t, err)

	items := collect(t, ch)
	require.Len(t, items, 2)
	assert.Equal(t, "Arsenal", items[0].Candidate.HomeTeam)
	assert.Equal(t, "Liverpool", items[1].Candidate.HomeTeam)

	assert.Equal(t, models.OutcomeHome, items[0].Predicted)
	assert.Equal(t, models.OutcomeHome, items[0].Actual)
	assert.True(t, items[0].Correct)

	assert.Equal(t, models.OutcomeAway, items[1].Actual)
	assert.False(t, items[1].Correct)
	assert.Equal(t, "home form", items[1].Rationale)

	source.AssertExpectations(t)
}

func TestRunSimulationDateIsDayBeforeMatch(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]fixtures.MatchRow{
		completedRow("m1", "2024-03-10", "Arsenal", "Chelsea", 2, 0),
	}, nil)

	var captured string
	model := new(MockModel)
	model.On("Query", mock.Anything, "Arsenal vs Chelsea", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.String(2) }).
		Return(goodResponse, nil)

	sim := NewSimulator(model, source, 0.3, testLogger())
	ch, err := sim.Run(context.Background(), Request{Count: 1})
	require.NoError(t, err)
	collect(t, ch)

	assert.Contains(t, captured, "Today is 2024-03-09")
	assert.NotContains(t, captured, "2024-03-10")
}

func TestRunDiscardsInvalidRows(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]fixtures.MatchRow{
		{ID: "bad-date", Date: "soonish", HomeTeam: "A", AwayTeam: "B", HomeScore: intPtr(1), AwayScore: intPtr(0)},
		{ID: "no-away", Date: "2024-03-10", HomeTeam: "A", HomeScore: intPtr(1), AwayScore: intPtr(0)},
		{ID: "no-score", Date: "2024-03-10", HomeTeam: "A", AwayTeam: "B", HomeScore: intPtr(1)},
		completedRow("ok", "2024-03-10", "Arsenal", "Chelsea", 1, 1),
	}, nil)

	model := new(MockModel)
	model.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(goodResponse, nil)

	sim := NewSimulator(model, source, 0.3, testLogger())
	ch, err := sim.Run(context.Background(), Request{Count: 4})
	require.NoError(t, err)

	items := collect(t, ch)
	require.Len(t, items, 1)
	assert.Equal(t, "Arsenal", items[0].Candidate.HomeTeam)
}

func TestRunFailedCandidateYieldsPlaceholderAndContinues(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]fixtures.MatchRow{
		completedRow("m1", "2024-03-10", "Arsenal", "Chelsea", 2, 0),
		completedRow("m2", "2024-03-12", "Liverpool", "Everton", 3, 1),
	}, nil)

	model := new(MockModel)
	model.On("Query", mock.Anything, "Arsenal vs Chelsea", mock.Anything, mock.Anything).
		Return("", errors.New("model down")).Once()
	model.On("Query", mock.Anything, "Liverpool vs Everton", mock.Anything, mock.Anything).
		Return(goodResponse, nil).Once()

	sim := NewSimulator(model, source, 0.3, testLogger())
	ch, err := sim.Run(context.Background(), Request{Count: 2})
	require.NoError(t, err)

	items := collect(t, ch)
	require.Len(t, items, 2)

	assert.Equal(t, models.Probabilities{}, items[0].Probabilities)
	assert.False(t, items[0].Correct)
	assert.Equal(t, models.OutcomeHome, items[0].Actual)
	assert.NotEmpty(t, items[0].Rationale)

	assert.True(t, items[1].Correct)
	model.AssertExpectations(t)
}

func TestRunUnparsableResponseYieldsPlaceholder(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]fixtures.MatchRow{
		completedRow("m1", "2024-03-10", "Arsenal", "Chelsea", 0, 0),
	}, nil)

	model := new(MockModel)
	model.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("I cannot say.", nil)

	sim := NewSimulator(model, source, 0.3, testLogger())
	ch, err := sim.Run(context.Background(), Request{Count: 1})
	require.NoError(t, err)

	items := collect(t, ch)
	require.Len(t, items, 1)
	assert.Equal(t, models.Probabilities{}, items[0].Probabilities)
	assert.False(t, items[0].Correct)
}

func TestRunClampsCountToMaximum(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything, MaxCandidates).
		Return([]fixtures.MatchRow{}, nil)

	sim := NewSimulator(new(MockModel), source, 0.3, testLogger())

	ch, err := sim.Run(context.Background(), Request{Count: 25})
	require.NoError(t, err)
	assert.Empty(t, collect(t, ch))

	// Zero and negative counts also fall back to the ceiling.
	ch, err = sim.Run(context.Background(), Request{Count: 0})
	require.NoError(t, err)
	collect(t, ch)

	source.AssertNumberOfCalls(t, "CompletedMatches", 2)
	source.AssertExpectations(t)
}

func TestRunSourceFailureAbortsRun(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: provider timeout", models.ErrUpstreamUnavailable))

	sim := NewSimulator(new(MockModel), source, 0.3, testLogger())
	_, err := sim.Run(context.Background(), Request{Count: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestRunStopsBetweenCandidatesOnCancel(t *testing.T) {
	source := new(MockSource)
	source.On("CompletedMatches", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]fixtures.MatchRow{
		completedRow("m1", "2024-03-10", "Arsenal", "Chelsea", 2, 0),
		completedRow("m2", "2024-03-12", "Liverpool", "Everton", 3, 1),
		completedRow("m3", "2024-03-14", "Spurs", "Fulham", 1, 1),
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())

	model := new(MockModel)
	model.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(goodResponse, nil)

	sim := NewSimulator(model, source, 0.3, testLogger())
	ch, err := sim.Run(ctx, Request{Count: 3})
	require.NoError(t, err)

	items := collect(t, ch)
	// The first candidate completes; cancellation is seen before the second.
	require.Len(t, items, 1)
	model.AssertNumberOfCalls(t, "Query", 1)
}
