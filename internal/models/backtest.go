package models

import "time"

// BacktestCandidate is a completed historical match eligible for a backtest
// run. Candidates missing a date, a team name, or a numeric score pair are
// discarded before evaluation.
type BacktestCandidate struct {
	Date      time.Time `json:"date"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
}

// BacktestResultItem is the outcome of evaluating one candidate. Ephemeral:
// it lives for the duration of a single run and is never persisted.
type BacktestResultItem struct {
	Candidate     BacktestCandidate `json:"candidate"`
	Probabilities Probabilities     `json:"probabilities"`
	Predicted     Outcome           `json:"predicted"`
	Actual        Outcome           `json:"actual"`
	Correct       bool              `json:"correct"`
	Rationale     string            `json:"rationale"`
}
