package models

import "time"

// Outcome is the result of a match from the home side's point of view.
type Outcome string

const (
	OutcomeHome Outcome = "Home"
	OutcomeDraw Outcome = "Draw"
	OutcomeAway Outcome = "Away"
)

// Valid reports whether o is one of the three recognized outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHome, OutcomeDraw, OutcomeAway:
		return true
	}
	return false
}

// Match identifies one fixture. The id is the upstream provider's identifier
// and is the key results are attached under.
type Match struct {
	ID       string    `json:"id" validate:"required"`
	HomeTeam string    `json:"home_team" validate:"required"`
	AwayTeam string    `json:"away_team" validate:"required"`
	League   string    `json:"league"`
	Sport    string    `json:"sport"`
	Kickoff  time.Time `json:"kickoff,omitempty"`
}

// MatchResult is the final score of a concluded match. Finished guards
// against provisional scores being scored for accuracy.
type MatchResult struct {
	HomeScore int     `json:"home_score"`
	AwayScore int     `json:"away_score"`
	Winner    Outcome `json:"winner"`
	Finished  bool    `json:"finished"`
}
