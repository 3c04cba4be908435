package models

// ScoringMethod classifies how a predicted goal is scored.
type ScoringMethod string

const (
	MethodShot     ScoringMethod = "Shot"
	MethodHeader   ScoringMethod = "Header"
	MethodPenalty  ScoringMethod = "Penalty"
	MethodFreeKick ScoringMethod = "FreeKick"
	MethodOwnGoal  ScoringMethod = "OwnGoal"
)

// Valid reports whether m is one of the recognized scoring methods.
func (m ScoringMethod) Valid() bool {
	switch m {
	case MethodShot, MethodHeader, MethodPenalty, MethodFreeKick, MethodOwnGoal:
		return true
	}
	return false
}

// Confidence grades how strongly the model stands behind a detailed forecast.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Valid reports whether c is one of the recognized confidence grades.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// ScorerPrediction names a player expected to score, how, and with what
// likelihood. Likelihood is a canonical integer-percent string such as "35%".
type ScorerPrediction struct {
	Player     string        `json:"player"`
	Team       string        `json:"team"`
	Method     ScoringMethod `json:"method"`
	Likelihood string        `json:"likelihood"`
}

// MethodPercentages breaks the expected goals down by scoring method. Every
// field is a canonical integer-percent string.
type MethodPercentages struct {
	Shots     string `json:"shots"`
	Headers   string `json:"headers"`
	Penalties string `json:"penalties"`
	FreeKicks string `json:"free_kicks"`
	OwnGoals  string `json:"own_goals"`
}

// DetailedForecast is the long-form forecast for a match: exact score, goal
// timeline and scorer-level detail. Field consistency is repaired by the
// normalize package before a forecast is stored or returned.
type DetailedForecast struct {
	MatchID          string             `json:"match_id" validate:"required"`
	ExactScore       string             `json:"exact_score"`
	TotalGoals       string             `json:"total_goals"`
	FirstToScore     string             `json:"first_to_score"`
	HalfTimeWinner   Outcome            `json:"half_time_winner"`
	SecondHalfWinner Outcome            `json:"second_half_winner"`
	Scorers          []ScorerPrediction `json:"scorers"`
	MethodBreakdown  MethodPercentages  `json:"method_breakdown"`
	RedCardOdds      string             `json:"red_card_odds"`
	Confidence       Confidence         `json:"confidence"`
	Reasoning        string             `json:"reasoning"`
}
