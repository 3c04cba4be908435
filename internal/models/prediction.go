package models

import "time"

// Probabilities is a win/draw/loss distribution over match outcomes. After
// normalization the three components always sum to 1.0 within floating
// tolerance.
type Probabilities struct {
	Home float64 `json:"home" validate:"gte=0,lte=1"`
	Draw float64 `json:"draw" validate:"gte=0,lte=1"`
	Away float64 `json:"away" validate:"gte=0,lte=1"`
}

// Sum returns the total mass of the distribution.
func (p Probabilities) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

// StandardPrediction is the headline forecast for a match. Immutable once
// produced.
type StandardPrediction struct {
	MatchID       string        `json:"match_id" validate:"required"`
	Probabilities Probabilities `json:"probabilities"`
	Summary       string        `json:"summary"`
	Analysis      string        `json:"analysis"`
	KeyFactors    []string      `json:"key_factors"`
	Sources       []string      `json:"sources"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
