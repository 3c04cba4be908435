// Package outcome maps probability distributions and final scores onto the
// three-way match result.
package outcome

import "github.com/yourusername/scoreline/internal/models"

// Predicted picks the argmax of the distribution with a fixed tie-break:
// Draw is the seeded best, Home replaces it only on a strictly greater
// value, then Away replaces whichever is current best only on a strictly
// greater value. Draw therefore wins any tie it is part of, and Home wins a
// Home/Away tie.
func Predicted(p models.Probabilities) models.Outcome {
	best := models.OutcomeDraw
	bestValue := p.Draw

	if p.Home > bestValue {
		best = models.OutcomeHome
		bestValue = p.Home
	}
	if p.Away > bestValue {
		best = models.OutcomeAway
	}

	return best
}

// Actual resolves a final score to the winning side.
func Actual(homeScore, awayScore int) models.Outcome {
	switch {
	case homeScore > awayScore:
		return models.OutcomeHome
	case awayScore > homeScore:
		return models.OutcomeAway
	default:
		return models.OutcomeDraw
	}
}
