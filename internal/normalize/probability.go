// Package normalize repairs model-supplied forecast data into valid,
// internally consistent values.
package normalize

import (
	"math"

	"github.com/yourusername/scoreline/internal/models"
)

// Neutral is the fixed fallback distribution used when the supplied weights
// carry no usable mass.
var Neutral = models.Probabilities{Home: 0.34, Draw: 0.32, Away: 0.34}

// Probabilities turns three raw win/draw/loss weights into a valid
// distribution. Each input is clamped into [0,1] first (NaN counts as 0);
// if the clamped sum is zero or less the neutral fallback is returned,
// otherwise each component is divided by the sum.
//
// Policy: callers always renormalize, even when the inputs already sum to
// roughly 1. One rule everywhere keeps the pipeline deterministic.
func Probabilities(home, draw, away float64) models.Probabilities {
	h := clamp01(home)
	d := clamp01(draw)
	a := clamp01(away)

	sum := h + d + a
	if sum <= 0 {
		return Neutral
	}

	return models.Probabilities{
		Home: h / sum,
		Draw: d / sum,
		Away: a / sum,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
