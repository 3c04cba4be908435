package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbabilitiesSumToOne(t *testing.T) {
	tests := []struct {
		name             string
		home, draw, away float64
	}{
		{"already normalized", 0.5, 0.3, 0.2},
		{"sums above one", 0.9, 0.8, 0.7},
		{"sums below one", 0.1, 0.05, 0.05},
		{"values above one clamped", 3.0, 0.5, 0.5},
		{"negative clamped to zero", -0.4, 0.6, 0.4},
		{"single component", 0.0, 0.0, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Probabilities(tt.home, tt.draw, tt.away)
			assert.InDelta(t, 1.0, p.Sum(), 1e-6)
			for _, v := range []float64{p.Home, p.Draw, p.Away} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		})
	}
}

func TestProbabilitiesZeroSumFallback(t *testing.T) {
	assert.Equal(t, Neutral, Probabilities(0, 0, 0))
	assert.Equal(t, Neutral, Probabilities(-1, -2, -3))
}

func TestProbabilitiesNaNBecomesZero(t *testing.T) {
	p := Probabilities(math.NaN(), 0.5, 0.5)
	assert.Equal(t, 0.0, p.Home)
	assert.InDelta(t, 0.5, p.Draw, 1e-9)
	assert.InDelta(t, 0.5, p.Away, 1e-9)
}

func TestProbabilitiesAllNaNFallback(t *testing.T) {
	assert.Equal(t, Neutral, Probabilities(math.NaN(), math.NaN(), math.NaN()))
}

func TestProbabilitiesAlwaysRenormalizes(t *testing.T) {
	// Within 10% of summing to 1, still renormalized: the policy has no
	// close-enough shortcut.
	p := Probabilities(0.5, 0.3, 0.25)
	assert.InDelta(t, 1.0, p.Sum(), 1e-9)
	assert.InDelta(t, 0.5/1.05, p.Home, 1e-9)
}
