/* engine.go
 * Contains the Engine, which owns the pseudo-random source used by every simulation,
 * plus the sampling primitives: Poisson goal draws and penalty shootouts.
 * Seeded engines give reproducible Monte Carlo runs.
 */

package sim

import (
	"math"
	"math/rand"
)

// Per-kick shootout success probabilities. Fixed asymmetry, deliberately not
// derived from team strength.
const (
	penSuccessHome = 0.75
	penSuccessAway = 0.70
)

// Engine drives all randomized simulation. It is not safe for concurrent use;
// each Monte Carlo run is a sequential loop on one engine.
type Engine struct {
	rng *rand.Rand
}

// NewEngine returns an engine seeded for reproducible runs.
func NewEngine(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

// samplePoisson draws from Poisson(lambda) via inverse-transform sampling.
func (e *Engine) samplePoisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= e.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// SimulateScore draws one scoreline from the two Poisson rates. Draws are taken
// from the untruncated distributions and then clamped to MaxGoals for display
// consistency with the prediction matrix.
func (e *Engine) SimulateScore(lambdaHome, lambdaAway float64) (int, int) {
	home := e.samplePoisson(lambdaHome)
	away := e.samplePoisson(lambdaAway)
	if home > MaxGoals {
		home = MaxGoals
	}
	if away > MaxGoals {
		away = MaxGoals
	}
	return home, away
}

// Shootout simulates a penalty shootout and returns the penalty scores plus whether
// the home side won. homeWins is drawn first, weighted by we: the kick-by-kick
// simulation below is cosmetic and its scores are swapped if they disagree with
// that draw, so the authoritative decision is always the we-weighted one.
func (e *Engine) Shootout(we float64) (homePens, awayPens int, homeWins bool) {
	homeWins = e.rng.Float64() < we
	homePens, awayPens = e.rawShootout()
	if (homePens > awayPens) != homeWins {
		homePens, awayPens = awayPens, homePens
	}
	return homePens, awayPens, homeWins
}

// rawShootout plays alternating kicks, 5 per side, stopping early once the outcome
// is mathematically decided, then sudden death until the first imbalance after an
// equal number of kicks. Never returns a tie.
func (e *Engine) rawShootout() (int, int) {
	home, away := 0, 0
	for round := 1; round <= 5; round++ {
		if e.rng.Float64() < penSuccessHome {
			home++
		}
		// Early stop: remaining kicks cannot change the outcome.
		if home-away > 5-round+1 || away-home > 5-round {
			break
		}
		if e.rng.Float64() < penSuccessAway {
			away++
		}
		if home-away > 5-round || away-home > 5-round {
			break
		}
	}
	for home == away {
		if e.rng.Float64() < penSuccessHome {
			home++
		}
		if e.rng.Float64() < penSuccessAway {
			away++
		}
	}
	return home, away
}
