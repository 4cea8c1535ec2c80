/* predictor.go
 * Contains the Poisson-based match outcome model: Elo-style win expectancy, expected
 * goals, 1-X-2 probabilities, most probable scoreline and knockout advance probabilities.
 * All functions in this file are pure; sampling lives in engine.go.
 */

package sim

import "math"

const (
	// EloScale is the points-differential scale constant of the win expectancy curve.
	EloScale = 600.0
	// GoalsBase is the combined expected goals of a neutral-venue match.
	GoalsBase = 2.6
	// HostBonus is added to a tournament host's expected goals.
	HostBonus = 0.35
	// MaxGoals bounds the per-side score distribution. Scores are modelled 0..MaxGoals.
	MaxGoals = 6
)

// Prediction is the full model output for one pairing.
type Prediction struct {
	We          float64 // win expectancy of the home side
	LambdaHome  float64 // expected goals, home
	LambdaAway  float64 // expected goals, away
	ProbHome    float64 // regulation home win
	ProbDraw    float64 // regulation draw
	ProbAway    float64 // regulation away win
	BestHome    int     // most probable scoreline, home goals
	BestAway    int     // most probable scoreline, away goals
	AdvanceHome float64 // knockout only: probability home advances (incl. penalties)
	AdvanceAway float64 // knockout only: probability away advances
	HomeWins    bool    // expected winner is the home side
}

// WinExpectancy returns the Elo-style probability that the side with pointsA beats
// the side with pointsB, clamped to [0, 1].
func WinExpectancy(pointsA, pointsB float64) float64 {
	we := 1.0 / (math.Pow(10, -(pointsA-pointsB)/EloScale) + 1.0)
	if we < 0 {
		return 0
	}
	if we > 1 {
		return 1
	}
	return we
}

// PoissonPmf calculates P(X = k) for X ~ Poisson(lambda). Computed in log space
// for numerical stability. Non-positive lambdas collapse to a point mass at zero.
func PoissonPmf(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0
	}
	logProb := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logProb)
}

func logFactorial(n int) float64 {
	result := 0.0
	for i := 2; i <= n; i++ {
		result += math.Log(float64(i))
	}
	return result
}

// goalDistribution returns the truncated per-side distribution over 0..MaxGoals,
// renormalized so the 7 values sum to exactly 1.
func goalDistribution(lambda float64) [MaxGoals + 1]float64 {
	var dist [MaxGoals + 1]float64
	sum := 0.0
	for k := 0; k <= MaxGoals; k++ {
		dist[k] = PoissonPmf(lambda, k)
		sum += dist[k]
	}
	if sum > 0 {
		for k := 0; k <= MaxGoals; k++ {
			dist[k] /= sum
		}
	} else {
		dist[0] = 1.0
	}
	return dist
}

// PredictMatch converts two strength values into a full prediction record.
// Host flags add HostBonus to that side's lambda; knockout context additionally
// computes advance probabilities with drawn regulation results resolved by a
// we-weighted penalty shootout.
func PredictMatch(pointsHome, pointsAway float64, hostHome, hostAway, knockout bool) Prediction {
	we := WinExpectancy(pointsHome, pointsAway)

	lambdaHome := GoalsBase * we
	lambdaAway := GoalsBase * (1 - we)
	if hostHome {
		lambdaHome += HostBonus
	}
	if hostAway {
		lambdaAway += HostBonus
	}

	distHome := goalDistribution(lambdaHome)
	distAway := goalDistribution(lambdaAway)

	var probHome, probDraw, probAway float64
	bestHome, bestAway := 0, 0
	bestProb := -1.0
	for h := 0; h <= MaxGoals; h++ {
		for a := 0; a <= MaxGoals; a++ {
			joint := distHome[h] * distAway[a]
			switch {
			case h > a:
				probHome += joint
			case h == a:
				probDraw += joint
			default:
				probAway += joint
			}
			if joint > bestProb {
				bestProb = joint
				bestHome, bestAway = h, a
			}
		}
	}

	// Guard against floating-point drift in the three-way split.
	if total := probHome + probDraw + probAway; math.Abs(total-1.0) > 1e-12 && total > 0 {
		probHome /= total
		probDraw /= total
		probAway /= total
	}

	p := Prediction{
		We:         we,
		LambdaHome: lambdaHome,
		LambdaAway: lambdaAway,
		ProbHome:   probHome,
		ProbDraw:   probDraw,
		ProbAway:   probAway,
		BestHome:   bestHome,
		BestAway:   bestAway,
	}

	if knockout {
		p.AdvanceHome = probHome + probDraw*we
		p.AdvanceAway = probAway + probDraw*(1-we)
		p.HomeWins = p.AdvanceHome >= p.AdvanceAway
	} else {
		p.HomeWins = probHome >= probAway
	}
	return p
}
