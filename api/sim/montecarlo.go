/* montecarlo.go
 * Contains one-shot tournament completion and the Monte Carlo drivers: per-team
 * stage-reach statistics over N independent iterations, and the secondary estimator
 * for third-place qualification probability.
 */

package sim

import (
	"fmt"
	"sort"

	"worldcup-pickems/api/shared"
)

// TournamentOutcome is one complete simulated tournament: fully resolved groups and
// a fully decided bracket.
type TournamentOutcome struct {
	Groups   []*shared.Group
	Knockout []*shared.KnockoutMatch
}

// Champion returns the recorded winner of the final.
func (o *TournamentOutcome) Champion() *shared.Team {
	for _, m := range o.Knockout {
		if m.Stage == shared.StageFinal {
			return m.Winner
		}
	}
	return nil
}

// StageStats tallies, for one team, how many iterations reached each stage.
// Counts convert to probabilities by dividing by the iteration count.
type StageStats struct {
	TeamId     string
	Name       string
	Group      string
	R32        int
	R16        int
	QF         int
	SF         int
	ThirdPlace int
	Final      int
	Champion   int
}

// SimulateGroupStage completes every unfinished group match on a deep copy of the
// roster and returns the recomputed groups. Finished matches are held fixed.
func (e *Engine) SimulateGroupStage(groups []*shared.Group) ([]*shared.Group, error) {
	out := shared.CopyGroups(groups)
	for _, g := range out {
		if err := shared.ValidateGroup(g); err != nil {
			return nil, err
		}
		for i := range g.Matches {
			m := &g.Matches[i]
			if m.Finished {
				continue
			}
			home := g.TeamById(m.HomeId)
			away := g.TeamById(m.AwayId)
			p := PredictMatch(home.Strength(), away.Strength(), home.Host, away.Host, false)
			hs, as := e.SimulateScore(p.LambdaHome, p.LambdaAway)
			m.HomeScore = shared.IntPtr(hs)
			m.AwayScore = shared.IntPtr(as)
			m.Finished = true
		}
	}
	for i, g := range out {
		st, err := ComputeGroupStandings(g)
		if err != nil {
			return nil, err
		}
		out[i] = st
	}
	return out, nil
}

// SimulateTournament runs one full completion of the tournament from the current
// partial state: remaining group matches are simulated, the bracket is resolved and
// every undecided knockout match is decided. Already-entered results are honored.
func (e *Engine) SimulateTournament(groups []*shared.Group, existing []*shared.KnockoutMatch) (*TournamentOutcome, error) {
	simGroups, err := e.SimulateGroupStage(groups)
	if err != nil {
		return nil, err
	}
	knockout, err := e.ResolveBracket(simGroups, existing)
	if err != nil {
		return nil, err
	}
	return &TournamentOutcome{Groups: simGroups, Knockout: knockout}, nil
}

// RunMonteCarlo runs N independent full-tournament completions and tallies, per team,
// the number of iterations in which it appeared in each stage's matches and won the
// tournament. Each iteration starts from a fresh deep copy and fresh randomness;
// nothing is shared or memoized across iterations.
func (e *Engine) RunMonteCarlo(groups []*shared.Group, existing []*shared.KnockoutMatch, iterations int) ([]*StageStats, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be >= 1, got %d", iterations)
	}

	stats := make(map[string]*StageStats)
	for _, g := range groups {
		for _, t := range g.Teams {
			stats[t.Id] = &StageStats{TeamId: t.Id, Name: t.Name, Group: t.Group}
		}
	}

	for n := 0; n < iterations; n++ {
		outcome, err := e.SimulateTournament(groups, existing)
		if err != nil {
			return nil, err
		}
		for _, m := range outcome.Knockout {
			for _, team := range []*shared.Team{m.Home.Team, m.Away.Team} {
				s, ok := stats[team.Id]
				if !ok {
					continue
				}
				switch m.Stage {
				case shared.StageR32:
					s.R32++
				case shared.StageR16:
					s.R16++
				case shared.StageQF:
					s.QF++
				case shared.StageSF:
					s.SF++
				case shared.StageThirdPlace:
					s.ThirdPlace++
				case shared.StageFinal:
					s.Final++
				}
			}
		}
		if champion := outcome.Champion(); champion != nil {
			stats[champion.Id].Champion++
		}
	}

	out := make([]*StageStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Champion != out[j].Champion {
			return out[i].Champion > out[j].Champion
		}
		if out[i].Final != out[j].Final {
			return out[i].Final > out[j].Final
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// EstimateThirdPlaceQualification runs a group-stage-only Monte Carlo pass and
// returns, per team id, the fraction of iterations in which the team finished in a
// qualifying third-place slot. Uses its own (typically smaller) iteration count.
func (e *Engine) EstimateThirdPlaceQualification(groups []*shared.Group, iterations int) (map[string]float64, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be >= 1, got %d", iterations)
	}

	counts := make(map[string]int)
	for n := 0; n < iterations; n++ {
		simGroups, err := e.SimulateGroupStage(groups)
		if err != nil {
			return nil, err
		}
		qualifiers, err := BestThirdPlacedTeams(simGroups)
		if err != nil {
			return nil, err
		}
		for _, q := range qualifiers {
			counts[q.Id]++
		}
	}

	probs := make(map[string]float64)
	for _, g := range groups {
		for _, t := range g.Teams {
			probs[t.Id] = float64(counts[t.Id]) / float64(iterations)
		}
	}
	return probs, nil
}
