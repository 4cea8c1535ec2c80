/* scenarios.go
 * Contains the exhaustive scenario enumerator for "mathematically decided" analysis
 * of a single group. Every remaining match is enumerated over the three 1X2 outcomes,
 * so the cost is 3^N in the number of remaining matches. The cap below keeps the
 * utility out of trouble; for anything wider than one group use the sampling-based
 * estimator in montecarlo.go instead.
 */

package sim

import (
	"fmt"

	"worldcup-pickems/api/shared"
)

// MaxScenarioMatches caps the enumeration depth. 3^12 = 531441 scenarios.
const MaxScenarioMatches = 12

// Representative scorelines for the three enumerated outcomes. Goal counts matter
// only through the tie-break columns, so a minimal 1-0 / 1-1 / 0-1 spread keeps the
// enumeration exact on points and close on goal difference.
var scenarioScores = [3][2]int{{1, 0}, {1, 1}, {0, 1}}

// QualificationOutlook summarizes a team's possible group finishes across every
// enumerated completion of its group.
type QualificationOutlook struct {
	Scenarios    int  // total scenarios enumerated
	TopTwoAlways bool // team finishes 1st or 2nd in every scenario
	TopTwoNever  bool // team finishes 1st or 2nd in no scenario
	ThirdOrAbove int  // scenarios where the team finishes 3rd or better
}

// GroupQualificationOutlook enumerates all remaining-match outcomes of one group and
// reports whether the given team is locked into, or locked out of, the top two.
// Returns an error when the group shape is invalid, the team is not a member, or the
// number of remaining matches exceeds MaxScenarioMatches.
func GroupQualificationOutlook(g *shared.Group, teamId string) (*QualificationOutlook, error) {
	if err := shared.ValidateGroup(g); err != nil {
		return nil, err
	}
	if g.TeamById(teamId) == nil {
		return nil, fmt.Errorf("team %s is not in group %s", teamId, g.Name)
	}

	var remaining []int
	for i := range g.Matches {
		if !g.Matches[i].Finished {
			remaining = append(remaining, i)
		}
	}
	if len(remaining) > MaxScenarioMatches {
		return nil, fmt.Errorf("%d remaining matches exceeds enumeration cap of %d", len(remaining), MaxScenarioMatches)
	}

	work := shared.CopyGroup(g)
	outlook := &QualificationOutlook{TopTwoAlways: true, TopTwoNever: true}
	if err := enumerate(work, remaining, 0, teamId, outlook); err != nil {
		return nil, err
	}
	return outlook, nil
}

func enumerate(g *shared.Group, remaining []int, depth int, teamId string, outlook *QualificationOutlook) error {
	if depth == len(remaining) {
		standings, err := ComputeGroupStandings(g)
		if err != nil {
			return err
		}
		position := -1
		for i, t := range standings.Teams {
			if t.Id == teamId {
				position = i
				break
			}
		}
		outlook.Scenarios++
		if position <= 1 {
			outlook.TopTwoNever = false
		} else {
			outlook.TopTwoAlways = false
		}
		if position <= 2 {
			outlook.ThirdOrAbove++
		}
		return nil
	}

	m := &g.Matches[remaining[depth]]
	for _, score := range scenarioScores {
		m.HomeScore = shared.IntPtr(score[0])
		m.AwayScore = shared.IntPtr(score[1])
		m.Finished = true
		if err := enumerate(g, remaining, depth+1, teamId, outlook); err != nil {
			return err
		}
	}
	m.HomeScore = nil
	m.AwayScore = nil
	m.Finished = false
	return nil
}
