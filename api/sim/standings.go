/* standings.go
 * Contains the group standings engine: recomputing team statistics from the match
 * list and the 4-level tie-break ordering used everywhere standings are consulted.
 */

package sim

import (
	"fmt"
	"sort"

	"worldcup-pickems/api/shared"
)

// ComputeGroupStandings returns a deep copy of the group with every team's statistics
// recomputed from scratch by folding over the finished matches. Unfinished matches
// contribute nothing. The function is idempotent and never reads previous stats.
func ComputeGroupStandings(g *shared.Group) (*shared.Group, error) {
	if err := shared.ValidateGroup(g); err != nil {
		return nil, fmt.Errorf("cannot compute standings: %w", err)
	}

	out := shared.CopyGroup(g)
	for _, t := range out.Teams {
		t.Played, t.Won, t.Drawn, t.Lost = 0, 0, 0, 0
		t.GoalsFor, t.GoalsAgainst, t.Points = 0, 0, 0
	}

	for i := range out.Matches {
		m := &out.Matches[i]
		if !m.Finished {
			continue
		}
		home := out.TeamById(m.HomeId)
		away := out.TeamById(m.AwayId)
		hs, as := *m.HomeScore, *m.AwayScore

		home.Played++
		away.Played++
		home.GoalsFor += hs
		home.GoalsAgainst += as
		away.GoalsFor += as
		away.GoalsAgainst += hs

		switch {
		case hs > as:
			home.Won++
			home.Points += 3
			away.Lost++
		case hs < as:
			away.Won++
			away.Points += 3
			home.Lost++
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
		}
	}

	SortStandings(out.Teams)
	return out, nil
}

// LessTeams is the single tie-break rule applied anywhere standings are ordered:
// points desc, goal difference desc, goals for desc, wins desc.
func LessTeams(a, b *shared.Team) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference() != b.GoalDifference() {
		return a.GoalDifference() > b.GoalDifference()
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return a.Won > b.Won
}

// SortStandings orders teams in place by the tie-break rule.
func SortStandings(teams []*shared.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		return LessTeams(teams[i], teams[j])
	})
}
