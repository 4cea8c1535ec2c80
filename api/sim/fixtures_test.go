/* fixtures_test.go
 * Shared test fixtures for the sim package: deterministic 12-group rosters with
 * round-robin fixtures, optionally fully played.
 */

package sim

import (
	"fmt"

	"worldcup-pickems/api/shared"
)

var groupNames = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

// roundRobinPairs are the 6 fixtures of a 4-team group, by team index.
var roundRobinPairs = [6][2]int{{0, 1}, {2, 3}, {0, 2}, {1, 3}, {0, 3}, {1, 2}}

// makeTestGroup builds one group of 4 teams with descending strength. When played is
// true every match is entered with the lower-indexed team winning 1-0, which makes
// standings fully deterministic: team 0 on 9 points, then 6, 3, 0.
func makeTestGroup(name string, groupIdx int, played bool) *shared.Group {
	g := &shared.Group{Name: name}
	for i := 0; i < 4; i++ {
		g.Teams = append(g.Teams, &shared.Team{
			Id:         fmt.Sprintf("%s%d", name, i+1),
			Name:       fmt.Sprintf("Team %s%d", name, i+1),
			Group:      name,
			FifaPoints: 1900 - float64(groupIdx*10) - float64(i*150),
		})
	}
	for i, pair := range roundRobinPairs {
		m := shared.Match{
			Id:     fmt.Sprintf("%s-%d", name, i+1),
			HomeId: g.Teams[pair[0]].Id,
			AwayId: g.Teams[pair[1]].Id,
		}
		if played {
			if pair[0] < pair[1] {
				m.HomeScore, m.AwayScore = shared.IntPtr(1), shared.IntPtr(0)
			} else {
				m.HomeScore, m.AwayScore = shared.IntPtr(0), shared.IntPtr(1)
			}
			m.Finished = true
		}
		g.Matches = append(g.Matches, m)
	}
	return g
}

// makeTestRoster builds the full 12-group roster.
func makeTestRoster(played bool) []*shared.Group {
	groups := make([]*shared.Group, 0, len(groupNames))
	for i, name := range groupNames {
		groups = append(groups, makeTestGroup(name, i, played))
	}
	return groups
}
