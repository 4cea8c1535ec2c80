/* roster.go
 * Contains roster construction: the default 48-team draw, round-robin fixture
 * generation, and application of rankings-feed strength values. The simulation core
 * receives already-resolved strengths; all lookups happen here.
 */

package logic

import (
	"fmt"
	"strings"

	"worldcup-pickems/api/external"
	"worldcup-pickems/api/shared"
)

// seedEntry is one team of the default draw: name, world rank and host flag.
type seedEntry struct {
	name string
	rank int
	host bool
}

// defaultDraw is the 12-group draw used when no roster has been stored yet.
// Ranks are seed values; the rankings feed overrides them when applied.
var defaultDraw = map[string][]seedEntry{
	"A": {{"Mexico", 17, true}, {"Switzerland", 20, false}, {"Ivory Coast", 41, false}, {"Jordan", 62, false}},
	"B": {{"Canada", 28, true}, {"Croatia", 11, false}, {"Egypt", 32, false}, {"Uzbekistan", 57, false}},
	"C": {{"Argentina", 1, false}, {"Denmark", 21, false}, {"Algeria", 37, false}, {"New Zealand", 89, false}},
	"D": {{"United States", 16, true}, {"Morocco", 12, false}, {"Norway", 33, false}, {"Qatar", 53, false}},
	"E": {{"France", 2, false}, {"Colombia", 14, false}, {"Serbia", 31, false}, {"Saudi Arabia", 59, false}},
	"F": {{"Spain", 3, false}, {"Uruguay", 15, false}, {"Greece", 48, false}, {"Tunisia", 49, false}},
	"G": {{"England", 4, false}, {"Japan", 18, false}, {"Poland", 36, false}, {"Venezuela", 46, false}},
	"H": {{"Brazil", 5, false}, {"Senegal", 19, false}, {"Wales", 29, false}, {"Ghana", 68, false}},
	"I": {{"Portugal", 6, false}, {"Iran", 18, false}, {"Sweden", 27, false}, {"South Africa", 61, false}},
	"J": {{"Netherlands", 7, false}, {"South Korea", 23, false}, {"Paraguay", 43, false}, {"Nigeria", 44, false}},
	"K": {{"Belgium", 8, false}, {"Austria", 22, false}, {"Ecuador", 24, false}, {"Australia", 26, false}},
	"L": {{"Germany", 9, false}, {"Italy", 10, false}, {"Ukraine", 25, false}, {"Turkey", 26, false}},
}

// GroupNames lists the group letters in bracket order.
var GroupNames = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

// roundRobinPairs are the three matchdays of a 4-team group, by team index.
var roundRobinPairs = [6][2]int{{0, 1}, {2, 3}, {0, 2}, {1, 3}, {0, 3}, {1, 2}}

// TeamId derives a stable id from a team name.
func TeamId(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// DefaultGroups builds the default roster: 12 groups with teams and unplayed
// round-robin fixtures.
func DefaultGroups() []*shared.Group {
	groups := make([]*shared.Group, 0, len(GroupNames))
	for _, name := range GroupNames {
		g := &shared.Group{Name: name}
		for _, seed := range defaultDraw[name] {
			g.Teams = append(g.Teams, &shared.Team{
				Id:    TeamId(seed.name),
				Name:  seed.name,
				Group: name,
				Rank:  seed.rank,
				Host:  seed.host,
			})
		}
		g.Matches = GroupFixtures(g)
		groups = append(groups, g)
	}
	return groups
}

// GroupFixtures generates the 6 round-robin fixtures of a group in matchday order.
func GroupFixtures(g *shared.Group) []shared.Match {
	matches := make([]shared.Match, 0, len(roundRobinPairs))
	for i, pair := range roundRobinPairs {
		matches = append(matches, shared.Match{
			Id:     fmt.Sprintf("%s-%d", g.Name, i+1),
			HomeId: g.Teams[pair[0]].Id,
			AwayId: g.Teams[pair[1]].Id,
		})
	}
	return matches
}

// ApplyRankings overwrites each team's rank and FIFA points from the rankings feed,
// matching on team name. Teams missing from the feed keep their seed rank; the core's
// pseudo-points fallback covers them. Returns the names that found no feed entry.
func ApplyRankings(groups []*shared.Group, rankings map[string]external.RankingEntry) []string {
	var unmatched []string
	for _, g := range groups {
		for _, t := range g.Teams {
			entry, ok := rankings[t.Name]
			if !ok {
				unmatched = append(unmatched, t.Name)
				continue
			}
			t.Rank = entry.Rank
			t.FifaPoints = entry.Points
		}
	}
	return unmatched
}

// ValidTeamNames returns the names of every team in the roster.
func ValidTeamNames(groups []*shared.Group) []string {
	var names []string
	for _, g := range groups {
		for _, t := range g.Teams {
			names = append(names, t.Name)
		}
	}
	return names
}

// ValidateRoster fails fast when the roster does not hold 12 well-formed groups with
// globally unique team ids.
func ValidateRoster(groups []*shared.Group) error {
	if len(groups) != 12 {
		return fmt.Errorf("roster has %d groups, expected 12", len(groups))
	}
	seen := make(map[string]string)
	for _, g := range groups {
		if err := shared.ValidateGroup(g); err != nil {
			return err
		}
		for _, t := range g.Teams {
			if prev, ok := seen[t.Id]; ok {
				return fmt.Errorf("team id %s appears in groups %s and %s", t.Id, prev, g.Name)
			}
			seen[t.Id] = g.Name
		}
	}
	return nil
}
