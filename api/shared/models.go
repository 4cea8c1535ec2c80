/* models.go
 * This file contains the domain models that are shared between sub packages: teams, groups,
 * group-stage matches, knockout matches and bracket slots.
 */

package shared

import "fmt"

// User identifies a pickems participant.
type User struct {
	UserId   string
	Username string
}

// Team represents one of the 48 tournament teams. Rank and FifaPoints come from the
// rankings feed and may be absent (zero); Strength() resolves the value the predictor
// should use. The group-stage statistics are derived from the match list and are
// recomputed from scratch whenever matches change, never incrementally mutated.
type Team struct {
	Id    string `bson:"id"`
	Name  string `bson:"name"`
	Group string `bson:"group"`
	Host  bool   `bson:"host,omitempty"`

	Rank       int     `bson:"rank,omitempty"`
	FifaPoints float64 `bson:"fifa_points,omitempty"`

	Played       int `bson:"played"`
	Won          int `bson:"won"`
	Drawn        int `bson:"drawn"`
	Lost         int `bson:"lost"`
	GoalsFor     int `bson:"goals_for"`
	GoalsAgainst int `bson:"goals_against"`
	Points       int `bson:"points"`
}

// GoalDifference returns goals for minus goals against.
func (t *Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

// Strength resolves the cardinal strength value used by the match predictor.
// FIFA points take precedence; a missing value falls back to rank-derived
// pseudo-points clamped to [1000, 2000]. A team with neither rank nor points
// is treated as rank 50.
func (t *Team) Strength() float64 {
	if t.FifaPoints > 0 {
		return t.FifaPoints
	}
	rank := t.Rank
	if rank <= 0 {
		rank = 50
	}
	pts := 2000.0 - 10.0*float64(rank)
	if pts < 1000 {
		pts = 1000
	}
	if pts > 2000 {
		pts = 2000
	}
	return pts
}

// Match is a group-stage fixture. Nil scores mean the match has not been played;
// Finished must be true iff both scores are present.
type Match struct {
	Id        string `bson:"id"`
	HomeId    string `bson:"home_id"`
	AwayId    string `bson:"away_id"`
	HomeScore *int   `bson:"home_score,omitempty"`
	AwayScore *int   `bson:"away_score,omitempty"`
	Finished  bool   `bson:"finished"`
}

// Group is one of the 12 first-round groups: exactly 4 teams and the 6 matches of
// their complete round robin.
type Group struct {
	Name    string  `bson:"name"`
	Teams   []*Team `bson:"teams"`
	Matches []Match `bson:"matches"`
}

// Finished reports whether all 6 group matches have been played.
func (g *Group) Finished() bool {
	if len(g.Matches) != 6 {
		return false
	}
	for i := range g.Matches {
		if !g.Matches[i].Finished {
			return false
		}
	}
	return true
}

// TeamById returns the group member with the given id, or nil.
func (g *Group) TeamById(id string) *Team {
	for _, t := range g.Teams {
		if t.Id == id {
			return t
		}
	}
	return nil
}

// Stage tags a knockout match with its round.
type Stage string

const (
	StageR32        Stage = "R32"
	StageR16        Stage = "R16"
	StageQF         Stage = "QF"
	StageSF         Stage = "SF"
	StageThirdPlace Stage = "ThirdPlace"
	StageFinal      Stage = "Final"
)

// Slot is a bracket position that either holds a resolved team or a textual
// placeholder describing the unresolved rule ("Winner match 89", "2nd Group A", ...).
// Exactly one of the two is meaningful at a time.
type Slot struct {
	Team        *Team  `bson:"team,omitempty"`
	Placeholder string `bson:"placeholder,omitempty"`
}

// Resolved reports whether the slot holds a concrete team.
func (s *Slot) Resolved() bool {
	return s.Team != nil
}

// Describe returns the team name if resolved, otherwise the placeholder text.
func (s *Slot) Describe() string {
	if s.Team != nil {
		return s.Team.Name
	}
	return s.Placeholder
}

// KnockoutMatch is one of the 32 bracket matches (ids 73-104). Penalty scores are
// only set when regulation ended level. Winner is nil until the match is decided.
type KnockoutMatch struct {
	Id        int   `bson:"id"`
	Stage     Stage `bson:"stage"`
	Home      Slot  `bson:"home"`
	Away      Slot  `bson:"away"`
	HomeScore *int  `bson:"home_score,omitempty"`
	AwayScore *int  `bson:"away_score,omitempty"`
	HomePens  *int  `bson:"home_pens,omitempty"`
	AwayPens  *int  `bson:"away_pens,omitempty"`
	Winner    *Team `bson:"winner,omitempty"`
}

// Ready reports whether both slots hold concrete teams so the match can be simulated.
func (m *KnockoutMatch) Ready() bool {
	return m.Home.Resolved() && m.Away.Resolved()
}

// Played reports whether both regulation scores are present.
func (m *KnockoutMatch) Played() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Loser returns the non-winning side once a winner is set, or nil.
func (m *KnockoutMatch) Loser() *Team {
	if m.Winner == nil || !m.Ready() {
		return nil
	}
	if m.Winner.Id == m.Home.Team.Id {
		return m.Away.Team
	}
	return m.Home.Team
}

// IntPtr is a small helper for building optional scores.
func IntPtr(v int) *int {
	return &v
}

// CopyTeam returns a deep copy of a team.
func CopyTeam(t *Team) *Team {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// CopyMatch returns a deep copy of a group-stage match, including its score pointers.
func CopyMatch(m Match) Match {
	c := m
	if m.HomeScore != nil {
		c.HomeScore = IntPtr(*m.HomeScore)
	}
	if m.AwayScore != nil {
		c.AwayScore = IntPtr(*m.AwayScore)
	}
	return c
}

// CopyGroup returns a deep copy of a group. Monte Carlo iterations must each start
// from a fresh copy so no mutable state leaks between iterations.
func CopyGroup(g *Group) *Group {
	c := &Group{Name: g.Name}
	c.Teams = make([]*Team, len(g.Teams))
	for i, t := range g.Teams {
		c.Teams[i] = CopyTeam(t)
	}
	c.Matches = make([]Match, len(g.Matches))
	for i, m := range g.Matches {
		c.Matches[i] = CopyMatch(m)
	}
	return c
}

// CopyGroups deep-copies a full 12-group roster.
func CopyGroups(groups []*Group) []*Group {
	out := make([]*Group, len(groups))
	for i, g := range groups {
		out[i] = CopyGroup(g)
	}
	return out
}

// CopyKnockoutMatch deep-copies a knockout match including slots and score pointers.
func CopyKnockoutMatch(m *KnockoutMatch) *KnockoutMatch {
	c := *m
	c.Home = Slot{Team: CopyTeam(m.Home.Team), Placeholder: m.Home.Placeholder}
	c.Away = Slot{Team: CopyTeam(m.Away.Team), Placeholder: m.Away.Placeholder}
	if m.HomeScore != nil {
		c.HomeScore = IntPtr(*m.HomeScore)
	}
	if m.AwayScore != nil {
		c.AwayScore = IntPtr(*m.AwayScore)
	}
	if m.HomePens != nil {
		c.HomePens = IntPtr(*m.HomePens)
	}
	if m.AwayPens != nil {
		c.AwayPens = IntPtr(*m.AwayPens)
	}
	c.Winner = CopyTeam(m.Winner)
	return &c
}

// CopyKnockoutMatches deep-copies a bracket state slice.
func CopyKnockoutMatches(matches []*KnockoutMatch) []*KnockoutMatch {
	out := make([]*KnockoutMatch, len(matches))
	for i, m := range matches {
		out[i] = CopyKnockoutMatch(m)
	}
	return out
}

// ValidateGroup fails fast on malformed input: a group must hold exactly 4 teams,
// exactly 6 matches, and every match must reference group members.
func ValidateGroup(g *Group) error {
	if g == nil {
		return fmt.Errorf("group is nil")
	}
	if len(g.Teams) != 4 {
		return fmt.Errorf("group %s has %d teams, expected 4", g.Name, len(g.Teams))
	}
	if len(g.Matches) != 6 {
		return fmt.Errorf("group %s has %d matches, expected 6", g.Name, len(g.Matches))
	}
	for i := range g.Matches {
		m := &g.Matches[i]
		if g.TeamById(m.HomeId) == nil {
			return fmt.Errorf("group %s match %s references unknown team %s", g.Name, m.Id, m.HomeId)
		}
		if g.TeamById(m.AwayId) == nil {
			return fmt.Errorf("group %s match %s references unknown team %s", g.Name, m.Id, m.AwayId)
		}
		if m.Finished != (m.HomeScore != nil && m.AwayScore != nil) {
			return fmt.Errorf("group %s match %s finished flag inconsistent with scores", g.Name, m.Id)
		}
	}
	return nil
}
