/* bracket.go
 * Contains the static 32-team bracket topology (match ids 73-104) and the propagation
 * engine that resolves slots in ascending id order, simulates undecided matches and
 * advances winners (and semifinal losers) to their downstream slots. ProjectBracket
 * is the simulation-free variant that only propagates what entered results decide.
 */

package sim

import (
	"fmt"

	"worldcup-pickems/api/shared"
)

// slotRule describes how one side of a knockout match is filled. Exactly one of the
// three rule kinds applies: a fixed group rank, a reference to an earlier match's
// winner or loser, or a qualified third-placed team chosen by the assigner.
type slotRule struct {
	group     string // fixed rank rule: group name
	rank      int    // fixed rank rule: 1 or 2
	fromMatch int    // match reference rule: source match id
	takeLoser bool   // match reference rule: take the loser instead of the winner
	third     bool   // variable rule: best third, opponent of the group winner above
}

type matchRule struct {
	id    int
	stage shared.Stage
	home  slotRule
	away  slotRule
}

// bracketTopology is the immutable bracket graph, in ascending id order. A match's
// inputs always come from strictly lower-numbered matches, so one forward pass
// resolves everything resolvable. The 8 variable matches pair the winners of groups
// A-H against qualified thirds; the remaining winners and all runners-up fill the
// fixed pairings.
var bracketTopology = []matchRule{
	{73, shared.StageR32, slotRule{group: "A", rank: 1}, slotRule{third: true}},
	{74, shared.StageR32, slotRule{group: "I", rank: 2}, slotRule{group: "J", rank: 2}},
	{75, shared.StageR32, slotRule{group: "B", rank: 1}, slotRule{third: true}},
	{76, shared.StageR32, slotRule{group: "K", rank: 2}, slotRule{group: "L", rank: 2}},
	{77, shared.StageR32, slotRule{group: "C", rank: 1}, slotRule{third: true}},
	{78, shared.StageR32, slotRule{group: "I", rank: 1}, slotRule{group: "A", rank: 2}},
	{79, shared.StageR32, slotRule{group: "D", rank: 1}, slotRule{third: true}},
	{80, shared.StageR32, slotRule{group: "J", rank: 1}, slotRule{group: "B", rank: 2}},
	{81, shared.StageR32, slotRule{group: "E", rank: 1}, slotRule{third: true}},
	{82, shared.StageR32, slotRule{group: "C", rank: 2}, slotRule{group: "D", rank: 2}},
	{83, shared.StageR32, slotRule{group: "F", rank: 1}, slotRule{third: true}},
	{84, shared.StageR32, slotRule{group: "E", rank: 2}, slotRule{group: "F", rank: 2}},
	{85, shared.StageR32, slotRule{group: "G", rank: 1}, slotRule{third: true}},
	{86, shared.StageR32, slotRule{group: "K", rank: 1}, slotRule{group: "G", rank: 2}},
	{87, shared.StageR32, slotRule{group: "H", rank: 1}, slotRule{third: true}},
	{88, shared.StageR32, slotRule{group: "L", rank: 1}, slotRule{group: "H", rank: 2}},

	{89, shared.StageR16, slotRule{fromMatch: 73}, slotRule{fromMatch: 74}},
	{90, shared.StageR16, slotRule{fromMatch: 75}, slotRule{fromMatch: 76}},
	{91, shared.StageR16, slotRule{fromMatch: 77}, slotRule{fromMatch: 78}},
	{92, shared.StageR16, slotRule{fromMatch: 79}, slotRule{fromMatch: 80}},
	{93, shared.StageR16, slotRule{fromMatch: 81}, slotRule{fromMatch: 82}},
	{94, shared.StageR16, slotRule{fromMatch: 83}, slotRule{fromMatch: 84}},
	{95, shared.StageR16, slotRule{fromMatch: 85}, slotRule{fromMatch: 86}},
	{96, shared.StageR16, slotRule{fromMatch: 87}, slotRule{fromMatch: 88}},

	{97, shared.StageQF, slotRule{fromMatch: 89}, slotRule{fromMatch: 90}},
	{98, shared.StageQF, slotRule{fromMatch: 91}, slotRule{fromMatch: 92}},
	{99, shared.StageQF, slotRule{fromMatch: 93}, slotRule{fromMatch: 94}},
	{100, shared.StageQF, slotRule{fromMatch: 95}, slotRule{fromMatch: 96}},

	{101, shared.StageSF, slotRule{fromMatch: 97}, slotRule{fromMatch: 98}},
	{102, shared.StageSF, slotRule{fromMatch: 99}, slotRule{fromMatch: 100}},

	{103, shared.StageThirdPlace, slotRule{fromMatch: 101, takeLoser: true}, slotRule{fromMatch: 102, takeLoser: true}},
	{104, shared.StageFinal, slotRule{fromMatch: 101}, slotRule{fromMatch: 102}},
}

// VariableSlotHomeGroups lists, in slot-number order, the groups whose winners face a
// qualified third-placed team. This order is the one the backtracking assigner walks.
func VariableSlotHomeGroups() []string {
	groups := make([]string, 0, 8)
	for _, r := range bracketTopology {
		if r.away.third {
			groups = append(groups, r.home.group)
		}
	}
	return groups
}

func describeRule(r slotRule) string {
	switch {
	case r.third:
		return "Best 3rd place"
	case r.group != "":
		if r.rank == 1 {
			return fmt.Sprintf("Winner Group %s", r.group)
		}
		return fmt.Sprintf("Runner-up Group %s", r.group)
	case r.takeLoser:
		return fmt.Sprintf("Loser match %d", r.fromMatch)
	default:
		return fmt.Sprintf("Winner match %d", r.fromMatch)
	}
}

// NewBracket builds the unresolved bracket: every slot holds its placeholder text.
func NewBracket() []*shared.KnockoutMatch {
	matches := make([]*shared.KnockoutMatch, 0, len(bracketTopology))
	for _, r := range bracketTopology {
		matches = append(matches, &shared.KnockoutMatch{
			Id:    r.id,
			Stage: r.stage,
			Home:  shared.Slot{Placeholder: describeRule(r.home)},
			Away:  shared.Slot{Placeholder: describeRule(r.away)},
		})
	}
	return matches
}

// groupInputs computes standings for the finished groups and, once every group is
// done, the third-place assignment.
func groupInputs(groups []*shared.Group) (map[string][]*shared.Team, *ThirdPlaceAssignment, error) {
	standingsByGroup := make(map[string][]*shared.Team, len(groups))
	allFinished := true
	for _, g := range groups {
		if !g.Finished() {
			allFinished = false
			continue
		}
		st, err := ComputeGroupStandings(g)
		if err != nil {
			return nil, nil, err
		}
		standingsByGroup[g.Name] = st.Teams
	}

	var thirds *ThirdPlaceAssignment
	if allFinished {
		var err error
		thirds, err = ResolveThirdPlaceBracket(groups)
		if err != nil {
			return nil, nil, err
		}
	}
	return standingsByGroup, thirds, nil
}

// ResolveBracket runs one full pass over the bracket. Group-derived slots are filled
// from finished groups (and the third-place assignment once all groups are done),
// ready matches are decided, and winners/losers are propagated forward. Matches that
// already carry externally entered scores for the same pairing are never re-simulated;
// their winner is derived from scores, then penalties, then a fresh penalty draw.
func (e *Engine) ResolveBracket(groups []*shared.Group, existing []*shared.KnockoutMatch) ([]*shared.KnockoutMatch, error) {
	standingsByGroup, thirds, err := groupInputs(groups)
	if err != nil {
		return nil, err
	}

	entered := make(map[int]*shared.KnockoutMatch, len(existing))
	for _, m := range existing {
		entered[m.Id] = m
	}

	matches := NewBracket()
	byId := make(map[int]*shared.KnockoutMatch, len(matches))
	for _, m := range matches {
		byId[m.Id] = m
	}

	// Forward pass in ascending id order: inputs always come from lower-numbered
	// matches, so each match's slots are final by the time it is visited.
	for i, rule := range bracketTopology {
		m := matches[i]
		fillSlot(&m.Home, rule.home, rule.home.group, standingsByGroup, thirds, byId)
		fillSlot(&m.Away, rule.away, rule.home.group, standingsByGroup, thirds, byId)
		if !m.Ready() {
			continue
		}
		if prev, ok := entered[m.Id]; ok && samePairing(m, prev) && prev.Played() {
			adoptEnteredResult(m, prev)
			e.deriveWinner(m)
			continue
		}
		e.simulateKnockout(m)
	}
	return matches, nil
}

// ProjectBracket resolves the bracket from the actual current state only: finished
// groups and externally entered results. Nothing is simulated. Slots whose inputs
// are not decided keep their placeholders, and a ready match without an entered
// decisive result carries no winner, so nothing propagates past it.
func ProjectBracket(groups []*shared.Group, existing []*shared.KnockoutMatch) ([]*shared.KnockoutMatch, error) {
	standingsByGroup, thirds, err := groupInputs(groups)
	if err != nil {
		return nil, err
	}

	entered := make(map[int]*shared.KnockoutMatch, len(existing))
	for _, m := range existing {
		entered[m.Id] = m
	}

	matches := NewBracket()
	byId := make(map[int]*shared.KnockoutMatch, len(matches))
	for _, m := range matches {
		byId[m.Id] = m
	}

	for i, rule := range bracketTopology {
		m := matches[i]
		fillSlot(&m.Home, rule.home, rule.home.group, standingsByGroup, thirds, byId)
		fillSlot(&m.Away, rule.away, rule.home.group, standingsByGroup, thirds, byId)
		if !m.Ready() {
			continue
		}
		if prev, ok := entered[m.Id]; ok && samePairing(m, prev) && prev.Played() {
			adoptEnteredResult(m, prev)
			settleEnteredWinner(m)
		}
	}
	return matches, nil
}

// fillSlot resolves a single slot if its rule's inputs are available. homeGroup is
// the fixed side's group, used to pick the assigned third for variable slots.
func fillSlot(s *shared.Slot, rule slotRule, homeGroup string, standings map[string][]*shared.Team, thirds *ThirdPlaceAssignment, byId map[int]*shared.KnockoutMatch) {
	if s.Resolved() {
		return
	}
	switch {
	case rule.third:
		if thirds != nil {
			s.Team = thirds.BySlot[homeGroup]
		}
	case rule.group != "":
		if st, ok := standings[rule.group]; ok {
			s.Team = st[rule.rank-1]
		}
	default:
		src := byId[rule.fromMatch]
		if src == nil || src.Winner == nil {
			return
		}
		if rule.takeLoser {
			s.Team = src.Loser()
		} else {
			s.Team = src.Winner
		}
	}
}

// samePairing reports whether an externally entered match still refers to the same
// two teams the freshly resolved bracket produced. A stale entry (participants
// changed upstream) is discarded and the match re-simulated.
func samePairing(resolved, entered *shared.KnockoutMatch) bool {
	if !entered.Ready() {
		return false
	}
	return resolved.Home.Team.Id == entered.Home.Team.Id &&
		resolved.Away.Team.Id == entered.Away.Team.Id
}

func adoptEnteredResult(m, prev *shared.KnockoutMatch) {
	m.HomeScore = shared.IntPtr(*prev.HomeScore)
	m.AwayScore = shared.IntPtr(*prev.AwayScore)
	if prev.HomePens != nil && prev.AwayPens != nil {
		m.HomePens = shared.IntPtr(*prev.HomePens)
		m.AwayPens = shared.IntPtr(*prev.AwayPens)
	}
}

// settleEnteredWinner sets the winner of a played match when the entered data already
// decides it: regulation scores first, then penalties. A tie with no (or level)
// penalties leaves the winner unset.
func settleEnteredWinner(m *shared.KnockoutMatch) {
	hs, as := *m.HomeScore, *m.AwayScore
	switch {
	case hs > as:
		m.Winner = m.Home.Team
	case hs < as:
		m.Winner = m.Away.Team
	case m.HomePens != nil && m.AwayPens != nil && *m.HomePens > *m.AwayPens:
		m.Winner = m.Home.Team
	case m.HomePens != nil && m.AwayPens != nil && *m.HomePens < *m.AwayPens:
		m.Winner = m.Away.Team
	}
}

// deriveWinner sets the winner of a played match without re-simulating it: regulation
// scores first, then penalties, then a fresh we-weighted penalty draw when genuinely
// undetermined.
func (e *Engine) deriveWinner(m *shared.KnockoutMatch) {
	settleEnteredWinner(m)
	if m.Winner != nil {
		return
	}
	we := WinExpectancy(m.Home.Team.Strength(), m.Away.Team.Strength())
	hp, ap, homeWins := e.Shootout(we)
	m.HomePens = shared.IntPtr(hp)
	m.AwayPens = shared.IntPtr(ap)
	if homeWins {
		m.Winner = m.Home.Team
	} else {
		m.Winner = m.Away.Team
	}
}

// simulateKnockout draws a regulation scoreline and, when level, a penalty shootout.
func (e *Engine) simulateKnockout(m *shared.KnockoutMatch) {
	home, away := m.Home.Team, m.Away.Team
	p := PredictMatch(home.Strength(), away.Strength(), home.Host, away.Host, true)
	hs, as := e.SimulateScore(p.LambdaHome, p.LambdaAway)
	m.HomeScore = shared.IntPtr(hs)
	m.AwayScore = shared.IntPtr(as)
	if hs > as {
		m.Winner = home
		return
	}
	if hs < as {
		m.Winner = away
		return
	}
	hp, ap, homeWins := e.Shootout(p.We)
	m.HomePens = shared.IntPtr(hp)
	m.AwayPens = shared.IntPtr(ap)
	if homeWins {
		m.Winner = home
	} else {
		m.Winner = away
	}
}
