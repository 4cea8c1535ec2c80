/* thirdplace.go
 * Contains the third-place qualifier: selecting the best 8 third-placed teams across
 * the 12 groups and assigning them to the bracket's variable slots by backtracking
 * search, with a first-fit fallback when the search is exhausted.
 */

package sim

import (
	"fmt"

	"worldcup-pickems/api/shared"
)

// ThirdPlaceAssignment is the solved mapping from a variable slot's home group (the
// group whose winner occupies the slot's fixed side) to the third-placed team that
// fills the opposing side.
type ThirdPlaceAssignment struct {
	Qualifiers []*shared.Team          // the 8 best thirds, in standings order
	BySlot     map[string]*shared.Team // variable-slot home group -> assigned third
	Fallback   bool                    // true when the constraint solver failed and first-fit was used
}

// ResolveThirdPlaceBracket selects the 8 best third-placed teams and assigns each to
// a variable bracket slot such that no team is drawn against its own group's winner.
// All 12 groups must be finished. The historical pairing matrix is intentionally not
// used; the general solver handles any qualifying combination.
func ResolveThirdPlaceBracket(groups []*shared.Group) (*ThirdPlaceAssignment, error) {
	qualifiers, err := BestThirdPlacedTeams(groups)
	if err != nil {
		return nil, err
	}

	slots := VariableSlotHomeGroups()
	assigned, ok := solveAssignment(slots, qualifiers)
	fallback := false
	if !ok {
		// Unsatisfiable searches are not fatal: accept a degenerate-but-complete
		// bracket over an unresolved one.
		assigned = firstFitAssignment(slots, qualifiers)
		fallback = true
	}

	bySlot := make(map[string]*shared.Team, len(slots))
	for i, group := range slots {
		bySlot[group] = qualifiers[assigned[i]]
	}
	return &ThirdPlaceAssignment{Qualifiers: qualifiers, BySlot: bySlot, Fallback: fallback}, nil
}

// BestThirdPlacedTeams returns the 8 best third-placed teams across all groups,
// ordered by the standings tie-break. Every group must be finished.
func BestThirdPlacedTeams(groups []*shared.Group) ([]*shared.Team, error) {
	if len(groups) != 12 {
		return nil, fmt.Errorf("expected 12 groups, got %d", len(groups))
	}
	thirds := make([]*shared.Team, 0, len(groups))
	for _, g := range groups {
		if !g.Finished() {
			return nil, fmt.Errorf("group %s is not finished", g.Name)
		}
		standings, err := ComputeGroupStandings(g)
		if err != nil {
			return nil, err
		}
		thirds = append(thirds, standings.Teams[2])
	}
	SortStandings(thirds)
	return thirds[:8], nil
}

// solveAssignment runs a backtracking search assigning one qualifier index per slot.
// The constraint: a third-placed team never fills the slot whose fixed side is its
// own group's winner. Returns the per-slot qualifier indices and whether a full
// solution was found.
func solveAssignment(slots []string, qualifiers []*shared.Team) ([]int, bool) {
	assigned := make([]int, len(slots))
	used := make([]bool, len(qualifiers))
	if backtrack(slots, qualifiers, assigned, used, 0) {
		return assigned, true
	}
	return nil, false
}

func backtrack(slots []string, qualifiers []*shared.Team, assigned []int, used []bool, slot int) bool {
	if slot == len(slots) {
		return true
	}
	for i, q := range qualifiers {
		if used[i] || q.Group == slots[slot] {
			continue
		}
		used[i] = true
		assigned[slot] = i
		if backtrack(slots, qualifiers, assigned, used, slot+1) {
			return true
		}
		used[i] = false
	}
	return false
}

// firstFitAssignment ignores the adjacency constraint and hands out qualifiers in
// order so that every slot still receives a team.
func firstFitAssignment(slots []string, qualifiers []*shared.Team) []int {
	assigned := make([]int, len(slots))
	for i := range slots {
		assigned[i] = i
	}
	return assigned
}
