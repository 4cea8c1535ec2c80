/* prediction.go
 * Contains the logic for generating and scoring user predictions: two advancing teams
 * per group plus an overall champion pick.
 */

package logic

import (
	"fmt"
	"sort"
	"strings"

	"worldcup-pickems/api/shared"
	"worldcup-pickems/api/sim"
	"worldcup-pickems/api/store"
)

// GeneratePrediction builds the prediction document to be stored in the db.
// Preconditions: Receives the user, tournament and round strings, a map of group name
// to exactly two advancing team names, and the champion pick. Team names are assumed
// validated against the roster.
// Postconditions: Returns a Prediction ready to be inserted into the db, or an error
func GeneratePrediction(user shared.User, tournament string, round string, groupPicks map[string][]string, champion string) (store.Prediction, error) {
	if len(groupPicks) != 12 {
		return store.Prediction{}, fmt.Errorf("predictions require all 12 groups but got %d", len(groupPicks))
	}
	for group, picks := range groupPicks {
		if len(picks) != 2 {
			return store.Prediction{}, fmt.Errorf("group %s requires exactly 2 advancing teams but got %d", group, len(picks))
		}
		if picks[0] == picks[1] {
			return store.Prediction{}, fmt.Errorf("'%s' entered twice for group %s", picks[0], group)
		}
	}
	if champion == "" {
		return store.Prediction{}, fmt.Errorf("a champion pick is required")
	}

	return store.Prediction{
		UserId:     user.UserId,
		Username:   user.Username,
		Tournament: tournament,
		Round:      round,
		GroupPicks: groupPicks,
		Champion:   champion,
	}, nil
}

// CalculateUserScore scores a prediction against the current tournament state.
// Group picks resolve once their group's 6 matches are entered; the champion pick
// resolves once the final has a winner.
// Postconditions: Returns a ScoreResult with successes, pending and failed counts and
// a per-pick report string, or an error if it occurs
func CalculateUserScore(prediction store.Prediction, groups []*shared.Group, champion *shared.Team) (store.ScoreResult, string, error) {
	if len(prediction.GroupPicks) == 0 {
		return store.ScoreResult{}, "", fmt.Errorf("prediction has no group picks")
	}

	var succeeded, pending, failed int
	var response strings.Builder

	groupNames := make([]string, 0, len(prediction.GroupPicks))
	for name := range prediction.GroupPicks {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	byName := make(map[string]*shared.Group, len(groups))
	for _, g := range groups {
		byName[g.Name] = g
	}

	for _, name := range groupNames {
		picks := prediction.GroupPicks[name]
		g, ok := byName[name]
		if !ok {
			return store.ScoreResult{}, "", fmt.Errorf("prediction references unknown group %s", name)
		}

		if !g.Finished() {
			for _, pick := range picks {
				response.WriteString(fmt.Sprintf("- %s to advance from Group %s [Pending]\n", pick, name))
				pending++
			}
			continue
		}

		standings, err := sim.ComputeGroupStandings(g)
		if err != nil {
			return store.ScoreResult{}, "", err
		}
		advancing := map[string]bool{
			standings.Teams[0].Name: true,
			standings.Teams[1].Name: true,
		}
		for _, pick := range picks {
			if advancing[pick] {
				response.WriteString(fmt.Sprintf("- %s to advance from Group %s [Succeeded]\n", pick, name))
				succeeded++
			} else {
				response.WriteString(fmt.Sprintf("- %s to advance from Group %s [Failed]\n", pick, name))
				failed++
			}
		}
	}

	if prediction.Champion != "" {
		switch {
		case champion == nil:
			response.WriteString(fmt.Sprintf("- %s to win the tournament [Pending]\n", prediction.Champion))
			pending++
		case champion.Name == prediction.Champion:
			response.WriteString(fmt.Sprintf("- %s to win the tournament [Succeeded]\n", prediction.Champion))
			succeeded++
		default:
			response.WriteString(fmt.Sprintf("- %s to win the tournament [Failed]\n", prediction.Champion))
			failed++
		}
	}

	return store.ScoreResult{
		Successes: succeeded,
		Pending:   pending,
		Failed:    failed,
	}, response.String(), nil
}
