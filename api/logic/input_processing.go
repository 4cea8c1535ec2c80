/* input_processing.go
 * Contains the logic for processing user input and validating team names against the
 * tournament roster.
 */

package logic

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CheckTeamNames processes team names from user input and checks if they are valid.
// Preconditions: receives two string slices; one containing the user's picks and
// another that is the list of valid roster team names
// Postconditions: returns two string slices, a slice of correctly formatted team names
// and a slice of strings containing the invalid team names
func CheckTeamNames(inputTeams []string, validTeams []string) ([]string, []string) {
	var formattedTeamNames []string
	var invalidTeams []string

	// Convert the roster to lowercase for better matching
	lookup := make(map[string]string)
	var validTeamsLower []string
	for _, name := range validTeams {
		lower := strings.ToLower(name)
		lookup[lower] = name
		validTeamsLower = append(validTeamsLower, lower)
	}

	for _, team := range inputTeams {
		lowerTeam := strings.ToLower(strings.TrimSpace(team))
		fuzzyResults := fuzzy.RankFind(lowerTeam, validTeamsLower)
		if len(fuzzyResults) == 0 {
			invalidTeams = append(invalidTeams, team)
			continue
		}
		if len(fuzzyResults) == 1 {
			formattedTeamNames = append(formattedTeamNames, lookup[fuzzyResults[0].Target])
			continue
		}
		// Multiple matches: prefer an exact match, otherwise take the best ranked one.
		best := ""
		for i := range fuzzyResults {
			if fuzzyResults[i].Target == lowerTeam {
				best = fuzzyResults[i].Target
			}
		}
		if best == "" {
			best = fuzzyResults[0].Target
		}
		formattedTeamNames = append(formattedTeamNames, lookup[best])
	}
	return formattedTeamNames, invalidTeams
}
