/* input_processing_test.go
 * Contains unit tests for team-name validation.
 */

package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCheckTeamNames_ExactMatches tests canonical names passing through
func TestCheckTeamNames_ExactMatches(t *testing.T) {
	valid := []string{"Argentina", "France", "Brazil", "South Korea"}

	formatted, invalid := CheckTeamNames([]string{"Argentina", "Brazil"}, valid)

	assert.Empty(t, invalid)
	assert.Equal(t, []string{"Argentina", "Brazil"}, formatted)
}

// TestCheckTeamNames_CaseInsensitive tests lowercase input resolving to canonical names
func TestCheckTeamNames_CaseInsensitive(t *testing.T) {
	valid := []string{"Argentina", "France", "Brazil"}

	formatted, invalid := CheckTeamNames([]string{"argentina", "FRANCE"}, valid)

	assert.Empty(t, invalid)
	assert.Equal(t, []string{"Argentina", "France"}, formatted)
}

// TestCheckTeamNames_FuzzyMatch tests partial input resolving via fuzzy search
func TestCheckTeamNames_FuzzyMatch(t *testing.T) {
	valid := []string{"Netherlands", "Switzerland"}

	formatted, invalid := CheckTeamNames([]string{"netherland"}, valid)

	assert.Empty(t, invalid)
	assert.Equal(t, []string{"Netherlands"}, formatted)
}

// TestCheckTeamNames_InvalidName tests unknown names being reported
func TestCheckTeamNames_InvalidName(t *testing.T) {
	valid := []string{"Argentina", "France"}

	formatted, invalid := CheckTeamNames([]string{"Wakanda"}, valid)

	assert.Empty(t, formatted)
	assert.Equal(t, []string{"Wakanda"}, invalid)
}

// TestCheckTeamNames_WhitespaceTrimmed tests padded input
func TestCheckTeamNames_WhitespaceTrimmed(t *testing.T) {
	valid := []string{"Japan"}

	formatted, invalid := CheckTeamNames([]string{"  japan  "}, valid)

	assert.Empty(t, invalid)
	assert.Equal(t, []string{"Japan"}, formatted)
}
