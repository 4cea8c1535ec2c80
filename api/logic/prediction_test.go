/* prediction_test.go
 * Contains unit tests for prediction generation and scoring.
 */

package logic

import (
	"fmt"
	"testing"

	"worldcup-pickems/api/shared"
	"worldcup-pickems/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullGroupPicks() map[string][]string {
	picks := make(map[string][]string)
	for _, name := range GroupNames {
		picks[name] = []string{
			fmt.Sprintf("Team %s1", name),
			fmt.Sprintf("Team %s2", name),
		}
	}
	return picks
}

// TestGeneratePrediction_Valid tests the happy path
func TestGeneratePrediction_Valid(t *testing.T) {
	user := shared.User{UserId: "user123", Username: "testuser"}

	prediction, err := GeneratePrediction(user, "WorldCup2026", "group_stage", fullGroupPicks(), "Team A1")

	require.NoError(t, err)
	assert.Equal(t, "user123", prediction.UserId)
	assert.Equal(t, "testuser", prediction.Username)
	assert.Equal(t, "WorldCup2026", prediction.Tournament)
	assert.Equal(t, "group_stage", prediction.Round)
	assert.Len(t, prediction.GroupPicks, 12)
	assert.Equal(t, "Team A1", prediction.Champion)
}

// TestGeneratePrediction_MissingGroups tests the incomplete-picks error
func TestGeneratePrediction_MissingGroups(t *testing.T) {
	user := shared.User{UserId: "user123", Username: "testuser"}
	picks := fullGroupPicks()
	delete(picks, "L")

	_, err := GeneratePrediction(user, "WorldCup2026", "group_stage", picks, "Team A1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all 12 groups")
}

// TestGeneratePrediction_DuplicatePick tests the same team entered twice in one group
func TestGeneratePrediction_DuplicatePick(t *testing.T) {
	user := shared.User{UserId: "user123", Username: "testuser"}
	picks := fullGroupPicks()
	picks["B"] = []string{"Team B1", "Team B1"}

	_, err := GeneratePrediction(user, "WorldCup2026", "group_stage", picks, "Team A1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entered twice")
}

// TestGeneratePrediction_NoChampion tests the missing champion error
func TestGeneratePrediction_NoChampion(t *testing.T) {
	user := shared.User{UserId: "user123", Username: "testuser"}

	_, err := GeneratePrediction(user, "WorldCup2026", "group_stage", fullGroupPicks(), "")

	assert.Error(t, err)
}

// makeScoredGroup builds a finished group where team index 0 beats everyone and team
// index 1 beats teams 2 and 3, mirroring the sim package fixtures.
func makeScoredGroup(name string) *shared.Group {
	g := &shared.Group{Name: name}
	for i := 0; i < 4; i++ {
		g.Teams = append(g.Teams, &shared.Team{
			Id:    fmt.Sprintf("%s%d", name, i+1),
			Name:  fmt.Sprintf("Team %s%d", name, i+1),
			Group: name,
		})
	}
	g.Matches = GroupFixtures(g)
	for i := range g.Matches {
		m := &g.Matches[i]
		if m.HomeId < m.AwayId {
			m.HomeScore, m.AwayScore = shared.IntPtr(1), shared.IntPtr(0)
		} else {
			m.HomeScore, m.AwayScore = shared.IntPtr(0), shared.IntPtr(1)
		}
		m.Finished = true
	}
	return g
}

// TestCalculateUserScore_FinishedGroups tests scoring against entered results
func TestCalculateUserScore_FinishedGroups(t *testing.T) {
	groups := make([]*shared.Group, 0, 12)
	for _, name := range GroupNames {
		groups = append(groups, makeScoredGroup(name))
	}
	user := shared.User{UserId: "u1", Username: "scorer"}
	picks := fullGroupPicks()
	// One wrong pick: the group D bottom side instead of the runner-up.
	picks["D"] = []string{"Team D1", "Team D4"}

	prediction, err := GeneratePrediction(user, "WorldCup2026", "group_stage", picks, "Team A1")
	require.NoError(t, err)

	champion := &shared.Team{Id: "A1", Name: "Team A1"}
	scores, report, err := CalculateUserScore(prediction, groups, champion)

	require.NoError(t, err)
	assert.Equal(t, 24, scores.Successes) // 23 group picks + champion
	assert.Equal(t, 1, scores.Failed)
	assert.Equal(t, 0, scores.Pending)
	assert.Contains(t, report, "Team D4 to advance from Group D [Failed]")
	assert.Contains(t, report, "Team A1 to win the tournament [Succeeded]")
}

// TestCalculateUserScore_PendingGroups tests unfinished groups scoring as pending
func TestCalculateUserScore_PendingGroups(t *testing.T) {
	groups := make([]*shared.Group, 0, 12)
	for _, name := range GroupNames {
		g := makeScoredGroup(name)
		if name == "A" {
			g.Matches[5].Finished = false
			g.Matches[5].HomeScore = nil
			g.Matches[5].AwayScore = nil
		}
		groups = append(groups, g)
	}
	user := shared.User{UserId: "u2", Username: "waiter"}

	prediction, err := GeneratePrediction(user, "WorldCup2026", "group_stage", fullGroupPicks(), "Team A1")
	require.NoError(t, err)

	scores, report, err := CalculateUserScore(prediction, groups, nil)

	require.NoError(t, err)
	assert.Equal(t, 22, scores.Successes)
	assert.Equal(t, 3, scores.Pending) // 2 group A picks + champion
	assert.Equal(t, 0, scores.Failed)
	assert.Contains(t, report, "[Pending]")
}

// TestCalculateUserScore_EmptyPrediction tests the guard on empty documents
func TestCalculateUserScore_EmptyPrediction(t *testing.T) {
	var groups []*shared.Group

	_, _, err := CalculateUserScore(store.Prediction{}, groups, nil)

	assert.Error(t, err)
}
