/* api_test.go
 * Contains tests for the API package using the mock store.
 */

package api

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"worldcup-pickems/api/shared"
	"worldcup-pickems/api/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAPI returns an API backed by the mock store with a fixed seed.
func newTestAPI(t *testing.T) (*API, *MockStore) {
	t.Helper()
	mock := NewMockStore("WorldCup2026", "group_stage")
	return &API{Store: mock, Engine: sim.NewEngine(1)}, mock
}

// validPicks builds a prediction from the roster: first two teams of each group,
// with the first team of the first group as champion.
func validPicks(groups []*shared.Group) (map[string][]string, string) {
	picks := make(map[string][]string, len(groups))
	for _, g := range groups {
		picks[g.Name] = []string{g.Teams[0].Name, g.Teams[1].Name}
	}
	return picks, groups[0].Teams[0].Name
}

// TestNewAPI_MissingConfig tests that NewAPI rejects empty required fields before
// touching the database
func TestNewAPI_MissingConfig(t *testing.T) {
	_, err := NewAPI("", "mongodb://localhost", "WorldCup2026", "group_stage", 1)
	assert.Error(t, err)

	_, err = NewAPI("test_db", "mongodb://localhost", "", "group_stage", 1)
	assert.Error(t, err)

	_, err = NewAPI("test_db", "mongodb://localhost", "WorldCup2026", "", 1)
	assert.Error(t, err)
}

// TestEnsureRoster_SeedsDefaultDraw tests that a fresh store gets the default
// 12-group roster seeded and persisted
func TestEnsureRoster_SeedsDefaultDraw(t *testing.T) {
	api, mock := newTestAPI(t)

	groups, err := api.EnsureRoster()
	require.NoError(t, err)
	assert.Len(t, groups, 12)
	assert.Len(t, mock.Roster, 12, "seeded roster should be persisted")

	// A second call returns the stored roster, not a new seed
	again, err := api.EnsureRoster()
	require.NoError(t, err)
	assert.Equal(t, groups, again)
}

// TestEnsureRoster_StoreError tests that non not-found fetch errors propagate
func TestEnsureRoster_StoreError(t *testing.T) {
	api, mock := newTestAPI(t)
	mock.FetchRosterError = assert.AnError

	_, err := api.EnsureRoster()
	assert.Error(t, err)
	assert.Nil(t, mock.Roster)
}

// TestGetTeams_ReturnsSortedNames tests the full roster name listing
func TestGetTeams_ReturnsSortedNames(t *testing.T) {
	api, _ := newTestAPI(t)

	teams, err := api.GetTeams()
	require.NoError(t, err)
	assert.Len(t, teams, 48)
	assert.True(t, sortedStrings(teams))
	assert.Contains(t, teams, "Argentina")
}

func sortedStrings(values []string) bool {
	for i := 1; i < len(values); i++ {
		if values[i-1] > values[i] {
			return false
		}
	}
	return true
}

// TestGetGroupStandings_CaseInsensitive tests group lookup by letter in any case
func TestGetGroupStandings_CaseInsensitive(t *testing.T) {
	api, _ := newTestAPI(t)

	group, err := api.GetGroupStandings("a")
	require.NoError(t, err)
	assert.Equal(t, "A", group.Name)
	assert.Len(t, group.Teams, 4)
}

// TestGetGroupStandings_UnknownGroup tests the error path for a bad group name
func TestGetGroupStandings_UnknownGroup(t *testing.T) {
	api, _ := newTestAPI(t)

	_, err := api.GetGroupStandings("Z")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown group")
}

// TestEnterGroupResult_UpdatesRoster tests that an entered result lands in the
// stored roster and shows up in standings
func TestEnterGroupResult_UpdatesRoster(t *testing.T) {
	api, mock := newTestAPI(t)

	err := api.EnterGroupResult("A-1", 2, 0)
	require.NoError(t, err)

	var entered *shared.Match
	for i := range mock.Roster[0].Matches {
		if mock.Roster[0].Matches[i].Id == "A-1" {
			entered = &mock.Roster[0].Matches[i]
		}
	}
	require.NotNil(t, entered)
	assert.True(t, entered.Finished)
	assert.Equal(t, 2, *entered.HomeScore)
	assert.Equal(t, 0, *entered.AwayScore)

	standings, err := api.GetGroupStandings("A")
	require.NoError(t, err)
	assert.Equal(t, 3, standings.Teams[0].Points)
}

// TestEnterGroupResult_Invalid tests rejection of bad match ids and negative scores
func TestEnterGroupResult_Invalid(t *testing.T) {
	api, _ := newTestAPI(t)

	err := api.EnterGroupResult("Z-9", 1, 0)
	assert.Error(t, err)

	err = api.EnterGroupResult("A-1", -1, 0)
	assert.Error(t, err)
}

// TestVerifyTournament_CompletesBracket tests that a single verification run
// produces a full bracket with a champion
func TestVerifyTournament_CompletesBracket(t *testing.T) {
	api, _ := newTestAPI(t)

	outcome, err := api.VerifyTournament()
	require.NoError(t, err)
	assert.Len(t, outcome.Knockout, 32)

	champion := outcome.Champion()
	require.NotNil(t, champion)
	assert.NotEmpty(t, champion.Name)
}

// TestGetStageOdds_FormatsAllTeams tests the Monte Carlo odds listing
func TestGetStageOdds_FormatsAllTeams(t *testing.T) {
	api, _ := newTestAPI(t)

	lines, err := api.GetStageOdds(50)
	require.NoError(t, err)
	assert.Len(t, lines, 48)
	for _, line := range lines {
		assert.Contains(t, line, "Champion")
		assert.Contains(t, line, "R32")
		assert.Contains(t, line, "3rd place match")
	}
}

// TestGetStageOdds_CountsThirdPlaceMatch tests that semifinal losers show up in the
// third-place match column
func TestGetStageOdds_CountsThirdPlaceMatch(t *testing.T) {
	api, _ := newTestAPI(t)

	lines, err := api.GetStageOdds(50)
	require.NoError(t, err)

	// Every iteration puts exactly two teams in the third-place match, so at
	// least one team has a non-zero share.
	nonZero := false
	for _, line := range lines {
		if strings.Contains(line, "3rd place match") && !strings.Contains(line, "3rd place match 0.0%") {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero, "no team ever reached the third-place match")
}

// TestGetThirdPlaceOdds_FormatsAllTeams tests the qualification odds listing
func TestGetThirdPlaceOdds_FormatsAllTeams(t *testing.T) {
	api, _ := newTestAPI(t)

	lines, err := api.GetThirdPlaceOdds(50)
	require.NoError(t, err)
	assert.Len(t, lines, 48)
	assert.Contains(t, lines[0], "%")
}

// completeAllGroups enters a home win for every group fixture so all knockout
// pairings are decided by real results, not simulation
func completeAllGroups(t *testing.T, api *API) {
	t.Helper()
	groups, err := api.EnsureRoster()
	require.NoError(t, err)
	for _, g := range groups {
		for i := 1; i <= 6; i++ {
			require.NoError(t, api.EnterGroupResult(fmt.Sprintf("%s-%d", g.Name, i), 1, 0))
		}
	}
}

// TestSetKnockoutResult_RejectsUndecidedPairing tests that a result cannot be
// entered while the match participants are not derivable from real results
func TestSetKnockoutResult_RejectsUndecidedPairing(t *testing.T) {
	api, mock := newTestAPI(t)

	// Fresh roster: nothing is decided, not even the round of 32.
	err := api.SetKnockoutResult(73, 2, 1, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not decided yet")

	err = api.SetKnockoutResult(104, 3, 1, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not decided yet")
	assert.Empty(t, mock.Knockout)
}

// TestSetKnockoutResult_StoresPairing tests that an entered knockout result is
// stored with the concrete resolved teams once the groups decide them
func TestSetKnockoutResult_StoresPairing(t *testing.T) {
	api, mock := newTestAPI(t)
	completeAllGroups(t, api)

	err := api.SetKnockoutResult(73, 2, 1, nil, nil)
	require.NoError(t, err)
	require.Len(t, mock.Knockout, 1)

	stored := mock.Knockout[0]
	assert.Equal(t, 73, stored.Id)
	assert.True(t, stored.Ready())
	assert.Equal(t, "Mexico", stored.Home.Team.Name, "home side is the group A winner")
	assert.Equal(t, 2, *stored.HomeScore)
	assert.Equal(t, 1, *stored.AwayScore)
}

// TestSetKnockoutResult_PropagatesEnteredWinners tests that later rounds open up
// only once their feeding matches carry entered decisive results
func TestSetKnockoutResult_PropagatesEnteredWinners(t *testing.T) {
	api, _ := newTestAPI(t)
	completeAllGroups(t, api)

	// Match 89 takes the winners of 73 and 74; neither has a result yet.
	err := api.SetKnockoutResult(89, 1, 0, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not decided yet")

	require.NoError(t, api.SetKnockoutResult(73, 2, 1, nil, nil))
	require.NoError(t, api.SetKnockoutResult(74, 1, 0, nil, nil))
	require.NoError(t, api.SetKnockoutResult(89, 1, 0, nil, nil))
}

// TestSetKnockoutResult_ReplacesExisting tests that re-entering a match replaces
// the previous result instead of duplicating it
func TestSetKnockoutResult_ReplacesExisting(t *testing.T) {
	api, mock := newTestAPI(t)
	completeAllGroups(t, api)

	require.NoError(t, api.SetKnockoutResult(73, 2, 1, nil, nil))
	require.NoError(t, api.SetKnockoutResult(73, 0, 3, nil, nil))

	require.Len(t, mock.Knockout, 1)
	assert.Equal(t, 0, *mock.Knockout[0].HomeScore)
	assert.Equal(t, 3, *mock.Knockout[0].AwayScore)
}

// TestSetKnockoutResult_InvalidId tests the id range guard
func TestSetKnockoutResult_InvalidId(t *testing.T) {
	api, _ := newTestAPI(t)

	assert.Error(t, api.SetKnockoutResult(72, 1, 0, nil, nil))
	assert.Error(t, api.SetKnockoutResult(105, 1, 0, nil, nil))
	assert.Error(t, api.SetKnockoutResult(73, -1, 0, nil, nil))
}

// TestSetUserPrediction_Valid tests storing a well formed prediction
func TestSetUserPrediction_Valid(t *testing.T) {
	api, mock := newTestAPI(t)
	groups, err := api.EnsureRoster()
	require.NoError(t, err)

	picks, champion := validPicks(groups)
	user := shared.User{UserId: "123", Username: "TestUser"}

	err = api.SetUserPrediction(user, picks, champion)
	require.NoError(t, err)

	stored, ok := mock.Predictions["123"]
	require.True(t, ok)
	assert.Equal(t, champion, stored.Champion)
	assert.Len(t, stored.GroupPicks, 12)
}

// TestSetUserPrediction_FuzzyNames tests that near-miss names resolve to roster names
func TestSetUserPrediction_FuzzyNames(t *testing.T) {
	api, mock := newTestAPI(t)
	groups, err := api.EnsureRoster()
	require.NoError(t, err)

	picks, _ := validPicks(groups)
	picks["C"] = []string{"argentina", "Denmark"}
	user := shared.User{UserId: "123", Username: "TestUser"}

	err = api.SetUserPrediction(user, picks, "netherland")
	require.NoError(t, err)

	stored := mock.Predictions["123"]
	assert.Equal(t, "Netherlands", stored.Champion)
	assert.Equal(t, []string{"Argentina", "Denmark"}, stored.GroupPicks["C"])
}

// TestSetUserPrediction_InvalidName tests rejection of unknown team names
func TestSetUserPrediction_InvalidName(t *testing.T) {
	api, _ := newTestAPI(t)
	groups, err := api.EnsureRoster()
	require.NoError(t, err)

	picks, champion := validPicks(groups)
	picks["A"] = []string{"Wakanda", "Switzerland"}
	user := shared.User{UserId: "123", Username: "TestUser"}

	err = api.SetUserPrediction(user, picks, champion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wakanda")
}

// TestCheckPrediction_NoPrediction tests the error path for a user with no stored
// prediction
func TestCheckPrediction_NoPrediction(t *testing.T) {
	api, _ := newTestAPI(t)

	_, err := api.CheckPrediction(shared.User{UserId: "123", Username: "TestUser"})
	assert.Error(t, err)
}

// TestCheckPrediction_ReportsPendingGroups tests that an unplayed tournament leaves
// every pick pending
func TestCheckPrediction_ReportsPendingGroups(t *testing.T) {
	api, _ := newTestAPI(t)
	groups, err := api.EnsureRoster()
	require.NoError(t, err)

	picks, champion := validPicks(groups)
	user := shared.User{UserId: "123", Username: "TestUser"}
	require.NoError(t, api.SetUserPrediction(user, picks, champion))

	report, err := api.CheckPrediction(user)
	require.NoError(t, err)
	assert.Contains(t, report, "[Pending]")
}

// TestGenerateLeaderboard_ScoresAllUsers tests leaderboard generation and retrieval
func TestGenerateLeaderboard_ScoresAllUsers(t *testing.T) {
	api, mock := newTestAPI(t)
	groups, err := api.EnsureRoster()
	require.NoError(t, err)

	picks, champion := validPicks(groups)
	require.NoError(t, api.SetUserPrediction(shared.User{UserId: "1", Username: "Alice"}, picks, champion))
	require.NoError(t, api.SetUserPrediction(shared.User{UserId: "2", Username: "Bob"}, picks, champion))

	require.NoError(t, api.GenerateLeaderboard())
	assert.Len(t, mock.Leaderboard, 2)

	response, err := api.GetLeaderboard()
	require.NoError(t, err)
	assert.Contains(t, response, "Alice")
	assert.Contains(t, response, "Bob")
	assert.True(t, strings.HasPrefix(response, "The users with the best pickems are:"))
}

// TestGenerateLeaderboard_NoPredictions tests the error path with no stored picks
func TestGenerateLeaderboard_NoPredictions(t *testing.T) {
	api, _ := newTestAPI(t)

	err := api.GenerateLeaderboard()
	assert.Error(t, err)
}

// TestPopulateRankings_AppliesFeed tests the rankings feed round trip against a
// local test server
func TestPopulateRankings_AppliesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rankings":[{"team":"Argentina","rank":1,"points":1886.16}]}`))
	}))
	defer server.Close()

	api, mock := newTestAPI(t)
	err := api.PopulateRankings(context.Background(), server.URL)
	require.NoError(t, err)

	var argentina *shared.Team
	for _, g := range mock.Roster {
		if team := g.TeamById("argentina"); team != nil {
			argentina = team
		}
	}
	require.NotNil(t, argentina)
	assert.Equal(t, 1886.16, argentina.FifaPoints)
}

// TestPopulateRankings_ReportsMissingTeams tests that roster teams absent from the
// feed are logged instead of silently skipped
func TestPopulateRankings_ReportsMissingTeams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rankings":[{"team":"Argentina","rank":1,"points":1886.16}]}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	api, _ := newTestAPI(t)
	require.NoError(t, api.PopulateRankings(context.Background(), server.URL))

	assert.Contains(t, buf.String(), "no entry for")
	assert.Contains(t, buf.String(), "Brazil")
}

// TestGetQualificationOutlook_OpenGroup tests an undecided group
func TestGetQualificationOutlook_OpenGroup(t *testing.T) {
	api, _ := newTestAPI(t)

	res, err := api.GetQualificationOutlook("Mexico")
	require.NoError(t, err)
	assert.Contains(t, res, "Mexico")
	assert.Contains(t, res, "still open")
}

// TestGetQualificationOutlook_DecidedGroup tests a team locked into the top two
func TestGetQualificationOutlook_DecidedGroup(t *testing.T) {
	api, _ := newTestAPI(t)

	// Mexico win all three of their matches; no outcome of the rest of the
	// group can push them out of the top two.
	require.NoError(t, api.EnterGroupResult("A-1", 2, 0))
	require.NoError(t, api.EnterGroupResult("A-3", 2, 0))
	require.NoError(t, api.EnterGroupResult("A-5", 2, 0))

	res, err := api.GetQualificationOutlook("Mexico")
	require.NoError(t, err)
	assert.Contains(t, res, "every remaining scenario")
}

// TestGetQualificationOutlook_UnknownTeam tests the error path for bad names
func TestGetQualificationOutlook_UnknownTeam(t *testing.T) {
	api, _ := newTestAPI(t)

	_, err := api.GetQualificationOutlook("Wakanda")
	assert.Error(t, err)
}

// TestGetTournamentInfo_Summary tests the attribute listing
func TestGetTournamentInfo_Summary(t *testing.T) {
	api, _ := newTestAPI(t)

	info, err := api.GetTournamentInfo()
	require.NoError(t, err)
	assert.Contains(t, info[0], "WorldCup2026")
	assert.Contains(t, info[1], "group_stage")
	assert.Contains(t, info[3], "48")
}
