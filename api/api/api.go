/* api.go
 * This file contains the public methods for interacting with this package. For
 * consistent results, functions should only be called from this file, not the sub
 * packages for sim, logic and store.
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"worldcup-pickems/api/external"
	"worldcup-pickems/api/logic"
	"worldcup-pickems/api/shared"
	"worldcup-pickems/api/sim"
	"worldcup-pickems/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// Default iteration counts for the two Monte Carlo passes. The qualification
// estimator only simulates the group stage, so it gets by with fewer runs.
const (
	DefaultIterations              = 10000
	DefaultQualificationIterations = 2000
)

// API provides methods for interacting with the world cup simulator data layer.
type API struct {
	Store  store.Interface
	Engine *sim.Engine
}

// NewAPI creates a new API instance with the provided configuration.
func NewAPI(dbName string, mongoURI string, tournament string, round string, seed int64) (*API, error) {
	if dbName == "" || tournament == "" || round == "" {
		return nil, fmt.Errorf("dbName, tournament, and round are required")
	}

	s, err := store.NewStore(dbName, mongoURI, tournament, round)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &API{
		Store:  s,
		Engine: sim.NewEngine(seed),
	}, nil
}

// EnsureRoster fetches the stored roster, seeding the default 48-team draw on first
// use. Every other method goes through this so a fresh database just works.
func (a *API) EnsureRoster() ([]*shared.Group, error) {
	groups, err := a.Store.FetchRoster()
	if err == nil {
		return groups, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	groups = logic.DefaultGroups()
	if err := a.Store.StoreRoster(groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// PopulateRankings fetches the rankings feed, applies it to the roster and persists
// the result. Teams missing from the feed keep their seed ranks.
func (a *API) PopulateRankings(ctx context.Context, feedURL string) error {
	groups, err := a.EnsureRoster()
	if err != nil {
		return err
	}

	rankings, err := external.FetchWorldRankings(ctx, feedURL)
	if err != nil {
		return err
	}

	unmatched := logic.ApplyRankings(groups, rankings)
	if len(unmatched) > 0 {
		log.Printf("rankings feed: no entry for %s", strings.Join(unmatched, ", "))
	}
	return a.Store.StoreRoster(groups)
}

// GetTeams gets a list of all valid team names in the roster.
func (a *API) GetTeams() ([]string, error) {
	groups, err := a.EnsureRoster()
	if err != nil {
		return nil, err
	}
	names := logic.ValidTeamNames(groups)
	sort.Strings(names)
	return names, nil
}

// GetGroupStandings returns one group with statistics recomputed from its entered
// matches, ordered by the standings tie-break.
func (a *API) GetGroupStandings(groupName string) (*shared.Group, error) {
	groups, err := a.EnsureRoster()
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		if strings.EqualFold(g.Name, groupName) {
			return sim.ComputeGroupStandings(g)
		}
	}
	return nil, fmt.Errorf("unknown group %q", groupName)
}

// EnterGroupResult records a group-stage result and persists the roster.
func (a *API) EnterGroupResult(matchId string, homeScore, awayScore int) error {
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("scores cannot be negative")
	}
	groups, err := a.EnsureRoster()
	if err != nil {
		return err
	}
	for _, g := range groups {
		for i := range g.Matches {
			if g.Matches[i].Id != matchId {
				continue
			}
			g.Matches[i].HomeScore = shared.IntPtr(homeScore)
			g.Matches[i].AwayScore = shared.IntPtr(awayScore)
			g.Matches[i].Finished = true
			return a.Store.StoreRoster(groups)
		}
	}
	return fmt.Errorf("unknown match %q", matchId)
}

// VerifyTournament runs one full simulated completion of the tournament from the
// current state, honoring entered results. Used for previewing a concrete outcome.
func (a *API) VerifyTournament() (*sim.TournamentOutcome, error) {
	groups, err := a.EnsureRoster()
	if err != nil {
		return nil, err
	}
	knockout, err := a.Store.FetchKnockoutState()
	if err != nil {
		return nil, err
	}
	return a.Engine.SimulateTournament(groups, knockout)
}

// GetStageOdds runs the Monte Carlo aggregator and returns one formatted line per
// team with the percentage of iterations reaching each stage.
func (a *API) GetStageOdds(iterations int) ([]string, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	groups, err := a.EnsureRoster()
	if err != nil {
		return nil, err
	}
	knockout, err := a.Store.FetchKnockoutState()
	if err != nil {
		return nil, err
	}

	stats, err := a.Engine.RunMonteCarlo(groups, knockout, iterations)
	if err != nil {
		return nil, err
	}

	pct := func(count int) float64 {
		return 100.0 * float64(count) / float64(iterations)
	}
	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf(
			"%s (%s): R32 %.1f%% | R16 %.1f%% | QF %.1f%% | SF %.1f%% | 3rd place match %.1f%% | Final %.1f%% | Champion %.1f%%",
			s.Name, s.Group, pct(s.R32), pct(s.R16), pct(s.QF), pct(s.SF), pct(s.ThirdPlace), pct(s.Final), pct(s.Champion)))
	}
	return lines, nil
}

// GetThirdPlaceOdds runs the qualification estimator and returns formatted per-team
// probabilities of reaching a qualifying third-place slot, best first.
func (a *API) GetThirdPlaceOdds(iterations int) ([]string, error) {
	if iterations <= 0 {
		iterations = DefaultQualificationIterations
	}
	groups, err := a.EnsureRoster()
	if err != nil {
		return nil, err
	}

	probs, err := a.Engine.EstimateThirdPlaceQualification(groups, iterations)
	if err != nil {
		return nil, err
	}

	type row struct {
		name string
		prob float64
	}
	rows := make([]row, 0, len(probs))
	for _, g := range groups {
		for _, t := range g.Teams {
			rows = append(rows, row{t.Name, probs[t.Id]})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].prob != rows[j].prob {
			return rows[i].prob > rows[j].prob
		}
		return rows[i].name < rows[j].name
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s: %.1f%%", r.name, 100*r.prob))
	}
	return lines, nil
}

// SetKnockoutResult records an externally entered knockout result by match id.
// Penalty scores are optional and only meaningful for tied regulation scores.
func (a *API) SetKnockoutResult(matchId int, homeScore, awayScore int, homePens, awayPens *int) error {
	if matchId < 73 || matchId > 104 {
		return fmt.Errorf("knockout match ids run 73-104, got %d", matchId)
	}
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("scores cannot be negative")
	}

	groups, err := a.EnsureRoster()
	if err != nil {
		return err
	}
	entered, err := a.Store.FetchKnockoutState()
	if err != nil {
		return err
	}

	// Project without simulating: the pairing must be derivable from finished
	// groups and previously entered results alone. The concrete pairing is stored
	// with the result so stale entries can be detected once upstream changes.
	projected, err := sim.ProjectBracket(groups, entered)
	if err != nil {
		return err
	}
	var resolved *shared.KnockoutMatch
	for _, m := range projected {
		if m.Id == matchId {
			resolved = m
			break
		}
	}
	if resolved == nil || !resolved.Ready() {
		return fmt.Errorf("match %d participants are not decided yet", matchId)
	}
	kept := make([]*shared.KnockoutMatch, 0, len(entered)+1)
	for _, m := range entered {
		if m.Id != matchId {
			kept = append(kept, m)
		}
	}
	kept = append(kept, &shared.KnockoutMatch{
		Id:        matchId,
		Stage:     resolved.Stage,
		Home:      shared.Slot{Team: shared.CopyTeam(resolved.Home.Team)},
		Away:      shared.Slot{Team: shared.CopyTeam(resolved.Away.Team)},
		HomeScore: shared.IntPtr(homeScore),
		AwayScore: shared.IntPtr(awayScore),
		HomePens:  homePens,
		AwayPens:  awayPens,
	})
	return a.Store.StoreKnockoutState(kept)
}

// GetQualificationOutlook enumerates every remaining outcome of a team's group and
// reports whether a top-two finish is already decided. The team name is fuzzy-matched
// against the roster.
func (a *API) GetQualificationOutlook(teamName string) (string, error) {
	groups, err := a.EnsureRoster()
	if err != nil {
		return "", err
	}

	resolved, invalid := logic.CheckTeamNames([]string{teamName}, logic.ValidTeamNames(groups))
	if len(invalid) > 0 {
		return "", fmt.Errorf("unknown team %q", teamName)
	}
	teamId := logic.TeamId(resolved[0])

	var group *shared.Group
	for _, g := range groups {
		if g.TeamById(teamId) != nil {
			group = g
			break
		}
	}
	if group == nil {
		return "", fmt.Errorf("unknown team %q", teamName)
	}

	outlook, err := sim.GroupQualificationOutlook(group, teamId)
	if err != nil {
		return "", err
	}

	switch {
	case outlook.TopTwoAlways:
		return fmt.Sprintf("%s finishes in the top two of Group %s in every remaining scenario (%d enumerated)",
			resolved[0], group.Name, outlook.Scenarios), nil
	case outlook.TopTwoNever:
		return fmt.Sprintf("%s cannot finish in the top two of Group %s; third or better in %d of %d scenarios",
			resolved[0], group.Name, outlook.ThirdOrAbove, outlook.Scenarios), nil
	default:
		return fmt.Sprintf("%s's top-two finish in Group %s is still open; third or better in %d of %d scenarios",
			resolved[0], group.Name, outlook.ThirdOrAbove, outlook.Scenarios), nil
	}
}

// SetUserPrediction validates and stores a user's pickems: two advancing teams per
// group plus a champion. Team names are fuzzy-matched against the roster.
func (a *API) SetUserPrediction(user shared.User, groupPicks map[string][]string, champion string) error {
	groups, err := a.EnsureRoster()
	if err != nil {
		return err
	}
	validTeams := logic.ValidTeamNames(groups)

	resolvedPicks := make(map[string][]string, len(groupPicks))
	var invalid []string
	for group, picks := range groupPicks {
		formatted, bad := logic.CheckTeamNames(picks, validTeams)
		invalid = append(invalid, bad...)
		resolvedPicks[strings.ToUpper(group)] = formatted
	}
	resolvedChampion, bad := logic.CheckTeamNames([]string{champion}, validTeams)
	invalid = append(invalid, bad...)

	if len(invalid) > 0 {
		var str strings.Builder
		str.WriteString("the following team names are invalid:")
		for i := range invalid {
			str.WriteString(fmt.Sprintf(" '%s'", invalid[i]))
		}
		return errors.New(str.String())
	}

	prediction, err := logic.GeneratePrediction(user, a.Store.GetTournament(), a.Store.GetRound(), resolvedPicks, resolvedChampion[0])
	if err != nil {
		return err
	}
	return a.Store.StoreUserPrediction(user.UserId, prediction)
}

// CheckPrediction scores a user's stored prediction against the entered results and
// returns a per-pick report.
func (a *API) CheckPrediction(user shared.User) (string, error) {
	groups, err := a.EnsureRoster()
	if err != nil {
		return "", err
	}
	prediction, err := a.Store.GetUserPrediction(user.UserId)
	if err != nil {
		return "", err
	}
	champion, err := a.enteredChampion()
	if err != nil {
		return "", err
	}

	_, report, err := logic.CalculateUserScore(prediction, groups, champion)
	if err != nil {
		return "", err
	}
	return report, nil
}

// GenerateLeaderboard scores every stored prediction and persists the leaderboard.
func (a *API) GenerateLeaderboard() error {
	groups, err := a.EnsureRoster()
	if err != nil {
		return err
	}
	champion, err := a.enteredChampion()
	if err != nil {
		return err
	}
	preds, err := a.Store.GetAllUserPredictions()
	if err != nil {
		return err
	}

	var leaderboard store.Leaderboard
	leaderboard.Round = a.Store.GetRound()

	for _, pred := range preds {
		scores, _, err := logic.CalculateUserScore(pred, groups, champion)
		if err != nil {
			return err
		}

		var entry store.LeaderboardEntry
		entry.UserId = pred.UserId
		entry.Username = pred.Username
		entry.Score = scores.Successes + scores.Pending - scores.Failed
		entry.ScoreResult = scores
		leaderboard.Entries = append(leaderboard.Entries, entry)
	}

	return a.Store.StoreLeaderboard(leaderboard)
}

// GetLeaderboard fetches the leaderboard from the db and generates a response string,
// best score first. There is no tie breaker between equal scores.
func (a *API) GetLeaderboard() (string, error) {
	entries, err := a.Store.FetchLeaderboardFromDB()
	if err != nil {
		return "", err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	var response strings.Builder
	response.WriteString("The users with the best pickems are:\n")
	for i, user := range entries {
		response.WriteString(fmt.Sprintf("%d. %s, %d successes, %d failures\n",
			i+1, user.Username, user.ScoreResult.Successes, user.ScoreResult.Failed))
	}
	return response.String(), nil
}

// GetTournamentInfo returns attribute : value summary lines for the tournament.
func (a *API) GetTournamentInfo() ([]string, error) {
	groups, err := a.EnsureRoster()
	if err != nil {
		return nil, err
	}

	var values []string
	values = append(values, fmt.Sprintf("Tournament Name: %s", a.Store.GetTournament()))
	values = append(values, fmt.Sprintf("Round: %s", a.Store.GetRound()))
	values = append(values, "Format: 12 groups of 4, top 2 plus 8 best thirds to a 32-team bracket")
	values = append(values, fmt.Sprintf("Teams: %d", len(logic.ValidTeamNames(groups))))
	return values, nil
}

// enteredChampion returns the tournament winner if the final has been externally
// entered with a decisive result, otherwise nil.
func (a *API) enteredChampion() (*shared.Team, error) {
	entered, err := a.Store.FetchKnockoutState()
	if err != nil {
		return nil, err
	}
	for _, m := range entered {
		if m.Stage != shared.StageFinal || !m.Ready() || !m.Played() {
			continue
		}
		switch {
		case *m.HomeScore > *m.AwayScore:
			return m.Home.Team, nil
		case *m.HomeScore < *m.AwayScore:
			return m.Away.Team, nil
		case m.HomePens != nil && m.AwayPens != nil && *m.HomePens > *m.AwayPens:
			return m.Home.Team, nil
		case m.HomePens != nil && m.AwayPens != nil && *m.HomePens < *m.AwayPens:
			return m.Away.Team, nil
		}
	}
	return nil, nil
}
