/* handlers.go
 * Contains testable handler methods that accept a DiscordSession interface. The
 * runtime wiring to *discordgo.Session lives in bot_runtime.go.
 */

package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"worldcup-pickems/api/logic"
	"worldcup-pickems/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
	"go.mongodb.org/mongo-driver/mongo"
)

// Odds listings are truncated so responses stay under Discord's message size limit.
const (
	maxOddsLines   = 12
	maxThirdsLines = 16
)

// DiscordSession is the slice of the Discord session API the handlers need. Tests
// substitute an in-memory implementation.
type DiscordSession interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ DiscordSession = (*discordgo.Session)(nil)

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$details"):
		b.detailsHandler(session, message)

	case startsWith(message.Content, "$set"):
		b.setPredictionsHandler(session, message)

	case startsWith(message.Content, "$check"):
		b.checkPredictionsHandler(session, message)

	case startsWith(message.Content, "$leaderboard"):
		b.leaderboardHandler(session, message)

	case startsWith(message.Content, "$teams"):
		b.teamsHandler(session, message)

	case startsWith(message.Content, "$standings"):
		b.standingsHandler(session, message)

	case startsWith(message.Content, "$odds"):
		b.oddsHandler(session, message)

	case startsWith(message.Content, "$thirds"):
		b.thirdsHandler(session, message)

	case startsWith(message.Content, "$locked"):
		b.lockedHandler(session, message)

	case startsWith(message.Content, "$result"):
		b.resultHandler(session, message)

	case startsWith(message.Content, "$bracket"):
		b.bracketHandler(session, message)
	}
}

// helpMessageHandler handles the $help command
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("World Cup Pickems Bot v1.0\n")
	res.WriteString("`$details`: Get information about the tournament including name, round and format\n")
	res.WriteString("`$set teamA1 teamA2 teamB1 teamB2 ... teamL1 teamL2 champion`: Sets your Pick'Ems. 25 teams are required: two advancing teams for each of groups A to L in order, then your champion pick last\n")
	res.WriteString("There is fuzzy matching on names, however you should try and have a close match for the best results. Names that contain two or more words need to be encased in \" (e.g. \"United States\")\n")
	res.WriteString("`$check`: shows the current status of your Pick'Ems\n")
	res.WriteString("`$teams`: shows the teams in the tournament. Use this list to set your Pick'Ems\n")
	res.WriteString("`$leaderboard`: shows which users have the best pickems. This is sorted by number of successful picks. There is no tie breaker in the event two users have the same number of successes\n")
	res.WriteString("`$standings <group>`: shows the current table for a group, e.g. `$standings A`\n")
	res.WriteString("`$odds [iterations]`: simulates the remaining tournament and shows each team's chance of reaching each stage\n")
	res.WriteString("`$thirds`: shows each team's chance of qualifying through a best third-place slot\n")
	res.WriteString("`$locked <team>`: checks whether a team's top-two group finish is already mathematically decided\n")
	res.WriteString("`$result <match> <home> <away> [homePens awayPens]`: records a result. Group matches use ids like A-1, knockout matches use ids 73 to 104\n")
	res.WriteString("`$bracket`: shows the knockout bracket from the round of 16 onwards\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// detailsHandler handles the $details command
func (b *Bot) detailsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	info, err := b.APIPtr.GetTournamentInfo()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An unexpected error occured")
		return
	}
	var res strings.Builder
	for i := range info {
		res.WriteString(fmt.Sprintf("%s\n", info[i]))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// setPredictionsHandler handles the $set command. Expects two picks per group in
// group order followed by a champion pick, 25 names in total.
func (b *Bot) setPredictionsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserId: message.Author.ID, Username: message.Author.Username}
	res := fmt.Sprintf("%s's Pickems have been updated\n", user.Username)

	// we use splitter here instead of go's built in splitter because now we can have
	// team names that contain spaces e.g. "United States" recognised as one team not two
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	msg, _ := spaceSplitter.Split(message.Content)
	userPreds := msg[1:]

	wanted := 2*len(logic.GroupNames) + 1
	if len(userPreds) != wanted {
		session.ChannelMessageSend(message.ChannelID,
			fmt.Sprintf("Expected %d teams (two per group A to L, champion last) but got %d. See $help for the format", wanted, len(userPreds)))
		return
	}

	groupPicks := make(map[string][]string, len(logic.GroupNames))
	for i, name := range logic.GroupNames {
		groupPicks[name] = []string{strings.Trim(userPreds[2*i], "\""), strings.Trim(userPreds[2*i+1], "\"")}
	}
	champion := strings.Trim(userPreds[wanted-1], "\"")

	err := b.APIPtr.SetUserPrediction(user, groupPicks, champion)
	if err != nil {
		log.Println(err)
		res = fmt.Sprintf("An error occured setting %s's Pickems: %s", user.Username, err)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// checkPredictionsHandler handles the $check command
func (b *Bot) checkPredictionsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserId: message.Author.ID, Username: message.Author.Username}
	res, err := b.APIPtr.CheckPrediction(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = fmt.Sprintf("%s does not have any Pickems stored. Use $set to set your predictions\n", user.Username)
		} else {
			log.Println(err)
			res = fmt.Sprintf("An error occured checking %s's Pickems", user.Username)
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// leaderboardHandler handles the $leaderboard command. Scores are regenerated from
// the current results before the leaderboard is fetched.
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if err := b.APIPtr.GenerateLeaderboard(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			session.ChannelMessageSend(message.ChannelID, "No Pickems have been set yet. Use $set to set your predictions")
			return
		}
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occurred generating the leaderboard")
		return
	}

	res, err := b.APIPtr.GetLeaderboard()
	if err != nil {
		log.Println(err)
		res = "An error occurred getting the leaderboard"
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// teamsHandler handles the $teams command
func (b *Bot) teamsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	teams, err := b.APIPtr.GetTeams()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting the teams list")
		return
	}

	var res strings.Builder
	res.WriteString("Valid teams for this tournament are:\n")
	for _, team := range teams {
		res.WriteString(fmt.Sprintf("- %s\n", team))
	}

	session.ChannelMessageSend(message.ChannelID, res.String())
}

// standingsHandler handles the $standings command
func (b *Bot) standingsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	fields := strings.Fields(message.Content)
	if len(fields) != 2 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $standings <group>, e.g. $standings A")
		return
	}

	group, err := b.APIPtr.GetGroupStandings(fields[1])
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not get standings: %s", err))
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("Group %s:\n", group.Name))
	for i, team := range group.Teams {
		res.WriteString(fmt.Sprintf("%d. %s | %dpts | W%d D%d L%d | GF %d GA %d\n",
			i+1, team.Name, team.Points, team.Won, team.Drawn, team.Lost, team.GoalsFor, team.GoalsAgainst))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// oddsHandler handles the $odds command. An optional iteration count follows the
// command; the API default applies otherwise.
func (b *Bot) oddsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	iterations := 0
	fields := strings.Fields(message.Content)
	if len(fields) > 1 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			session.ChannelMessageSend(message.ChannelID, "Usage: $odds [iterations]")
			return
		}
		iterations = n
	}

	lines, err := b.APIPtr.GetStageOdds(iterations)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured simulating the tournament")
		return
	}

	if len(lines) > maxOddsLines {
		lines = lines[:maxOddsLines]
	}
	var res strings.Builder
	res.WriteString("Tournament odds (best title chances first):\n")
	for _, line := range lines {
		res.WriteString(fmt.Sprintf("%s\n", line))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// thirdsHandler handles the $thirds command
func (b *Bot) thirdsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	lines, err := b.APIPtr.GetThirdPlaceOdds(0)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured estimating third-place qualification")
		return
	}

	if len(lines) > maxThirdsLines {
		lines = lines[:maxThirdsLines]
	}
	var res strings.Builder
	res.WriteString("Chance of qualifying through a best third-place slot:\n")
	for _, line := range lines {
		res.WriteString(fmt.Sprintf("%s\n", line))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// lockedHandler handles the $locked command. Team names containing spaces need quoting.
func (b *Bot) lockedHandler(session DiscordSession, message *discordgo.MessageCreate) {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	msg, _ := spaceSplitter.Split(message.Content)
	if len(msg) != 2 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $locked <team>, e.g. $locked \"United States\"")
		return
	}

	res, err := b.APIPtr.GetQualificationOutlook(strings.Trim(msg[1], "\""))
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not analyse qualification: %s", err))
		return
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// resultHandler handles the $result command. Group matches are addressed by ids
// like A-1; knockout matches by their numeric ids.
func (b *Bot) resultHandler(session DiscordSession, message *discordgo.MessageCreate) {
	usage := "Usage: $result <match> <home> <away> [homePens awayPens]"
	fields := strings.Fields(message.Content)
	if len(fields) != 4 && len(fields) != 6 {
		session.ChannelMessageSend(message.ChannelID, usage)
		return
	}

	homeScore, err1 := strconv.Atoi(fields[2])
	awayScore, err2 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil {
		session.ChannelMessageSend(message.ChannelID, usage)
		return
	}

	if matchId, err := strconv.Atoi(fields[1]); err == nil {
		var homePens, awayPens *int
		if len(fields) == 6 {
			hp, err1 := strconv.Atoi(fields[4])
			ap, err2 := strconv.Atoi(fields[5])
			if err1 != nil || err2 != nil {
				session.ChannelMessageSend(message.ChannelID, usage)
				return
			}
			homePens, awayPens = &hp, &ap
		}
		if err := b.APIPtr.SetKnockoutResult(matchId, homeScore, awayScore, homePens, awayPens); err != nil {
			session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not record result: %s", err))
			return
		}
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Recorded knockout match %d as %d-%d", matchId, homeScore, awayScore))
		return
	}

	if len(fields) == 6 {
		session.ChannelMessageSend(message.ChannelID, "Penalty scores only apply to knockout matches")
		return
	}
	if err := b.APIPtr.EnterGroupResult(fields[1], homeScore, awayScore); err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not record result: %s", err))
		return
	}
	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Recorded group match %s as %d-%d", fields[1], homeScore, awayScore))
}

// bracketHandler handles the $bracket command. Shows one projected completion of
// the bracket from the round of 16 onwards, honoring entered results.
func (b *Bot) bracketHandler(session DiscordSession, message *discordgo.MessageCreate) {
	outcome, err := b.APIPtr.VerifyTournament()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured resolving the bracket")
		return
	}

	stageNames := map[shared.Stage]string{
		shared.StageR16:        "Round of 16",
		shared.StageQF:         "Quarter-finals",
		shared.StageSF:         "Semi-finals",
		shared.StageThirdPlace: "Third-place play-off",
		shared.StageFinal:      "Final",
	}

	var res strings.Builder
	res.WriteString("Projected bracket:\n")
	var lastStage shared.Stage
	for _, m := range outcome.Knockout {
		name, ok := stageNames[m.Stage]
		if !ok {
			continue
		}
		if m.Stage != lastStage {
			res.WriteString(fmt.Sprintf("**%s**\n", name))
			lastStage = m.Stage
		}
		res.WriteString(fmt.Sprintf("%d: %s %d-%d %s\n",
			m.Id, m.Home.Describe(), *m.HomeScore, *m.AwayScore, m.Away.Describe()))
	}
	if champion := outcome.Champion(); champion != nil {
		res.WriteString(fmt.Sprintf("Projected champion: %s\n", champion.Name))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}
