/* models.go
 * This file contains the structs that map to DB documents: user predictions, roster and
 * knockout state snapshots, and leaderboards.
 */

package store

import (
	"worldcup-pickems/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prediction is one user's pickems for a round: the two advancing teams per group and
// the overall champion. GroupPicks is keyed by group name (A-L).
type Prediction struct {
	Id         primitive.ObjectID  `bson:"_id,omitempty"`
	UserId     string              `bson:"userid,omitempty"`
	Username   string              `bson:"username,omitempty"`
	Tournament string              `bson:"tournament,omitempty"`
	Round      string              `bson:"round,omitempty"`
	GroupPicks map[string][]string `bson:"group_picks,omitempty"`
	Champion   string              `bson:"champion,omitempty"`
}

// RosterDoc is the persisted tournament roster: the 12 groups with their teams and
// match results. The same Group shape the simulation core produces round-trips
// through Mongo untouched.
type RosterDoc struct {
	Id         primitive.ObjectID `bson:"_id,omitempty"`
	Tournament string             `bson:"tournament"`
	Groups     []*shared.Group    `bson:"groups"`
}

// KnockoutDoc is the persisted knockout state: externally entered bracket results.
type KnockoutDoc struct {
	Id         primitive.ObjectID      `bson:"_id,omitempty"`
	Tournament string                  `bson:"tournament"`
	Matches    []*shared.KnockoutMatch `bson:"matches"`
}

// ScoreResult tallies one user's prediction outcomes.
type ScoreResult struct {
	Successes int
	Pending   int
	Failed    int
}

type LeaderboardEntry struct {
	UserId      string      `bson:"userid"`
	Username    string      `bson:"username"`
	Score       int         `bson:"score"`
	ScoreResult ScoreResult `bson:"score_result"`
}

type Leaderboard struct {
	Round   string             `bson:"round"`
	Entries []LeaderboardEntry `bson:"entries"`
}
