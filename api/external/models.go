/* models.go
 * This file contains the structs used to deserialize the world rankings feed.
 */

package external

// RankingEntry is one team's entry in the rankings feed: an ordinal rank and the
// cardinal points score the predictor consumes.
type RankingEntry struct {
	Team   string  `json:"team"`
	Rank   int     `json:"rank"`
	Points float64 `json:"points"`
}

// rankingsResponse mirrors the feed's JSON envelope.
type rankingsResponse struct {
	Rankings []RankingEntry `json:"rankings"`
}
