/* parser.go
 * Contains the parsing logic for the rankings feed payload. Kept separate from the
 * HTTP fetch so parsing can be tested without network access.
 */

package external

import (
	"encoding/json"
	"fmt"
)

// ParseRankings decodes the feed payload into ranking entries. Entries without a team
// name are rejected; a missing points value is fine, the core falls back to
// rank-derived pseudo-points.
func ParseRankings(body []byte) ([]RankingEntry, error) {
	var resp rankingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("invalid rankings payload: %w", err)
	}
	if len(resp.Rankings) == 0 {
		return nil, fmt.Errorf("rankings payload contains no entries")
	}
	for i, e := range resp.Rankings {
		if e.Team == "" {
			return nil, fmt.Errorf("rankings entry %d has no team name", i)
		}
		if e.Rank < 0 {
			return nil, fmt.Errorf("rankings entry for %s has negative rank %d", e.Team, e.Rank)
		}
	}
	return resp.Rankings, nil
}
