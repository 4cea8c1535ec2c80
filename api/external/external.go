/* external.go
 * Contains the logic used to fetch data from the world rankings feed, and return the
 * results to the higher level functions. Requests are rate limited so repeated roster
 * refreshes stay inside the feed's usage policy.
 */

package external

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

// One request per second with a small burst is well under the feed's limits.
var limiter = rate.NewLimiter(rate.Limit(1), 3)

// FetchWorldRankings fetches the rankings feed and returns a team -> entry map.
// Preconditions: Receives the feed URL (e.g. https://example.org/rankings.json)
// Postconditions: Returns a map keyed by team name, or an error if it occurs
func FetchWorldRankings(ctx context.Context, url string) (map[string]RankingEntry, error) {
	body, err := getJSON(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("error fetching rankings feed: %w", err)
	}

	entries, err := ParseRankings(body)
	if err != nil {
		return nil, fmt.Errorf("error parsing rankings feed: %w", err)
	}

	byTeam := make(map[string]RankingEntry, len(entries))
	for _, e := range entries {
		byTeam[e.Team] = e
	}
	return byTeam, nil
}

// getJSON performs a rate-limited GET and returns the raw body, transparently
// decoding gzip responses.
func getJSON(ctx context.Context, url string) ([]byte, error) {
	if err := limiter.Wait(ctx); err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Headers to apply with feed requirements
	request.Header.Set("User-Agent", "WorldCupRankingsFetcher/1.0")
	request.Header.Set("Accept-Encoding", "gzip")

	client := &http.Client{}
	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch rankings, status code: %d", response.StatusCode)
	}

	var reader io.Reader = response.Body
	if response.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
