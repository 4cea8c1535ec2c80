package web

import (
	"worldcup-pickems/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *api.API
	// RankingsURL is the feed fetched when a rankings webhook arrives
	RankingsURL string
}

// Server is the HTTP server that exposes the simulator over JSON endpoints
type Server struct {
	api         *api.API
	rankingsURL string
}

// RankingsEvent is the payload posted to the rankings webhook endpoint
type RankingsEvent struct {
	Source string `json:"source"`
	Event  string `json:"event"`
}

// StandingsResponse is the JSON shape of one group table
type StandingsResponse struct {
	Group string         `json:"group"`
	Teams []TeamStanding `json:"teams"`
}

// TeamStanding is one row of a group table
type TeamStanding struct {
	Position     int    `json:"position"`
	Name         string `json:"name"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	Points       int    `json:"points"`
}

// OddsResponse carries formatted per-team stage odds
type OddsResponse struct {
	Iterations int      `json:"iterations"`
	Odds       []string `json:"odds"`
}

// ThirdsResponse carries formatted third-place qualification odds
type ThirdsResponse struct {
	Thirds []string `json:"thirds"`
}

// BracketMatchResponse is the JSON shape of one knockout match in a projected bracket
type BracketMatchResponse struct {
	Id        int    `json:"id"`
	Stage     string `json:"stage"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
	HomePens  *int   `json:"home_pens,omitempty"`
	AwayPens  *int   `json:"away_pens,omitempty"`
	Winner    string `json:"winner,omitempty"`
}

// BracketResponse is one projected completion of the knockout bracket
type BracketResponse struct {
	Matches  []BracketMatchResponse `json:"matches"`
	Champion string                 `json:"champion,omitempty"`
}
