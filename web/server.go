//go:build !test

/* server.go
 * Contains the HTTP server Start function that listens for incoming connections.
 * Excluded from test coverage as it blocks and requires real network binding.
 */

package web

import (
	"log"
	"net/http"
	"time"
)

// Start initializes and starts the HTTP server with the given configuration
func Start(cfg Config) error {
	s := &Server{
		api:         cfg.API,
		rankingsURL: cfg.RankingsURL,
	}

	mux := http.NewServeMux()
	// bind handler methods that have access to s.api
	mux.HandleFunc("/standings", s.StandingsHandler)
	mux.HandleFunc("/odds", s.OddsHandler)
	mux.HandleFunc("/thirds", s.ThirdsHandler)
	mux.HandleFunc("/bracket", s.BracketHandler)
	mux.HandleFunc("/leaderboard", s.LeaderboardHandler)
	mux.HandleFunc("/webhooks/rankings", s.RankingsWebhookHandler)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Println("HTTP server listening on", cfg.Addr)
	return srv.ListenAndServe()
}
