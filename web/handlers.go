/* handlers.go
 * Contains the JSON endpoint handlers for the simulator. The blocking server
 * startup lives in server.go so these stay testable with httptest.
 */

package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"worldcup-pickems/api/api"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// StandingsHandler serves GET /standings?group=A with the recomputed group table
func (s *Server) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	groupName := r.URL.Query().Get("group")
	if groupName == "" {
		writeError(w, http.StatusBadRequest, "missing group parameter")
		return
	}

	group, err := s.api.GetGroupStandings(groupName)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := StandingsResponse{Group: group.Name}
	for i, t := range group.Teams {
		resp.Teams = append(resp.Teams, TeamStanding{
			Position:     i + 1,
			Name:         t.Name,
			Played:       t.Played,
			Won:          t.Won,
			Drawn:        t.Drawn,
			Lost:         t.Lost,
			GoalsFor:     t.GoalsFor,
			GoalsAgainst: t.GoalsAgainst,
			Points:       t.Points,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// OddsHandler serves GET /odds?iterations=N with per-team stage-reach odds
func (s *Server) OddsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	iterations := api.DefaultIterations
	if raw := r.URL.Query().Get("iterations"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "iterations must be a positive integer")
			return
		}
		iterations = n
	}

	lines, err := s.api.GetStageOdds(iterations)
	if err != nil {
		log.Println("odds simulation failed:", err)
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}
	writeJSON(w, http.StatusOK, OddsResponse{Iterations: iterations, Odds: lines})
}

// ThirdsHandler serves GET /thirds with third-place qualification odds
func (s *Server) ThirdsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	lines, err := s.api.GetThirdPlaceOdds(0)
	if err != nil {
		log.Println("third-place estimation failed:", err)
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}
	writeJSON(w, http.StatusOK, ThirdsResponse{Thirds: lines})
}

// BracketHandler serves GET /bracket with one projected completion of the bracket
func (s *Server) BracketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	outcome, err := s.api.VerifyTournament()
	if err != nil {
		log.Println("bracket resolution failed:", err)
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}

	var resp BracketResponse
	for _, m := range outcome.Knockout {
		match := BracketMatchResponse{
			Id:        m.Id,
			Stage:     string(m.Stage),
			Home:      m.Home.Describe(),
			Away:      m.Away.Describe(),
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			HomePens:  m.HomePens,
			AwayPens:  m.AwayPens,
		}
		if m.Winner != nil {
			match.Winner = m.Winner.Name
		}
		resp.Matches = append(resp.Matches, match)
	}
	if champion := outcome.Champion(); champion != nil {
		resp.Champion = champion.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

// LeaderboardHandler serves GET /leaderboard with the rendered pickems standings
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	response, err := s.api.GetLeaderboard()
	if err != nil {
		log.Println("leaderboard fetch failed:", err)
		writeError(w, http.StatusInternalServerError, "leaderboard fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"leaderboard": response})
}

// RankingsWebhookHandler receives a webhook from the rankings feed used to kick off
// refreshing team strengths and recalculating user scores
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Kicks off the update functions for the roster strengths and leaderboard
func (s *Server) RankingsWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var event RankingsEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Println("failed to decode webhook:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if event.Event != "rankings_updated" {
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Printf("rankings event source=%s event=%s\n", event.Source, event.Event)

	// Kick async pipeline so the webhook response stays fast
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.api.PopulateRankings(ctx, s.rankingsURL); err != nil {
			log.Println("rankings refresh failed:", err)
			return
		}
		if err := s.api.GenerateLeaderboard(); err != nil {
			log.Println("leaderboard regeneration failed:", err)
		}
	}()

	w.WriteHeader(http.StatusOK)
}
