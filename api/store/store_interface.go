/* store_interface.go
 * Contains the Store interface for dependency injection and testing.
 */

package store

import (
	"context"

	"worldcup-pickems/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	StoreRoster(groups []*shared.Group) error
	FetchRoster() ([]*shared.Group, error)
	StoreKnockoutState(matches []*shared.KnockoutMatch) error
	FetchKnockoutState() ([]*shared.KnockoutMatch, error)
	StoreUserPrediction(userID string, prediction Prediction) error
	GetUserPrediction(userID string) (Prediction, error)
	GetAllUserPredictions() ([]Prediction, error)
	StoreLeaderboard(leaderboard Leaderboard) error
	FetchLeaderboardFromDB() ([]LeaderboardEntry, error)

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetTournament() string
	GetRound() string
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetTournament returns the tournament name
func (s *Store) GetTournament() string {
	return s.Tournament
}

// GetRound returns the tournament round name
func (s *Store) GetRound() string {
	return s.Round
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
