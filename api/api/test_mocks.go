/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 */

package api

import (
	"context"

	"worldcup-pickems/api/shared"
	"worldcup-pickems/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the store interface for testing
type MockStore struct {
	// Storage for mock data
	Roster      []*shared.Group
	Knockout    []*shared.KnockoutMatch
	Predictions map[string]store.Prediction
	Leaderboard []store.LeaderboardEntry

	// Error injection for testing error paths
	StoreRosterError            error
	FetchRosterError            error
	StoreKnockoutStateError     error
	FetchKnockoutStateError     error
	StoreUserPredictionError    error
	GetUserPredictionError      error
	GetAllUserPredictionsError  error
	StoreLeaderboardError       error
	FetchLeaderboardFromDBError error

	Tournament string
	Round      string
	Database   interface{ Name() string }
}

var _ store.Interface = (*MockStore)(nil)

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// NewMockStore creates a new MockStore with default values
func NewMockStore(tournament string, round string) *MockStore {
	return &MockStore{
		Predictions: make(map[string]store.Prediction),
		Tournament:  tournament,
		Round:       round,
		Database:    &mockDatabase{name: "test_db"},
	}
}

// StoreRoster mock implementation
func (m *MockStore) StoreRoster(groups []*shared.Group) error {
	if m.StoreRosterError != nil {
		return m.StoreRosterError
	}
	m.Roster = groups
	return nil
}

// FetchRoster mock implementation
func (m *MockStore) FetchRoster() ([]*shared.Group, error) {
	if m.FetchRosterError != nil {
		return nil, m.FetchRosterError
	}
	if m.Roster == nil {
		return nil, mongo.ErrNoDocuments
	}
	return m.Roster, nil
}

// StoreKnockoutState mock implementation
func (m *MockStore) StoreKnockoutState(matches []*shared.KnockoutMatch) error {
	if m.StoreKnockoutStateError != nil {
		return m.StoreKnockoutStateError
	}
	m.Knockout = matches
	return nil
}

// FetchKnockoutState mock implementation
func (m *MockStore) FetchKnockoutState() ([]*shared.KnockoutMatch, error) {
	if m.FetchKnockoutStateError != nil {
		return nil, m.FetchKnockoutStateError
	}
	return m.Knockout, nil
}

// StoreUserPrediction mock implementation
func (m *MockStore) StoreUserPrediction(userID string, prediction store.Prediction) error {
	if m.StoreUserPredictionError != nil {
		return m.StoreUserPredictionError
	}
	m.Predictions[userID] = prediction
	return nil
}

// GetUserPrediction mock implementation
func (m *MockStore) GetUserPrediction(userID string) (store.Prediction, error) {
	if m.GetUserPredictionError != nil {
		return store.Prediction{}, m.GetUserPredictionError
	}
	pred, ok := m.Predictions[userID]
	if !ok {
		return store.Prediction{}, mongo.ErrNoDocuments
	}
	return pred, nil
}

// GetAllUserPredictions mock implementation
func (m *MockStore) GetAllUserPredictions() ([]store.Prediction, error) {
	if m.GetAllUserPredictionsError != nil {
		return nil, m.GetAllUserPredictionsError
	}

	var predictions []store.Prediction
	for _, pred := range m.Predictions {
		predictions = append(predictions, pred)
	}

	if len(predictions) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	return predictions, nil
}

// StoreLeaderboard mock implementation
func (m *MockStore) StoreLeaderboard(leaderboard store.Leaderboard) error {
	if m.StoreLeaderboardError != nil {
		return m.StoreLeaderboardError
	}
	m.Leaderboard = leaderboard.Entries
	return nil
}

// FetchLeaderboardFromDB mock implementation
func (m *MockStore) FetchLeaderboardFromDB() ([]store.LeaderboardEntry, error) {
	if m.FetchLeaderboardFromDBError != nil {
		return nil, m.FetchLeaderboardFromDBError
	}
	return m.Leaderboard, nil
}

// Implement getter methods for store.Interface
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return m.Database
}

func (m *MockStore) GetTournament() string {
	return m.Tournament
}

func (m *MockStore) GetRound() string {
	return m.Round
}

// mockClient implements minimal client interface
type mockClient struct{}

func (mc *mockClient) Disconnect(ctx context.Context) error {
	return nil
}

func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}
