/* test_helpers.go
 * Contains test helper functions for store package tests. These need a reachable
 * MongoDB instance (real or in-memory) and are used by integration tests only.
 */

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMockStore creates a Store instance for testing purposes.
func NewMockStore(dbName string, mongoURI string) (*Store, error) {
	return NewStore(dbName, mongoURI, "WorldCup2026", "group_stage")
}

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	s, err := NewMockStore("test_worldcup", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if s.Client != nil {
			s.Database.Drop(context.TODO())
			s.Client.Disconnect(context.TODO())
		}
	}

	return s, cleanup, nil
}

// CreateTestClient creates a test MongoDB client.
func CreateTestClient(mongoURI string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	return client, nil
}
