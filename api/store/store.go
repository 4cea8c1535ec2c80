/* store.go
 * Contains the Store struct and NewStore function. The methods for this package are split
 * across rosters.go, user_predictions.go and leaderboard.go, one file per collection.
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Tournament  string
	Round       string
	Collections struct {
		Predictions *mongo.Collection
		Rosters     *mongo.Collection
		Knockout    *mongo.Collection
		Leaderboard *mongo.Collection
	}
}

// NewStore initialises the Mongo connection and binds the collections.
// Preconditions: Receives strings containing dbName, mongoURI, tournament and round
// Postconditions: Returns a pointer to the Store object, or an error if it occurs
func NewStore(dbName string, mongoURI string, tournament string, round string) (*Store, error) {
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	if tournament == "" || round == "" {
		return nil, fmt.Errorf("tournament or round cannot be empty")
	}

	s := &Store{
		Client:     client,
		Database:   db,
		Tournament: tournament,
		Round:      round,
	}
	s.Collections.Predictions = db.Collection("user_predictions")
	s.Collections.Rosters = db.Collection("rosters")
	s.Collections.Knockout = db.Collection("knockout_state")
	s.Collections.Leaderboard = db.Collection("leaderboards")
	return s, nil
}
