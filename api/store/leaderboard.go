/* leaderboard.go
 * Contains the methods for interacting with the leaderboards collection.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FetchLeaderboardFromDB returns the leaderboard entries for the current round.
// Postconditions: Returns a slice of LeaderboardEntry, or an error if it occurs
func (s *Store) FetchLeaderboardFromDB() ([]LeaderboardEntry, error) {
	opts := options.FindOne()

	var res Leaderboard
	err := s.Collections.Leaderboard.FindOne(context.TODO(), bson.D{{Key: "round", Value: s.Round}}, opts).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch leaderboard from database: %w", err)
	}

	return res.Entries, nil
}

// StoreLeaderboard updates the leaderboard stored in the DB.
// Postconditions: The leaderboard document for this round is inserted or updated,
// or an error is returned
func (s *Store) StoreLeaderboard(leaderboard Leaderboard) error {
	if len(leaderboard.Entries) == 0 {
		return fmt.Errorf("leaderboard is empty")
	}

	var res Leaderboard
	err := s.Collections.Leaderboard.FindOne(context.TODO(), bson.D{{Key: "round", Value: s.Round}}).Decode(&res)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing record failed: %w", err)
	}

	log.Println("updating leaderboard in db")
	if notFound {
		_, err := s.Collections.Leaderboard.InsertOne(context.TODO(), leaderboard)
		if err != nil {
			return fmt.Errorf("leaderboard insert failed: %w", err)
		}
		return nil
	}

	filter := bson.M{"round": s.Round}
	update := bson.D{{Key: "$set", Value: leaderboard}}

	_, err = s.Collections.Leaderboard.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("leaderboard update failed: %w", err)
	}
	return nil
}
