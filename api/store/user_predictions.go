/* user_predictions.go
 * Contains the methods for interacting with the user_predictions collection.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoreUserPrediction stores or updates a user's prediction for the current round.
// Preconditions: Receives the userID and the Prediction to persist
// Postconditions: The user's prediction document is inserted or updated, or an error
// is returned if the operation was unsuccessful
func (s *Store) StoreUserPrediction(userID string, userPrediction Prediction) error {
	var result Prediction
	err := s.Collections.Predictions.FindOne(context.TODO(), bson.M{"userid": userID, "round": userPrediction.Round}).Decode(&result)
	notFound := errors.Is(err, mongo.ErrNoDocuments)

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing prediction failed: %w", err)
	}

	if notFound {
		_, err := s.Collections.Predictions.InsertOne(context.TODO(), userPrediction)
		if err != nil {
			return fmt.Errorf("failed to insert new user prediction: %w", err)
		}
		return nil
	}

	filter := bson.M{"userid": userID, "round": userPrediction.Round}
	update := bson.M{"$set": userPrediction}
	_, err = s.Collections.Predictions.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to update existing user prediction: %w", err)
	}
	return nil
}

// GetUserPrediction does a DB lookup and gets the prediction for a user.
// Postconditions: Returns the user's prediction if it exists, or an error if it occurs
func (s *Store) GetUserPrediction(userID string) (Prediction, error) {
	opts := options.FindOne()

	var result Prediction
	err := s.Collections.Predictions.FindOne(context.TODO(), bson.M{"userid": userID, "round": s.Round}, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Prediction{}, err
		}
		return Prediction{}, fmt.Errorf("error fetching prediction from db: %w", err)
	}

	return result, nil
}

// GetAllUserPredictions gets the predictions of every user for the current round.
// Used in leaderboard calculations.
func (s *Store) GetAllUserPredictions() ([]Prediction, error) {
	filter := bson.D{{Key: "round", Value: s.Round}}

	cursor, err := s.Collections.Predictions.Find(context.TODO(), filter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching predictions from db: %w", err)
	}

	var results []Prediction
	if err = cursor.All(context.TODO(), &results); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of predictions: %w", err)
	}

	return results, nil
}
