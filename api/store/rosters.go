/* rosters.go
 * Contains the methods for interacting with the rosters and knockout_state collections.
 * Both hold one document per tournament; writes are upserts keyed by tournament name.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"worldcup-pickems/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoreRoster upserts the tournament roster document.
// Preconditions: Receives the 12 groups to persist
// Postconditions: The rosters collection holds the given groups for this tournament,
// or an error is returned
func (s *Store) StoreRoster(groups []*shared.Group) error {
	if len(groups) == 0 {
		return fmt.Errorf("roster is empty")
	}
	doc := RosterDoc{Tournament: s.Tournament, Groups: groups}
	filter := bson.M{"tournament": s.Tournament}
	update := bson.M{"$set": bson.M{"tournament": doc.Tournament, "groups": doc.Groups}}
	opts := options.Update().SetUpsert(true)

	_, err := s.Collections.Rosters.UpdateOne(context.TODO(), filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to store roster: %w", err)
	}
	return nil
}

// FetchRoster returns the persisted roster for this tournament.
// Postconditions: Returns the stored groups, mongo.ErrNoDocuments when none exist,
// or a wrapped error for any other failure
func (s *Store) FetchRoster() ([]*shared.Group, error) {
	var doc RosterDoc
	err := s.Collections.Rosters.FindOne(context.TODO(), bson.M{"tournament": s.Tournament}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching roster from db: %w", err)
	}
	return doc.Groups, nil
}

// StoreKnockoutState upserts the externally entered knockout results.
func (s *Store) StoreKnockoutState(matches []*shared.KnockoutMatch) error {
	filter := bson.M{"tournament": s.Tournament}
	update := bson.M{"$set": bson.M{"tournament": s.Tournament, "matches": matches}}
	opts := options.Update().SetUpsert(true)

	_, err := s.Collections.Knockout.UpdateOne(context.TODO(), filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to store knockout state: %w", err)
	}
	return nil
}

// FetchKnockoutState returns the entered knockout results, or an empty slice when the
// bracket has no entered results yet.
func (s *Store) FetchKnockoutState() ([]*shared.KnockoutMatch, error) {
	var doc KnockoutDoc
	err := s.Collections.Knockout.FindOne(context.TODO(), bson.M{"tournament": s.Tournament}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching knockout state from db: %w", err)
	}
	return doc.Matches, nil
}
