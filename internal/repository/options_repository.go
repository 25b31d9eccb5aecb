package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/database"
	"github.com/voxpoll/voxpoll-backend/internal/models"
)

// OptionsRepository manages the options document attached to each poll.
type OptionsRepository struct {
	collection *mongo.Collection
}

func NewOptionsRepository(c *database.Collections) *OptionsRepository {
	return &OptionsRepository{collection: c.Options}
}

// Create inserts the options document for a new poll.
func (r *OptionsRepository) Create(ctx context.Context, pollID primitive.ObjectID, opts []models.Option) error {
	doc := models.PollOptions{PollID: pollID, Options: opts}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert options: %v: %w", err, apperrors.ErrDataStore)
	}
	return nil
}

// GetByPollID returns a poll's options document.
func (r *OptionsRepository) GetByPollID(ctx context.Context, pollID primitive.ObjectID) (*models.PollOptions, error) {
	var doc models.PollOptions
	err := r.collection.FindOne(ctx, bson.M{"poll_id": pollID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("options for poll %s: %w", pollID.Hex(), apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find options %s: %v: %w", pollID.Hex(), err, apperrors.ErrDataStore)
	}
	return &doc, nil
}

// AddOption pushes a new option onto the poll's options list.
func (r *OptionsRepository) AddOption(ctx context.Context, pollID primitive.ObjectID, option models.Option) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"poll_id": pollID},
		bson.M{"$push": bson.M{"options": option}})
	if err != nil {
		return fmt.Errorf("push option: %v: %w", err, apperrors.ErrDataStore)
	}
	return nil
}

// RemoveOption pulls the option with the given text from the poll.
func (r *OptionsRepository) RemoveOption(ctx context.Context, pollID primitive.ObjectID, optionText string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"poll_id": pollID},
		bson.M{"$pull": bson.M{"options": bson.M{"option_text": optionText}}})
	if err != nil {
		return fmt.Errorf("pull option: %v: %w", err, apperrors.ErrDataStore)
	}
	return nil
}

// IncOptionVotes adjusts the vote count of one option by delta.
func (r *OptionsRepository) IncOptionVotes(ctx context.Context, pollID primitive.ObjectID, optionText string, delta int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"poll_id": pollID, "options.option_text": optionText},
		bson.M{"$inc": bson.M{"options.$.votes": delta}})
	if err != nil {
		return fmt.Errorf("inc option votes: %v: %w", err, apperrors.ErrDataStore)
	}
	return nil
}
