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

// PollRepository manages single poll documents.
type PollRepository struct {
	collection *mongo.Collection
}

func NewPollRepository(c *database.Collections) *PollRepository {
	return &PollRepository{collection: c.Polls}
}

// Create inserts a poll document and returns its id.
func (r *PollRepository) Create(ctx context.Context, poll *models.Poll) (primitive.ObjectID, error) {
	res, err := r.collection.InsertOne(ctx, poll)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert poll: %v: %w", err, apperrors.ErrDataStore)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert poll: unexpected inserted id type: %w", apperrors.ErrDataStore)
	}
	return id, nil
}

// GetByID returns one poll document.
func (r *PollRepository) GetByID(ctx context.Context, pollID primitive.ObjectID) (*models.Poll, error) {
	var poll models.Poll
	err := r.collection.FindOne(ctx, bson.M{"_id": pollID}).Decode(&poll)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("poll %s: %w", pollID.Hex(), apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find poll %s: %v: %w", pollID.Hex(), err, apperrors.ErrDataStore)
	}
	return &poll, nil
}

// GetRawByID returns one poll as a raw document, for the list/detail path
// that feeds SimplifyPoll.
func (r *PollRepository) GetRawByID(ctx context.Context, pollID primitive.ObjectID) (bson.M, error) {
	var poll bson.M
	err := r.collection.FindOne(ctx, bson.M{"_id": pollID}).Decode(&poll)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("poll %s: %w", pollID.Hex(), apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find poll %s: %v: %w", pollID.Hex(), err, apperrors.ErrDataStore)
	}
	return poll, nil
}

// AddVoter bumps the vote tally and records the voter id.
func (r *PollRepository) AddVoter(ctx context.Context, pollID primitive.ObjectID, userID int64) error {
	update := bson.M{
		"$inc":      bson.M{"total_votes": 1},
		"$addToSet": bson.M{"voters": userID},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": pollID}, update); err != nil {
		return fmt.Errorf("add voter: %v: %w", err, apperrors.ErrDataStore)
	}
	return nil
}

// RemoveVoter reverses AddVoter when a vote is retracted.
func (r *PollRepository) RemoveVoter(ctx context.Context, pollID primitive.ObjectID, userID int64) error {
	update := bson.M{
		"$inc":  bson.M{"total_votes": -1},
		"$pull": bson.M{"voters": userID},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": pollID}, update); err != nil {
		return fmt.Errorf("remove voter: %v: %w", err, apperrors.ErrDataStore)
	}
	return nil
}

// CategoryStats is one row of the per-category aggregation.
type CategoryStats struct {
	Category   string `bson:"category" json:"category"`
	TotalPolls int64  `bson:"total_polls" json:"total_polls"`
	TotalVotes int64  `bson:"total_votes" json:"total_votes"`
}

// AggregateCategories groups public polls per category with poll and vote
// totals.
func (r *PollRepository) AggregateCategories(ctx context.Context) ([]CategoryStats, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"privacy": models.PrivacyPublic}},
		{"$group": bson.M{
			"_id":         "$category",
			"total_polls": bson.M{"$sum": 1},
			"total_votes": bson.M{"$sum": "$total_votes"},
		}},
		{"$project": bson.M{
			"_id":         0,
			"category":    "$_id",
			"total_polls": 1,
			"total_votes": 1,
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %v: %w", err, apperrors.ErrDataStore)
	}
	defer cursor.Close(ctx)

	var stats []CategoryStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode category stats: %v: %w", err, apperrors.ErrDataStore)
	}
	return stats, nil
}
