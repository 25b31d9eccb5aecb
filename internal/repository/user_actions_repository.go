package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/database"
	"github.com/voxpoll/voxpoll-backend/internal/models"
)

// UserActionsRepository reads and writes the per-user action documents
// (vote/share/bookmark state, one document per user and poll).
type UserActionsRepository struct {
	collection *mongo.Collection
}

func NewUserActionsRepository(c *database.Collections) *UserActionsRepository {
	return &UserActionsRepository{collection: c.UserActions}
}

// GetUserActions returns the projected action fields for (pollID, userID).
// A missing document is the common case and returns (nil, nil), not an error.
func (r *UserActionsRepository) GetUserActions(ctx context.Context, pollID primitive.ObjectID, userID int64, projection bson.M) (bson.M, error) {
	findOptions := options.FindOne().SetProjection(projection)

	var result bson.M
	err := r.collection.FindOne(ctx, bson.M{"poll_id": pollID, "user_id": userID}, findOptions).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user actions: %v: %w", err, apperrors.ErrDataStore)
	}
	return result, nil
}

// Get returns the full action document, or nil when the user never acted on
// the poll.
func (r *UserActionsRepository) Get(ctx context.Context, pollID primitive.ObjectID, userID int64) (*models.UserActions, error) {
	var actions models.UserActions
	err := r.collection.FindOne(ctx, bson.M{"poll_id": pollID, "user_id": userID}).Decode(&actions)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user actions: %v: %w", err, apperrors.ErrDataStore)
	}
	return &actions, nil
}

// SetVote records the viewer's vote on a poll, creating the action document
// if needed.
func (r *UserActionsRepository) SetVote(ctx context.Context, pollID primitive.ObjectID, userID int64, vote string) error {
	return r.upsert(ctx, pollID, userID, bson.M{"has_voted": true, "vote": vote})
}

// ClearVote removes the viewer's vote from the action document.
func (r *UserActionsRepository) ClearVote(ctx context.Context, pollID primitive.ObjectID, userID int64) error {
	return r.upsert(ctx, pollID, userID, bson.M{"has_voted": false, "vote": ""})
}

// SetShared toggles the shared flag.
func (r *UserActionsRepository) SetShared(ctx context.Context, pollID primitive.ObjectID, userID int64, shared bool) error {
	return r.upsert(ctx, pollID, userID, bson.M{"has_shared": shared})
}

// SetBookmarked toggles the bookmarked flag.
func (r *UserActionsRepository) SetBookmarked(ctx context.Context, pollID primitive.ObjectID, userID int64, bookmarked bool) error {
	return r.upsert(ctx, pollID, userID, bson.M{"has_bookmarked": bookmarked})
}

func (r *UserActionsRepository) upsert(ctx context.Context, pollID primitive.ObjectID, userID int64, fields bson.M) error {
	filter := bson.M{"poll_id": pollID, "user_id": userID}
	update := bson.M{
		"$set":         fields,
		"$setOnInsert": bson.M{"poll_id": pollID, "user_id": userID},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user actions: %v: %w", err, apperrors.ErrDataStore)
	}
	return nil
}
