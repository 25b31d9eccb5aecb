package repository

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/database"
	"github.com/voxpoll/voxpoll-backend/internal/models"
)

// listSort orders every list query: newest first, _id as a stable tiebreak.
var listSort = bson.D{{Key: "creation_date", Value: -1}, {Key: "_id", Value: -1}}

// PollListRepository issues the poll list queries against MongoDB. Each query
// applies the visibility rule at query time: private polls only ever reach
// their owner.
type PollListRepository struct {
	polls       *mongo.Collection
	userActions *mongo.Collection
}

func NewPollListRepository(c *database.Collections) *PollListRepository {
	return &PollListRepository{
		polls:       c.Polls,
		userActions: c.UserActions,
	}
}

// visibilityFilter builds the privacy predicate for a viewer. Anonymous
// viewers only see public polls; a signed-in viewer additionally sees their
// own private polls. friends_only polls never match a list query.
func visibilityFilter(viewerID *int64) bson.M {
	if viewerID == nil {
		return bson.M{"privacy": models.PrivacyPublic}
	}
	return bson.M{"$or": []bson.M{
		{"privacy": models.PrivacyPublic},
		{"privacy": models.PrivacyPrivate, "created_by.user_id": *viewerID},
	}}
}

// keywordFilter matches title or description case-insensitively. The keyword
// is quoted so user input cannot inject regex syntax.
func keywordFilter(keyword string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	return bson.M{"$or": []bson.M{
		{"title": re},
		{"description": re},
	}}
}

func (r *PollListRepository) find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	findOptions := options.Find().SetSort(listSort)

	cursor, err := r.polls.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find polls: %v: %w", err, apperrors.ErrDataStore)
	}
	defer cursor.Close(ctx)

	var polls []bson.M
	if err := cursor.All(ctx, &polls); err != nil {
		return nil, fmt.Errorf("decode polls: %v: %w", err, apperrors.ErrDataStore)
	}
	return polls, nil
}

// ByKeyword returns polls whose title or description contains the keyword.
func (r *PollListRepository) ByKeyword(ctx context.Context, keyword string, viewerID *int64) ([]bson.M, error) {
	filter := bson.M{"$and": []bson.M{
		keywordFilter(keyword),
		visibilityFilter(viewerID),
	}}
	return r.find(ctx, filter)
}

// ByAuthor returns the polls created by the given user. When the viewer is
// the author, their private polls are included by the visibility predicate.
func (r *PollListRepository) ByAuthor(ctx context.Context, authorID int64, viewerID *int64) ([]bson.M, error) {
	filter := bson.M{"$and": []bson.M{
		{"created_by.user_id": authorID},
		visibilityFilter(viewerID),
	}}
	return r.find(ctx, filter)
}

// ByVoter returns polls the given user has voted in.
func (r *PollListRepository) ByVoter(ctx context.Context, voterID int64, viewerID *int64) ([]bson.M, error) {
	filter := bson.M{"$and": []bson.M{
		{"voters": voterID},
		visibilityFilter(viewerID),
	}}
	return r.find(ctx, filter)
}

// ByCategory returns polls in the given category.
func (r *PollListRepository) ByCategory(ctx context.Context, category string, viewerID *int64) ([]bson.M, error) {
	filter := bson.M{"$and": []bson.M{
		{"category": category},
		visibilityFilter(viewerID),
	}}
	return r.find(ctx, filter)
}

// BySharer returns polls the given user has shared.
func (r *PollListRepository) BySharer(ctx context.Context, sharerID int64, viewerID *int64) ([]bson.M, error) {
	return r.byActionFlag(ctx, sharerID, "has_shared", viewerID)
}

// ByBookmarker returns polls the given user has bookmarked.
func (r *PollListRepository) ByBookmarker(ctx context.Context, bookmarkerID int64, viewerID *int64) ([]bson.M, error) {
	return r.byActionFlag(ctx, bookmarkerID, "has_bookmarked", viewerID)
}

// byActionFlag resolves the poll ids flagged in user_actions, then fetches
// the polls with the usual visibility rule.
func (r *PollListRepository) byActionFlag(ctx context.Context, userID int64, flag string, viewerID *int64) ([]bson.M, error) {
	findOptions := options.Find().SetProjection(bson.M{"poll_id": 1})

	cursor, err := r.userActions.Find(ctx, bson.M{"user_id": userID, flag: true}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find user actions: %v: %w", err, apperrors.ErrDataStore)
	}
	defer cursor.Close(ctx)

	var actions []struct {
		PollID primitive.ObjectID `bson:"poll_id"`
	}
	if err := cursor.All(ctx, &actions); err != nil {
		return nil, fmt.Errorf("decode user actions: %v: %w", err, apperrors.ErrDataStore)
	}

	pollIDs := make([]primitive.ObjectID, 0, len(actions))
	for _, a := range actions {
		pollIDs = append(pollIDs, a.PollID)
	}
	if len(pollIDs) == 0 {
		return []bson.M{}, nil
	}

	filter := bson.M{"$and": []bson.M{
		{"_id": bson.M{"$in": pollIDs}},
		visibilityFilter(viewerID),
	}}
	return r.find(ctx, filter)
}
