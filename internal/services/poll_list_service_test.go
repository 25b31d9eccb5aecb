package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/models"
)

type fakeLister struct {
	polls []bson.M
	err   error
}

func (f *fakeLister) result() ([]bson.M, error) { return f.polls, f.err }

func (f *fakeLister) ByKeyword(ctx context.Context, keyword string, viewerID *int64) ([]bson.M, error) {
	return f.result()
}
func (f *fakeLister) ByAuthor(ctx context.Context, authorID int64, viewerID *int64) ([]bson.M, error) {
	return f.result()
}
func (f *fakeLister) ByVoter(ctx context.Context, voterID int64, viewerID *int64) ([]bson.M, error) {
	return f.result()
}
func (f *fakeLister) BySharer(ctx context.Context, sharerID int64, viewerID *int64) ([]bson.M, error) {
	return f.result()
}
func (f *fakeLister) ByBookmarker(ctx context.Context, bookmarkerID int64, viewerID *int64) ([]bson.M, error) {
	return f.result()
}
func (f *fakeLister) ByCategory(ctx context.Context, category string, viewerID *int64) ([]bson.M, error) {
	return f.result()
}

type fakeOwners struct {
	owners map[int64]models.OwnerProfile
	calls  [][]int64
}

func (f *fakeOwners) GetOwners(ctx context.Context, userIDs []int64) (map[int64]models.OwnerProfile, error) {
	f.calls = append(f.calls, userIDs)
	result := make(map[int64]models.OwnerProfile, len(userIDs))
	for _, id := range userIDs {
		if owner, ok := f.owners[id]; ok {
			result[id] = owner
		}
	}
	return result, nil
}

type fakeActions struct {
	actions map[string]bson.M
	called  bool
}

func actionKey(pollID primitive.ObjectID, userID int64) string {
	return fmt.Sprintf("%s:%d", pollID.Hex(), userID)
}

func (f *fakeActions) GetUserActions(ctx context.Context, pollID primitive.ObjectID, userID int64, projection bson.M) (bson.M, error) {
	f.called = true
	return f.actions[actionKey(pollID, userID)], nil
}

func listPoll(id primitive.ObjectID, title string, ownerID int64, created time.Time) bson.M {
	return bson.M{
		"_id":           id,
		"title":         title,
		"category":      "art",
		"privacy":       "public",
		"creation_date": primitive.NewDateTimeFromTime(created),
		"created_by":    bson.M{"user_id": ownerID, "username": fmt.Sprintf("user%d", ownerID)},
		"total_votes":   int64(0),
		"voters":        primitive.A{},
	}
}

func newListService(polls []bson.M, owners map[int64]models.OwnerProfile, actions map[string]bson.M) (*PollListService, *fakeOwners, *fakeActions) {
	lister := &fakeLister{polls: polls}
	ownerFake := &fakeOwners{owners: owners}
	actionsFake := &fakeActions{actions: actions}
	return NewPollListService(lister, ownerFake, actionsFake), ownerFake, actionsFake
}

func TestListPreservesOrderAndPaginates(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]primitive.ObjectID, 5)
	polls := make([]bson.M, 5)
	for i := range polls {
		ids[i] = primitive.NewObjectID()
		polls[i] = listPoll(ids[i], fmt.Sprintf("poll %d", i), 1, base.Add(-time.Duration(i)*time.Hour))
	}

	svc, _, _ := newListService(polls, map[int64]models.OwnerProfile{
		1: {Username: "user1", Name: "User One"},
	}, nil)

	page, err := svc.ByCategory(context.Background(), "art", 1, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Equal(t, 5, page.TotalCount)
	assert.True(t, page.HasNext)
	require.Len(t, page.Items, 2)

	// Items keep the repository order: no re-sorting after pagination.
	assert.Equal(t, ids[0].Hex(), page.Items[0].Poll["id"])
	assert.Equal(t, ids[1].Hex(), page.Items[1].Poll["id"])
	assert.Equal(t, "user1", page.Items[0].UserProfile.Username)
}

func TestListNoViewerHasEmptyActions(t *testing.T) {
	polls := []bson.M{
		listPoll(primitive.NewObjectID(), "first", 1, time.Now()),
		listPoll(primitive.NewObjectID(), "second", 1, time.Now()),
	}

	svc, _, actions := newListService(polls, map[int64]models.OwnerProfile{1: {Username: "user1"}}, nil)

	page, err := svc.ByKeyword(context.Background(), "fir", 1, 10, nil)
	require.NoError(t, err)

	for _, item := range page.Items {
		assert.NotNil(t, item.AuthenticatedUserActions)
		assert.Empty(t, item.AuthenticatedUserActions)
	}
	assert.False(t, actions.called, "actions lookup must be skipped without a viewer")
}

func TestListViewerActionsMerged(t *testing.T) {
	votedID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	polls := []bson.M{
		listPoll(votedID, "voted poll", 1, time.Now()),
		listPoll(otherID, "untouched poll", 1, time.Now()),
	}

	viewerID := int64(9)
	svc, _, _ := newListService(polls,
		map[int64]models.OwnerProfile{1: {Username: "user1"}},
		map[string]bson.M{
			actionKey(votedID, viewerID): {"has_voted": true, "has_shared": false, "has_bookmarked": true},
		})

	page, err := svc.ByVoter(context.Background(), viewerID, 1, 10, &viewerID)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	assert.Equal(t, true, page.Items[0].AuthenticatedUserActions["has_voted"])
	assert.Equal(t, true, page.Items[0].AuthenticatedUserActions["has_bookmarked"])
	// No action record means an empty mapping, not an error or null.
	assert.Empty(t, page.Items[1].AuthenticatedUserActions)
}

func TestListOwnersBatchedOncePerPage(t *testing.T) {
	polls := []bson.M{
		listPoll(primitive.NewObjectID(), "a", 1, time.Now()),
		listPoll(primitive.NewObjectID(), "b", 2, time.Now()),
		listPoll(primitive.NewObjectID(), "c", 1, time.Now()),
	}

	svc, owners, _ := newListService(polls, map[int64]models.OwnerProfile{
		1: {Username: "user1"},
		2: {Username: "user2"},
	}, nil)

	_, err := svc.ByCategory(context.Background(), "art", 1, 10, nil)
	require.NoError(t, err)

	require.Len(t, owners.calls, 1, "one batch query per page")
	assert.ElementsMatch(t, []int64{1, 2}, owners.calls[0])
}

func TestListMissingOwnerAbortsRequest(t *testing.T) {
	polls := []bson.M{
		listPoll(primitive.NewObjectID(), "ok", 1, time.Now()),
		listPoll(primitive.NewObjectID(), "orphan", 99, time.Now()),
	}

	svc, _, _ := newListService(polls, map[int64]models.OwnerProfile{1: {Username: "user1"}}, nil)

	page, err := svc.ByCategory(context.Background(), "art", 1, 10, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, page, "no partial results")
}

func TestListMalformedRecordAbortsRequest(t *testing.T) {
	broken := listPoll(primitive.NewObjectID(), "broken", 1, time.Now())
	delete(broken, "category")

	svc, _, _ := newListService([]bson.M{broken}, map[int64]models.OwnerProfile{1: {}}, nil)

	_, err := svc.ByKeyword(context.Background(), "bro", 1, 10, nil)
	assert.ErrorIs(t, err, apperrors.ErrMalformedRecord)
}

func TestListInvalidPageArguments(t *testing.T) {
	svc, _, _ := newListService(nil, nil, nil)

	_, err := svc.ByCategory(context.Background(), "art", 0, 10, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	_, err = svc.ByCategory(context.Background(), "art", 1, 0, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestListPageBeyondRange(t *testing.T) {
	polls := []bson.M{listPoll(primitive.NewObjectID(), "only", 1, time.Now())}
	svc, _, _ := newListService(polls, map[int64]models.OwnerProfile{1: {}}, nil)

	page, err := svc.ByCategory(context.Background(), "art", 4, 10, nil)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalCount)
	assert.False(t, page.HasNext)
}

func TestListIdempotent(t *testing.T) {
	polls := []bson.M{
		listPoll(primitive.NewObjectID(), "a", 1, time.Now()),
		listPoll(primitive.NewObjectID(), "b", 2, time.Now()),
	}
	owners := map[int64]models.OwnerProfile{1: {Username: "user1"}, 2: {Username: "user2"}}

	svc, _, _ := newListService(polls, owners, nil)

	first, err := svc.ByCategory(context.Background(), "art", 1, 10, nil)
	require.NoError(t, err)
	second, err := svc.ByCategory(context.Background(), "art", 1, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
