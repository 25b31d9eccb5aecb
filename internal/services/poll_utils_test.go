package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
)

func rawPoll(id primitive.ObjectID) bson.M {
	return bson.M{
		"_id":           id,
		"title":         "Best indie game of the year",
		"description":   "vote below",
		"category":      "gaming",
		"privacy":       "public",
		"creation_date": primitive.NewDateTimeFromTime(time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)),
		"created_by":    bson.M{"user_id": int64(7), "username": "sam"},
		"total_votes":   int64(12),
		"voters":        primitive.A{int64(7), int64(9)},
	}
}

func TestSimplifyPoll(t *testing.T) {
	id := primitive.NewObjectID()
	poll, err := SimplifyPoll(rawPoll(id))
	require.NoError(t, err)

	assert.Equal(t, id.Hex(), poll["id"])
	assert.NotContains(t, poll, "_id")

	assert.Equal(t, "2024-05-02T10:30:00Z", poll["creation_date"])

	createdBy, ok := poll["created_by"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(7), createdBy["user_id"])
	assert.Equal(t, "sam", createdBy["username"])

	voters, ok := poll["voters"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{int64(7), int64(9)}, voters)

	// Numeric fields pass through untouched.
	assert.Equal(t, int64(12), poll["total_votes"])
}

func TestSimplifyPollMissingFields(t *testing.T) {
	for _, field := range []string{"_id", "category", "created_by"} {
		raw := rawPoll(primitive.NewObjectID())
		delete(raw, field)

		_, err := SimplifyPoll(raw)
		assert.ErrorIs(t, err, apperrors.ErrMalformedRecord, "missing %s", field)
	}
}

func TestSimplifyPollMalformedID(t *testing.T) {
	raw := rawPoll(primitive.NewObjectID())
	raw["_id"] = 12345

	_, err := SimplifyPoll(raw)
	assert.ErrorIs(t, err, apperrors.ErrMalformedRecord)
}

func TestToPlain(t *testing.T) {
	id := primitive.NewObjectID()
	records := []bson.M{rawPoll(id), rawPoll(primitive.NewObjectID())}

	plain := ToPlain(records)
	require.Len(t, plain, 2)

	// Structural conversion only: values keep their driver types.
	assert.Equal(t, id, plain[0]["_id"])
	assert.Equal(t, "gaming", plain[0]["category"])
}

func TestToPlainEmpty(t *testing.T) {
	assert.Empty(t, ToPlain(nil))
	assert.NotNil(t, ToPlain(nil))
}

func TestPollOwnerID(t *testing.T) {
	poll, err := SimplifyPoll(rawPoll(primitive.NewObjectID()))
	require.NoError(t, err)

	ownerID, err := pollOwnerID(poll)
	require.NoError(t, err)
	assert.Equal(t, int64(7), ownerID)
}

func TestPollOwnerIDInt32(t *testing.T) {
	// The driver may decode small ids as int32.
	record := map[string]interface{}{
		"created_by": bson.M{"user_id": int32(3), "username": "kit"},
	}

	ownerID, err := pollOwnerID(record)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ownerID)
}
