package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voxpoll/voxpoll-backend/internal/models"
)

func TestVisibilityFilterAnonymous(t *testing.T) {
	filter := visibilityFilter(nil)

	assert.Equal(t, bson.M{"privacy": models.PrivacyPublic}, filter)
}

func TestVisibilityFilterViewer(t *testing.T) {
	viewerID := int64(42)
	filter := visibilityFilter(&viewerID)

	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)

	assert.Equal(t, bson.M{"privacy": models.PrivacyPublic}, or[0])
	assert.Equal(t, bson.M{
		"privacy":            models.PrivacyPrivate,
		"created_by.user_id": int64(42),
	}, or[1])
}

// friends_only polls must never match either branch of the predicate.
func TestVisibilityFilterExcludesFriendsOnly(t *testing.T) {
	viewerID := int64(7)
	filter := visibilityFilter(&viewerID)

	or := filter["$or"].([]bson.M)
	for _, branch := range or {
		assert.NotEqual(t, models.PrivacyFriendsOnly, branch["privacy"])
	}
}

func TestKeywordFilterCaseInsensitive(t *testing.T) {
	filter := keywordFilter("art")

	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)

	titleRe, ok := or[0]["title"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "art", titleRe.Pattern)
	assert.Equal(t, "i", titleRe.Options)

	descRe, ok := or[1]["description"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "art", descRe.Pattern)
}

func TestKeywordFilterQuotesRegexSyntax(t *testing.T) {
	filter := keywordFilter("c++ (beta)")

	or := filter["$or"].([]bson.M)
	titleRe := or[0]["title"].(primitive.Regex)

	assert.Equal(t, `c\+\+ \(beta\)`, titleRe.Pattern)
}
