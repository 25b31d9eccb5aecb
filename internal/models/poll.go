package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Privacy values a poll can carry. FriendsOnly exists in stored data but has
// no enforcement rule yet; reads of friends_only polls by non-owners fail
// with ErrNotImplemented until the product defines the semantics.
const (
	PrivacyPublic      = "public"
	PrivacyPrivate     = "private"
	PrivacyFriendsOnly = "friends_only"
)

// CreatedBy identifies the poll (or option) author inside a document.
type CreatedBy struct {
	UserID   int64  `bson:"user_id" json:"user_id"`
	Username string `bson:"username" json:"username"`
}

type Poll struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Category     string             `bson:"category" json:"category"`
	Privacy      string             `bson:"privacy" json:"privacy"`
	CreationDate time.Time          `bson:"creation_date" json:"creation_date"`
	CreatedBy    CreatedBy          `bson:"created_by" json:"created_by"`
	TotalVotes   int64              `bson:"total_votes" json:"total_votes"`
	Voters       []int64            `bson:"voters" json:"voters"`
}

// Option is one entry in a poll's options document.
type Option struct {
	CreatedBy  CreatedBy `bson:"created_by" json:"created_by"`
	OptionText string    `bson:"option_text" json:"option_text"`
	Votes      int64     `bson:"votes" json:"votes"`
}

// PollOptions is the options document, one per poll.
type PollOptions struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PollID  primitive.ObjectID `bson:"poll_id" json:"poll_id"`
	Options []Option           `bson:"options" json:"options"`
}

// UserActions records what one user has done on one poll.
type UserActions struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PollID        primitive.ObjectID `bson:"poll_id" json:"poll_id"`
	UserID        int64              `bson:"user_id" json:"user_id"`
	HasVoted      bool               `bson:"has_voted" json:"has_voted"`
	HasShared     bool               `bson:"has_shared" json:"has_shared"`
	HasBookmarked bool               `bson:"has_bookmarked" json:"has_bookmarked"`
	Vote          string             `bson:"vote,omitempty" json:"vote,omitempty"`
}

// ListItem is one enriched entry of a poll list response. Poll is the
// simplified poll mapping; AuthenticatedUserActions is always present and is
// empty (not null) when the request had no viewer or the viewer never acted
// on the poll.
type ListItem struct {
	Poll                     map[string]interface{} `json:"poll"`
	UserProfile              OwnerProfile           `json:"user_profile"`
	AuthenticatedUserActions map[string]interface{} `json:"authenticated_user_actions"`
}

// PollPage is the paginated list response shape.
type PollPage struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int        `json:"total_count"`
	HasNext    bool       `json:"has_next"`
	Items      []ListItem `json:"items"`
}
