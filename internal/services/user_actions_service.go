package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/models"
	"github.com/voxpoll/voxpoll-backend/internal/repository"
)

// UserActionsService handles the vote/share/bookmark flows that mutate the
// documents the list pipeline reads.
type UserActionsService struct {
	polls   *repository.PollRepository
	options *repository.OptionsRepository
	actions *repository.UserActionsRepository
}

func NewUserActionsService(polls *repository.PollRepository, options *repository.OptionsRepository, actions *repository.UserActionsRepository) *UserActionsService {
	return &UserActionsService{
		polls:   polls,
		options: options,
		actions: actions,
	}
}

// CastVote records the user's vote for one option. Re-voting moves the vote
// to the new option; the poll tally only grows on the first vote.
func (s *UserActionsService) CastVote(ctx context.Context, pollID string, userID int64, optionText string) error {
	oid, _, err := s.loadReadablePoll(ctx, pollID, userID)
	if err != nil {
		return err
	}

	doc, err := s.options.GetByPollID(ctx, oid)
	if err != nil {
		return err
	}
	if !optionExists(doc, optionText) {
		return fmt.Errorf("option does not exist: %w", apperrors.ErrInvalidArgument)
	}

	prev, err := s.actions.Get(ctx, oid, userID)
	if err != nil {
		return err
	}

	switch {
	case prev != nil && prev.HasVoted && prev.Vote == optionText:
		return fmt.Errorf("vote already cast for this option: %w", apperrors.ErrInvalidArgument)
	case prev != nil && prev.HasVoted:
		// Moving the vote: release the previous option first.
		if err := s.options.IncOptionVotes(ctx, oid, prev.Vote, -1); err != nil {
			return err
		}
	default:
		if err := s.polls.AddVoter(ctx, oid, userID); err != nil {
			return err
		}
	}

	if err := s.options.IncOptionVotes(ctx, oid, optionText, 1); err != nil {
		return err
	}
	return s.actions.SetVote(ctx, oid, userID, optionText)
}

// RetractVote removes the user's vote entirely.
func (s *UserActionsService) RetractVote(ctx context.Context, pollID string, userID int64) error {
	oid, _, err := s.loadReadablePoll(ctx, pollID, userID)
	if err != nil {
		return err
	}

	prev, err := s.actions.Get(ctx, oid, userID)
	if err != nil {
		return err
	}
	if prev == nil || !prev.HasVoted {
		return fmt.Errorf("no vote to retract: %w", apperrors.ErrInvalidArgument)
	}

	if err := s.options.IncOptionVotes(ctx, oid, prev.Vote, -1); err != nil {
		return err
	}
	if err := s.polls.RemoveVoter(ctx, oid, userID); err != nil {
		return err
	}
	return s.actions.ClearVote(ctx, oid, userID)
}

// SetShared toggles the user's shared flag for a poll.
func (s *UserActionsService) SetShared(ctx context.Context, pollID string, userID int64, shared bool) error {
	oid, _, err := s.loadReadablePoll(ctx, pollID, userID)
	if err != nil {
		return err
	}
	return s.actions.SetShared(ctx, oid, userID, shared)
}

// SetBookmarked toggles the user's bookmarked flag for a poll.
func (s *UserActionsService) SetBookmarked(ctx context.Context, pollID string, userID int64, bookmarked bool) error {
	oid, _, err := s.loadReadablePoll(ctx, pollID, userID)
	if err != nil {
		return err
	}
	return s.actions.SetBookmarked(ctx, oid, userID, bookmarked)
}

func (s *UserActionsService) loadReadablePoll(ctx context.Context, pollID string, userID int64) (primitive.ObjectID, *models.Poll, error) {
	oid, err := parsePollID(pollID)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}

	poll, err := s.polls.GetByID(ctx, oid)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	if err := checkPollReadable(poll, &userID); err != nil {
		return primitive.NilObjectID, nil, err
	}
	return oid, poll, nil
}
