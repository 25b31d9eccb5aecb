package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/models"
	"github.com/voxpoll/voxpoll-backend/internal/repository"
)

// CreatePollInput carries the fields of a new poll.
type CreatePollInput struct {
	Title       string
	Description string
	Category    string
	Privacy     string
	Options     []string
}

// PollService manages poll authoring and option management.
type PollService struct {
	polls   *repository.PollRepository
	options *repository.OptionsRepository
}

func NewPollService(polls *repository.PollRepository, options *repository.OptionsRepository) *PollService {
	return &PollService{
		polls:   polls,
		options: options,
	}
}

// checkPollReadable enforces the privacy rule for direct poll access.
// friends_only has no defined semantics yet; non-owners get ErrNotImplemented
// instead of a silent guess.
func checkPollReadable(poll *models.Poll, viewerID *int64) error {
	isOwner := viewerID != nil && poll.CreatedBy.UserID == *viewerID

	switch poll.Privacy {
	case models.PrivacyPrivate:
		if !isOwner {
			return fmt.Errorf("this poll is private: %w", apperrors.ErrPermissionDenied)
		}
	case models.PrivacyFriendsOnly:
		if !isOwner {
			return fmt.Errorf("friends_only polls: %w", apperrors.ErrNotImplemented)
		}
	}
	return nil
}

// Create validates and stores a new poll with its options document.
func (s *PollService) Create(ctx context.Context, input CreatePollInput, creator models.CreatedBy) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", fmt.Errorf("title is required: %w", apperrors.ErrInvalidArgument)
	}
	if !ValidCategory(input.Category) {
		return "", fmt.Errorf("unknown category %q: %w", input.Category, apperrors.ErrInvalidArgument)
	}

	privacy := input.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}
	switch privacy {
	case models.PrivacyPublic, models.PrivacyPrivate, models.PrivacyFriendsOnly:
	default:
		return "", fmt.Errorf("unknown privacy %q: %w", input.Privacy, apperrors.ErrInvalidArgument)
	}

	opts := make([]models.Option, 0, len(input.Options))
	seen := make(map[string]bool, len(input.Options))
	for _, text := range input.Options {
		text = strings.TrimSpace(text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		opts = append(opts, models.Option{
			CreatedBy:  creator,
			OptionText: text,
			Votes:      0,
		})
	}
	if len(opts) < 2 {
		return "", fmt.Errorf("at least two distinct options are required: %w", apperrors.ErrInvalidArgument)
	}

	poll := &models.Poll{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Category:     input.Category,
		Privacy:      privacy,
		CreationDate: time.Now().UTC(),
		CreatedBy:    creator,
		TotalVotes:   0,
		Voters:       []int64{},
	}

	pollID, err := s.polls.Create(ctx, poll)
	if err != nil {
		return "", err
	}
	if err := s.options.Create(ctx, pollID, opts); err != nil {
		return "", err
	}

	return pollID.Hex(), nil
}

// Get returns one poll if the viewer may see it.
func (s *PollService) Get(ctx context.Context, pollID string, viewerID *int64) (*models.Poll, error) {
	oid, err := parsePollID(pollID)
	if err != nil {
		return nil, err
	}

	poll, err := s.polls.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := checkPollReadable(poll, viewerID); err != nil {
		return nil, err
	}
	return poll, nil
}

// GetOptions returns a poll's options along with whether the viewer owns it.
func (s *PollService) GetOptions(ctx context.Context, pollID string, viewerID *int64) (bool, *models.PollOptions, error) {
	oid, err := parsePollID(pollID)
	if err != nil {
		return false, nil, err
	}

	poll, err := s.polls.GetByID(ctx, oid)
	if err != nil {
		return false, nil, err
	}
	if err := checkPollReadable(poll, viewerID); err != nil {
		return false, nil, err
	}

	doc, err := s.options.GetByPollID(ctx, oid)
	if err != nil {
		return false, nil, err
	}

	isOwner := viewerID != nil && poll.CreatedBy.UserID == *viewerID
	return isOwner, doc, nil
}

// AddOption appends a new option to a poll the viewer can read. Duplicate
// option text is rejected.
func (s *PollService) AddOption(ctx context.Context, pollID string, viewer models.CreatedBy, optionText string) error {
	oid, _, doc, err := s.loadPollWithOptions(ctx, pollID, &viewer.UserID)
	if err != nil {
		return err
	}

	optionText = strings.TrimSpace(optionText)
	if optionText == "" {
		return fmt.Errorf("option text is required: %w", apperrors.ErrInvalidArgument)
	}
	if optionExists(doc, optionText) {
		return fmt.Errorf("option already exists: %w", apperrors.ErrInvalidArgument)
	}

	return s.options.AddOption(ctx, oid, models.Option{
		CreatedBy:  viewer,
		OptionText: optionText,
		Votes:      0,
	})
}

// RemoveOption deletes an option; only the poll owner may do this.
func (s *PollService) RemoveOption(ctx context.Context, pollID string, viewerID int64, optionText string) error {
	oid, poll, doc, err := s.loadPollWithOptions(ctx, pollID, &viewerID)
	if err != nil {
		return err
	}

	if !optionExists(doc, optionText) {
		return fmt.Errorf("option does not exist: %w", apperrors.ErrInvalidArgument)
	}
	if poll.CreatedBy.UserID != viewerID {
		return fmt.Errorf("only the poll owner can remove options: %w", apperrors.ErrPermissionDenied)
	}

	return s.options.RemoveOption(ctx, oid, optionText)
}

func (s *PollService) loadPollWithOptions(ctx context.Context, pollID string, viewerID *int64) (primitive.ObjectID, *models.Poll, *models.PollOptions, error) {
	oid, err := parsePollID(pollID)
	if err != nil {
		return primitive.NilObjectID, nil, nil, err
	}

	poll, err := s.polls.GetByID(ctx, oid)
	if err != nil {
		return primitive.NilObjectID, nil, nil, err
	}
	if err := checkPollReadable(poll, viewerID); err != nil {
		return primitive.NilObjectID, nil, nil, err
	}

	doc, err := s.options.GetByPollID(ctx, oid)
	if err != nil {
		return primitive.NilObjectID, nil, nil, err
	}
	return oid, poll, doc, nil
}

func optionExists(doc *models.PollOptions, optionText string) bool {
	for _, o := range doc.Options {
		if o.OptionText == optionText {
			return true
		}
	}
	return false
}

func parsePollID(pollID string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(pollID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid poll id %q: %w", pollID, apperrors.ErrInvalidArgument)
	}
	return oid, nil
}
