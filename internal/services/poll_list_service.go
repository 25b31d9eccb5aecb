package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/models"
	"github.com/voxpoll/voxpoll-backend/internal/pagination"
)

// enrichmentConcurrency caps the concurrent action lookups per page.
const enrichmentConcurrency = 8

// actionsProjection restricts the fields the list path reads from a user's
// action document.
var actionsProjection = bson.M{"_id": 0, "has_voted": 1, "has_shared": 1, "has_bookmarked": 1}

// PollLister is the query surface of the poll list repository.
type PollLister interface {
	ByKeyword(ctx context.Context, keyword string, viewerID *int64) ([]bson.M, error)
	ByAuthor(ctx context.Context, authorID int64, viewerID *int64) ([]bson.M, error)
	ByVoter(ctx context.Context, voterID int64, viewerID *int64) ([]bson.M, error)
	BySharer(ctx context.Context, sharerID int64, viewerID *int64) ([]bson.M, error)
	ByBookmarker(ctx context.Context, bookmarkerID int64, viewerID *int64) ([]bson.M, error)
	ByCategory(ctx context.Context, category string, viewerID *int64) ([]bson.M, error)
}

// OwnerProvider resolves public owner projections. Implementations may batch
// or cache; the service always asks for a whole page at once.
type OwnerProvider interface {
	GetOwners(ctx context.Context, userIDs []int64) (map[int64]models.OwnerProfile, error)
}

// ActionsGetter reads a viewer's action flags for one poll.
type ActionsGetter interface {
	GetUserActions(ctx context.Context, pollID primitive.ObjectID, userID int64, projection bson.M) (bson.M, error)
}

// PollListService composes the list pipeline: query, paginate, then enrich
// each page item with the owner profile and the viewer's action flags.
type PollListService struct {
	lists   PollLister
	owners  OwnerProvider
	actions ActionsGetter
}

func NewPollListService(lists PollLister, owners OwnerProvider, actions ActionsGetter) *PollListService {
	return &PollListService{
		lists:   lists,
		owners:  owners,
		actions: actions,
	}
}

// ByKeyword lists polls matching a keyword in title or description.
func (s *PollListService) ByKeyword(ctx context.Context, keyword string, page, pageSize int, viewerID *int64) (*models.PollPage, error) {
	return s.list(ctx, page, pageSize, viewerID, func(ctx context.Context) ([]bson.M, error) {
		return s.lists.ByKeyword(ctx, keyword, viewerID)
	})
}

// ByAuthor lists a user's own polls.
func (s *PollListService) ByAuthor(ctx context.Context, authorID int64, page, pageSize int, viewerID *int64) (*models.PollPage, error) {
	return s.list(ctx, page, pageSize, viewerID, func(ctx context.Context) ([]bson.M, error) {
		return s.lists.ByAuthor(ctx, authorID, viewerID)
	})
}

// ByVoter lists polls a user voted in.
func (s *PollListService) ByVoter(ctx context.Context, voterID int64, page, pageSize int, viewerID *int64) (*models.PollPage, error) {
	return s.list(ctx, page, pageSize, viewerID, func(ctx context.Context) ([]bson.M, error) {
		return s.lists.ByVoter(ctx, voterID, viewerID)
	})
}

// BySharer lists polls a user shared.
func (s *PollListService) BySharer(ctx context.Context, sharerID int64, page, pageSize int, viewerID *int64) (*models.PollPage, error) {
	return s.list(ctx, page, pageSize, viewerID, func(ctx context.Context) ([]bson.M, error) {
		return s.lists.BySharer(ctx, sharerID, viewerID)
	})
}

// ByBookmarker lists polls a user bookmarked.
func (s *PollListService) ByBookmarker(ctx context.Context, bookmarkerID int64, page, pageSize int, viewerID *int64) (*models.PollPage, error) {
	return s.list(ctx, page, pageSize, viewerID, func(ctx context.Context) ([]bson.M, error) {
		return s.lists.ByBookmarker(ctx, bookmarkerID, viewerID)
	})
}

// ByCategory lists polls in a category.
func (s *PollListService) ByCategory(ctx context.Context, category string, page, pageSize int, viewerID *int64) (*models.PollPage, error) {
	return s.list(ctx, page, pageSize, viewerID, func(ctx context.Context) ([]bson.M, error) {
		return s.lists.ByCategory(ctx, category, viewerID)
	})
}

func (s *PollListService) list(ctx context.Context, page, pageSize int, viewerID *int64, query func(context.Context) ([]bson.M, error)) (*models.PollPage, error) {
	raw, err := query(ctx)
	if err != nil {
		return nil, err
	}

	plain := ToPlain(raw)

	pageResult, err := pagination.Paginate(plain, page, pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.enrich(ctx, pageResult.Items, viewerID)
	if err != nil {
		return nil, err
	}

	return &models.PollPage{
		Page:       pageResult.Page,
		PageSize:   pageResult.PageSize,
		TotalCount: pageResult.TotalCount,
		HasNext:    pageResult.HasNext,
		Items:      items,
	}, nil
}

// enrich assembles the list items for one page. Owner profiles are
// batch-loaded in a single query; the per-item action lookups fan out with
// bounded concurrency. Items keep the order of the paginated slice. A
// missing owner or malformed record aborts the whole request; no partial
// results are returned.
func (s *PollListService) enrich(ctx context.Context, polls []map[string]interface{}, viewerID *int64) ([]models.ListItem, error) {
	items := make([]models.ListItem, len(polls))
	if len(polls) == 0 {
		return items, nil
	}

	simplified := make([]map[string]interface{}, len(polls))
	ownerIDs := make([]int64, len(polls))
	pollIDs := make([]primitive.ObjectID, len(polls))

	distinct := make([]int64, 0, len(polls))
	seen := make(map[int64]bool, len(polls))
	for i, raw := range polls {
		pollID, err := pollObjectID(raw)
		if err != nil {
			return nil, err
		}

		poll, err := SimplifyPoll(raw)
		if err != nil {
			return nil, err
		}

		ownerID, err := pollOwnerID(poll)
		if err != nil {
			return nil, err
		}

		simplified[i] = poll
		ownerIDs[i] = ownerID
		pollIDs[i] = pollID
		if !seen[ownerID] {
			seen[ownerID] = true
			distinct = append(distinct, ownerID)
		}
	}

	owners, err := s.owners.GetOwners(ctx, distinct)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichmentConcurrency)

	for i := range simplified {
		i := i
		g.Go(func() error {
			owner, ok := owners[ownerIDs[i]]
			if !ok {
				return fmt.Errorf("owner %d: %w", ownerIDs[i], apperrors.ErrNotFound)
			}

			actions := map[string]interface{}{}
			if viewerID != nil {
				result, err := s.actions.GetUserActions(gctx, pollIDs[i], *viewerID, actionsProjection)
				if err != nil {
					return err
				}
				for k, v := range result {
					actions[k] = v
				}
			}

			items[i] = models.ListItem{
				Poll:                     simplified[i],
				UserProfile:              owner,
				AuthenticatedUserActions: actions,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
