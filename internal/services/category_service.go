package services

import (
	"context"
	"time"

	"github.com/voxpoll/voxpoll-backend/internal/repository"
)

// Category is one entry of the fixed category list.
type Category struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// Categories is the fixed set of poll categories. The value is what poll
// documents store; the text is the display label.
var Categories = []Category{
	{Text: "General", Value: "general"},
	{Text: "Music", Value: "music"},
	{Text: "Movies & TV", Value: "movies_tv"},
	{Text: "Gaming", Value: "gaming"},
	{Text: "Sports", Value: "sports"},
	{Text: "Science", Value: "science"},
	{Text: "Technology", Value: "technology"},
	{Text: "Art", Value: "art"},
	{Text: "Food", Value: "food"},
	{Text: "Travel", Value: "travel"},
	{Text: "Books", Value: "books"},
	{Text: "Politics", Value: "politics"},
}

// ValidCategory reports whether value is one of the fixed categories.
func ValidCategory(value string) bool {
	for _, c := range Categories {
		if c.Value == value {
			return true
		}
	}
	return false
}

// CategoryData is the category list annotated with aggregate counts.
type CategoryData struct {
	Text       string `json:"text"`
	Value      string `json:"value"`
	TotalPolls int64  `json:"total_polls"`
	TotalVotes int64  `json:"total_votes"`
}

const (
	categoriesCacheKey = "categories:data"
	categoriesCacheTTL = 24 * time.Hour
)

// CategoryService serves the category list and its aggregate counts, cached
// in Redis because the aggregation scans the whole polls collection.
type CategoryService struct {
	polls *repository.PollRepository
	cache *CacheService
}

func NewCategoryService(polls *repository.PollRepository, cache *CacheService) *CategoryService {
	return &CategoryService{polls: polls, cache: cache}
}

// Data returns every category with its total poll and vote counts.
// Categories with no polls yet report zeros.
func (s *CategoryService) Data(ctx context.Context) ([]CategoryData, error) {
	var cached []CategoryData
	if hit, err := s.cache.Get(ctx, categoriesCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	stats, err := s.polls.AggregateCategories(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]repository.CategoryStats, len(stats))
	for _, stat := range stats {
		byCategory[stat.Category] = stat
	}

	data := make([]CategoryData, 0, len(Categories))
	for _, c := range Categories {
		entry := CategoryData{Text: c.Text, Value: c.Value}
		if stat, ok := byCategory[c.Value]; ok {
			entry.TotalPolls = stat.TotalPolls
			entry.TotalVotes = stat.TotalVotes
		}
		data = append(data, entry)
	}

	s.cache.SetWithTTL(ctx, categoriesCacheKey, data, categoriesCacheTTL)
	return data, nil
}
