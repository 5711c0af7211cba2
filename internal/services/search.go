package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/models"
	"github.com/bmohak/echo/pkg/telemetry"
)

const searchLimit = 20

// SearchResults groups matches by entity kind. Only the kinds asked for
// are populated.
type SearchResults struct {
	Users    []*models.User    `json:"users,omitempty"`
	Posts    []AnnotatedPost   `json:"posts,omitempty"`
	Colleges []*models.College `json:"colleges,omitempty"`
}

// SearchService queries users, public posts, and colleges.
type SearchService struct {
	repo *db.Repository
	feed *FeedService
}

func NewSearchService(repo *db.Repository, feed *FeedService) *SearchService {
	return &SearchService{repo: repo, feed: feed}
}

// Search runs a substring query. kind is "users", "posts", "colleges", or
// empty for all three. Post matches are annotated for the viewer.
func (s *SearchService) Search(ctx context.Context, viewerID int64, query, kind string) (*SearchResults, error) {
	ctx, span := telemetry.StartSpan(ctx, "search.query")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidInput)
	}

	switch kind {
	case "", "users", "posts", "colleges":
	default:
		return nil, fmt.Errorf("%w: unknown search type %q", ErrInvalidInput, kind)
	}

	results := &SearchResults{}
	all := kind == ""

	if all || kind == "users" {
		users, err := db.NewUserRepository(s.repo).Search(ctx, query, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		results.Users = users
	}
	if all || kind == "posts" {
		posts, err := db.NewPostRepository(s.repo).Search(ctx, query, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search posts: %w", err)
		}
		annotated, err := s.feed.Annotate(ctx, viewerID, posts)
		if err != nil {
			return nil, err
		}
		results.Posts = annotated
	}
	if all || kind == "colleges" {
		colleges, err := db.NewCollegeRepository(s.repo).Search(ctx, query, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search colleges: %w", err)
		}
		results.Colleges = colleges
	}
	return results, nil
}
