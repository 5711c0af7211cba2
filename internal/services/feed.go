package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/models"
	"github.com/bmohak/echo/pkg/telemetry"
)

// AnnotatedPost is a post decorated with the viewer's interaction state and
// aggregate counts.
type AnnotatedPost struct {
	Post     models.Post `json:"post"`
	Liked    bool        `json:"liked"`
	Disliked bool        `json:"disliked"`
	Reposted bool        `json:"reposted"`
	Likes    int64       `json:"likes"`
	Dislikes int64       `json:"dislikes"`
	Replies  int64       `json:"replies"`
	Reposts  int64       `json:"reposts"`
}

// TimelineItem is a feed entry: either a post in its own right or a post
// rebroadcast by someone the viewer can see. Timestamp is the ordering key,
// the repost time when RepostedBy is set.
type TimelineItem struct {
	AnnotatedPost
	RepostedBy *models.User `json:"reposted_by,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

// FeedService assembles home timelines and annotated post lists.
type FeedService struct {
	posts        *db.PostRepository
	interactions *db.InteractionRepository
	limit        int
}

func NewFeedService(posts *db.PostRepository, interactions *db.InteractionRepository, limit int) *FeedService {
	return &FeedService{posts: posts, interactions: interactions, limit: limit}
}

// HomeTimeline merges visible top-level posts with recent visible reposts,
// newest first, and annotates each entry with the viewer's state.
func (s *FeedService) HomeTimeline(ctx context.Context, viewerID int64) ([]TimelineItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.home_timeline")
	defer span.End()

	posts, err := s.posts.ListTimeline(ctx, viewerID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	reposts, err := s.interactions.ListRecentReposts(ctx, viewerID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list reposts: %w", err)
	}

	items := mergeTimeline(posts, reposts, s.limit)
	if err := s.annotateItems(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Annotate decorates a post list for the viewer in one batched pass.
func (s *FeedService) Annotate(ctx context.Context, viewerID int64, posts []models.Post) ([]AnnotatedPost, error) {
	annotated := lo.Map(posts, func(p models.Post, _ int) AnnotatedPost {
		return AnnotatedPost{Post: p}
	})
	if err := s.annotate(ctx, viewerID, annotatedRefs(annotated)); err != nil {
		return nil, err
	}
	return annotated, nil
}

// AnnotateReposts turns repost rows into timeline items ordered by repost
// time, annotated for the viewer.
func (s *FeedService) AnnotateReposts(ctx context.Context, viewerID int64, reposts []models.Repost) ([]TimelineItem, error) {
	items := lo.FilterMap(reposts, func(r models.Repost, _ int) (TimelineItem, bool) {
		if r.Post == nil {
			return TimelineItem{}, false
		}
		return TimelineItem{
			AnnotatedPost: AnnotatedPost{Post: *r.Post},
			RepostedBy:    r.User,
			Timestamp:     r.CreatedAt,
		}, true
	})
	if err := s.annotateItems(ctx, viewerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *FeedService) annotateItems(ctx context.Context, viewerID int64, items []TimelineItem) error {
	refs := make([]*AnnotatedPost, len(items))
	for i := range items {
		refs[i] = &items[i].AnnotatedPost
	}
	return s.annotate(ctx, viewerID, refs)
}

// annotate fills viewer state and counts across the whole batch with four
// queries, regardless of batch size.
func (s *FeedService) annotate(ctx context.Context, viewerID int64, posts []*AnnotatedPost) error {
	if len(posts) == 0 {
		return nil
	}
	ctx, span := telemetry.StartSpan(ctx, "feed.annotate")
	defer span.End()

	ids := lo.Uniq(lo.Map(posts, func(p *AnnotatedPost, _ int) int64 { return p.Post.ID }))

	counts, err := s.posts.CountsFor(ctx, ids)
	if err != nil {
		return fmt.Errorf("post counts: %w", err)
	}
	liked, err := s.interactions.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("liked set: %w", err)
	}
	disliked, err := s.interactions.DislikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("disliked set: %w", err)
	}
	reposted, err := s.interactions.RepostedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return fmt.Errorf("reposted set: %w", err)
	}

	likedSet := lo.Keyify(liked)
	dislikedSet := lo.Keyify(disliked)
	repostedSet := lo.Keyify(reposted)
	for _, p := range posts {
		id := p.Post.ID
		if c, ok := counts[id]; ok {
			p.Likes, p.Dislikes, p.Replies, p.Reposts = c.Likes, c.Dislikes, c.Replies, c.Reposts
		}
		_, p.Liked = likedSet[id]
		_, p.Disliked = dislikedSet[id]
		_, p.Reposted = repostedSet[id]
	}
	return nil
}

// mergeTimeline interleaves posts and reposts by effective timestamp, newest
// first. A post that also appears as a repost keeps both entries; the repost
// entry carries the reposter.
func mergeTimeline(posts []models.Post, reposts []models.Repost, limit int) []TimelineItem {
	items := make([]TimelineItem, 0, len(posts)+len(reposts))
	for _, p := range posts {
		items = append(items, TimelineItem{
			AnnotatedPost: AnnotatedPost{Post: p},
			Timestamp:     p.CreatedAt,
		})
	}
	for _, r := range reposts {
		if r.Post == nil {
			continue
		}
		items = append(items, TimelineItem{
			AnnotatedPost: AnnotatedPost{Post: *r.Post},
			RepostedBy:    r.User,
			Timestamp:     r.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func annotatedRefs(posts []AnnotatedPost) []*AnnotatedPost {
	refs := make([]*AnnotatedPost, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	return refs
}
