package services

import (
	"context"
	"fmt"

	"github.com/bmohak/echo/pkg/telemetry"
)

// Thread is a root post with its direct replies, all annotated for the
// viewer in one batched pass. Parent is set when the root is itself a
// reply, annotated like everything else.
type Thread struct {
	Post    AnnotatedPost   `json:"post"`
	Parent  *AnnotatedPost  `json:"parent,omitempty"`
	Replies []AnnotatedPost `json:"replies"`
}

// GetThread loads a post, its parent when it has one, and its replies.
// Every post in the thread carries the same viewer annotations.
func (s *FeedService) GetThread(ctx context.Context, viewerID, postID int64) (*Thread, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.thread")
	defer span.End()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	replies, err := s.posts.ListReplies(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	thread := &Thread{
		Post:    AnnotatedPost{Post: *post},
		Replies: make([]AnnotatedPost, len(replies)),
	}
	refs := make([]*AnnotatedPost, 0, len(replies)+2)
	refs = append(refs, &thread.Post)
	if post.ParentPost != nil {
		thread.Parent = &AnnotatedPost{Post: *post.ParentPost}
		refs = append(refs, thread.Parent)
	}
	for i, reply := range replies {
		thread.Replies[i] = AnnotatedPost{Post: reply}
		refs = append(refs, &thread.Replies[i])
	}
	if err := s.annotate(ctx, viewerID, refs); err != nil {
		return nil, err
	}
	return thread, nil
}

// GetReplies loads only the annotated replies of a post.
func (s *FeedService) GetReplies(ctx context.Context, viewerID, postID int64) ([]AnnotatedPost, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	replies, err := s.posts.ListReplies(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return s.Annotate(ctx, viewerID, replies)
}

// AuthorPosts lists a user's posts or replies, annotated for the viewer.
func (s *FeedService) AuthorPosts(ctx context.Context, viewerID, authorID int64, repliesOnly bool) ([]AnnotatedPost, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID, repliesOnly, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list author posts: %w", err)
	}
	return s.Annotate(ctx, viewerID, posts)
}

// AuthorReposts lists a user's reposts as timeline items.
func (s *FeedService) AuthorReposts(ctx context.Context, viewerID, authorID int64) ([]TimelineItem, error) {
	reposts, err := s.interactions.ListRepostsByUser(ctx, authorID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list author reposts: %w", err)
	}
	return s.AnnotateReposts(ctx, viewerID, reposts)
}
