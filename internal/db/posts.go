package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bmohak/echo/internal/models"
)

// PostCounts aggregates interaction totals for a post
type PostCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
	Replies  int64 `json:"replies"`
	Reposts  int64 `json:"reposts"`
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post with its author and parent
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author.College").
		Preload("ParentPost.Author.College").
		Preload("Quote.Author.College").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Delete removes a post together with its interaction and notification rows.
// Reply and quote edges pointing at the post are cleared rather than deleted.
func (r *PostRepository) Delete(ctx context.Context, postID int64) error {
	return r.Transaction(ctx, func(tx *Repository) error {
		if err := tx.db.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("post_id = ?", postID).Delete(&models.Dislike{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("post_id = ?", postID).Delete(&models.Repost{}).Error; err != nil {
			return err
		}
		if err := tx.db.Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.db.Model(&models.Post{}).Where("parent_post_id = ?", postID).
			Update("parent_post_id", nil).Error; err != nil {
			return err
		}
		if err := tx.db.Model(&models.Post{}).Where("quote_id = ?", postID).
			Update("quote_id", nil).Error; err != nil {
			return err
		}
		return tx.db.Delete(&models.Post{}, postID).Error
	})
}

// visibleScope restricts posts to what viewerID may see in shared surfaces:
// ANYONE-scoped posts, the viewer's own posts, plus FOLLOWED-scoped posts
// from authors the viewer follows. MENTIONED posts never appear here.
func (r *PostRepository) visibleScope(viewerID int64) *gorm.DB {
	followed := r.db.Table("echo_follows").
		Select("followee_id").
		Where("follower_id = ?", viewerID)
	return r.db.Where(
		"echo_posts.privacy = ? OR echo_posts.author_id = ? OR (echo_posts.privacy = ? AND echo_posts.author_id IN (?))",
		models.PostPrivacyAnyone, viewerID, models.PostPrivacyFollowed, followed,
	)
}

// ListTimeline returns the newest visible top-level posts for the viewer
func (r *PostRepository) ListTimeline(ctx context.Context, viewerID int64, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("parent_post_id IS NULL").
		Where(r.visibleScope(viewerID)).
		Order("created_at DESC").
		Limit(limit).
		Preload("Author.College").
		Preload("Quote.Author.College").
		Find(&posts).Error
	return posts, err
}

// ListReplies returns replies to a post, oldest first
func (r *PostRepository) ListReplies(ctx context.Context, postID int64) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("parent_post_id = ?", postID).
		Order("created_at ASC").
		Preload("Author.College").
		Find(&posts).Error
	return posts, err
}

// ListByAuthor returns an author's posts, newest first. With repliesOnly the
// result is restricted to replies, otherwise to top-level posts.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64, repliesOnly bool, limit int) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID)
	if repliesOnly {
		q = q.Where("parent_post_id IS NOT NULL").Preload("ParentPost.Author.College")
	} else {
		q = q.Where("parent_post_id IS NULL")
	}
	var posts []models.Post
	err := q.Order("created_at DESC").
		Limit(limit).
		Preload("Author.College").
		Find(&posts).Error
	return posts, err
}

// CountByAuthor returns an author's total post count
func (r *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// Search finds ANYONE-scoped posts matching the query, newest first
func (r *PostRepository) Search(ctx context.Context, query string, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("privacy = ?", models.PostPrivacyAnyone).
		Where("text ILIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Preload("Author.College").
		Find(&posts).Error
	return posts, err
}

// CountsFor batch-loads interaction counts for a set of posts
func (r *PostRepository) CountsFor(ctx context.Context, postIDs []int64) (map[int64]PostCounts, error) {
	counts := make(map[int64]PostCounts, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	type row struct {
		PostID int64
		Count  int64
	}

	load := func(model interface{}, column string, apply func(*PostCounts, int64)) error {
		var rows []row
		err := r.db.WithContext(ctx).Model(model).
			Select(column + " AS post_id, COUNT(*) AS count").
			Where(column + " IN ?", postIDs).
			Group(column).
			Find(&rows).Error
		if err != nil {
			return err
		}
		for _, rr := range rows {
			c := counts[rr.PostID]
			apply(&c, rr.Count)
			counts[rr.PostID] = c
		}
		return nil
	}

	if err := load(&models.Like{}, "post_id", func(c *PostCounts, n int64) { c.Likes = n }); err != nil {
		return nil, err
	}
	if err := load(&models.Dislike{}, "post_id", func(c *PostCounts, n int64) { c.Dislikes = n }); err != nil {
		return nil, err
	}
	if err := load(&models.Repost{}, "post_id", func(c *PostCounts, n int64) { c.Reposts = n }); err != nil {
		return nil, err
	}
	if err := load(&models.Post{}, "parent_post_id", func(c *PostCounts, n int64) { c.Replies = n }); err != nil {
		return nil, err
	}
	return counts, nil
}
