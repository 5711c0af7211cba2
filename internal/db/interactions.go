package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bmohak/echo/internal/models"
)

// InteractionRepository provides like/dislike/repost database operations
type InteractionRepository struct {
	*Repository
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(repo *Repository) *InteractionRepository {
	return &InteractionRepository{Repository: repo}
}

// GetLike retrieves a like row for a (post, user) pair
func (r *InteractionRepository) GetLike(ctx context.Context, postID, userID int64) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &like, nil
}

// CreateLike inserts a like row
func (r *InteractionRepository) CreateLike(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).Create(&models.Like{PostID: postID, UserID: userID}).Error
}

// DeleteLike removes any like row for the pair
func (r *InteractionRepository) DeleteLike(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error
}

// GetDislike retrieves a dislike row for a (post, user) pair
func (r *InteractionRepository) GetDislike(ctx context.Context, postID, userID int64) (*models.Dislike, error) {
	var dislike models.Dislike
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&dislike).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dislike, nil
}

// CreateDislike inserts a dislike row
func (r *InteractionRepository) CreateDislike(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).Create(&models.Dislike{PostID: postID, UserID: userID}).Error
}

// DeleteDislike removes any dislike row for the pair
func (r *InteractionRepository) DeleteDislike(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Dislike{}).Error
}

// GetRepost retrieves a repost row for a (post, user) pair
func (r *InteractionRepository) GetRepost(ctx context.Context, postID, userID int64) (*models.Repost, error) {
	var repost models.Repost
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&repost).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &repost, nil
}

// CreateRepost inserts a repost row
func (r *InteractionRepository) CreateRepost(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).Create(&models.Repost{PostID: postID, UserID: userID}).Error
}

// DeleteRepost removes any repost row for the pair
func (r *InteractionRepository) DeleteRepost(ctx context.Context, postID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Repost{}).Error
}

// ListRecentReposts returns the newest reposts by users other than viewerID,
// each carrying its underlying post, restricted to posts visible to the viewer.
func (r *InteractionRepository) ListRecentReposts(ctx context.Context, viewerID int64, limit int) ([]models.Repost, error) {
	followed := r.db.Table("echo_follows").
		Select("followee_id").
		Where("follower_id = ?", viewerID)

	var reposts []models.Repost
	err := r.db.WithContext(ctx).
		Joins("JOIN echo_posts ON echo_posts.id = echo_reposts.post_id").
		Where("echo_reposts.user_id <> ?", viewerID).
		Where("echo_posts.privacy = ? OR echo_posts.author_id = ? OR (echo_posts.privacy = ? AND echo_posts.author_id IN (?))",
			models.PostPrivacyAnyone, viewerID, models.PostPrivacyFollowed, followed).
		Order("echo_reposts.created_at DESC").
		Limit(limit).
		Preload("Post.Author.College").
		Preload("Post.Quote.Author.College").
		Preload("User").
		Find(&reposts).Error
	return reposts, err
}

// ListRepostsByUser returns a user's reposts, newest first
func (r *InteractionRepository) ListRepostsByUser(ctx context.Context, userID int64, limit int) ([]models.Repost, error) {
	var reposts []models.Repost
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Preload("Post.Author.College").
		Preload("User").
		Find(&reposts).Error
	return reposts, err
}

// LikedPostIDs returns which of the given posts the user has liked
func (r *InteractionRepository) LikedPostIDs(ctx context.Context, userID int64, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	return ids, err
}

// DislikedPostIDs returns which of the given posts the user has disliked
func (r *InteractionRepository) DislikedPostIDs(ctx context.Context, userID int64, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Dislike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	return ids, err
}

// RepostedPostIDs returns which of the given posts the user has reposted
func (r *InteractionRepository) RepostedPostIDs(ctx context.Context, userID int64, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Repost{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	return ids, err
}
