package db

import (
	"context"
	"time"

	"github.com/bmohak/echo/internal/models"
)

// NotificationRepository provides notification database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// DeleteForInteraction removes notifications produced by an interaction
// toggle, so reverting a like/dislike/repost does not leave a stale inbox row.
func (r *NotificationRepository) DeleteForInteraction(ctx context.Context, senderID, postID int64, notifType string) error {
	return r.db.WithContext(ctx).
		Where("sender_id = ? AND post_id = ? AND type = ?", senderID, postID, notifType).
		Delete(&models.Notification{}).Error
}

// DeleteFollowNotification removes the FOLLOW notification after an unfollow
func (r *NotificationRepository) DeleteFollowNotification(ctx context.Context, senderID, receiverID int64) error {
	return r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ? AND type = ?", senderID, receiverID, models.NotifyTypeFollow).
		Delete(&models.Notification{}).Error
}

// ListInbox returns a user's notifications plus public announcements, newest first
func (r *NotificationRepository) ListInbox(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	var notifs []*models.Notification
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? OR is_public = ?", userID, true).
		Order("created_at DESC").
		Limit(limit).
		Preload("Sender").
		Preload("Post.Author").
		Find(&notifs).Error
	return notifs, err
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead marks every notification addressed to the user as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// PurgeRead deletes read notifications older than the cutoff. Public
// announcements are kept.
func (r *NotificationRepository) PurgeRead(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("read = ? AND is_public = ? AND created_at < ?", true, false, olderThan).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
