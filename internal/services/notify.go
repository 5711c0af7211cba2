package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/models"
	"github.com/bmohak/echo/pkg/logging"
)

const (
	inboxLimit      = 50
	markReadTimeout = 5 * time.Second
	// read notifications older than this are purged by the cleanup job
	readRetention = 90 * 24 * time.Hour
)

// NotifyService serves the inbox and the admin announcement path.
type NotifyService struct {
	repo   *db.Repository
	logger *zap.Logger
}

func NewNotifyService(repo *db.Repository) *NotifyService {
	return &NotifyService{
		repo:   repo,
		logger: logging.WithComponent("notify"),
	}
}

// Inbox returns the user's notifications plus public announcements, newest
// first, then marks the inbox read in the background. The response carries
// the pre-read unread count.
func (s *NotifyService) Inbox(ctx context.Context, userID int64) ([]*models.Notification, int64, error) {
	notifications := db.NewNotificationRepository(s.repo)
	items, err := notifications.ListInbox(ctx, userID, inboxLimit)
	if err != nil {
		return nil, 0, fmt.Errorf("list inbox: %w", err)
	}
	unread, err := notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count unread: %w", err)
	}

	// mark-read runs detached from the request with its own deadline
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), markReadTimeout)
		defer cancel()
		if err := notifications.MarkAllRead(ctx, userID); err != nil {
			s.logger.Error("mark notifications read failed",
				zap.Int64("user_id", userID),
				zap.Error(err))
		}
	}()

	return items, unread, nil
}

// Announce publishes an admin notification visible to every user.
func (s *NotifyService) Announce(ctx context.Context, senderID int64, message string) (*models.Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > 280 {
		return nil, fmt.Errorf("%w: announcement must be 1-280 characters", ErrInvalidInput)
	}
	notif := &models.Notification{
		Type:     models.NotifyTypeAdmin,
		Message:  message,
		SenderID: senderID,
		IsPublic: true,
	}
	if err := db.NewNotificationRepository(s.repo).Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	s.logger.Info("announcement published", zap.Int64("sender_id", senderID))
	return notif, nil
}

// PurgeRead drops stale read notifications. Wired to an hourly cron job.
func (s *NotifyService) PurgeRead(ctx context.Context) {
	cutoff := time.Now().Add(-readRetention)
	purged, err := db.NewNotificationRepository(s.repo).PurgeRead(ctx, cutoff)
	if err != nil {
		s.logger.Error("notification purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("purged read notifications", zap.Int64("count", purged))
	}
}
