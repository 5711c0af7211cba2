package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/models"
	"github.com/bmohak/echo/pkg/logging"
	"github.com/bmohak/echo/pkg/telemetry"
)

// InteractionService runs the toggle endpoints. Each toggle is a single
// transaction: the state check, the write, and the notification bookkeeping
// commit or roll back together.
type InteractionService struct {
	repo   *db.Repository
	logger *zap.Logger
}

func NewInteractionService(repo *db.Repository) *InteractionService {
	return &InteractionService{
		repo:   repo,
		logger: logging.WithComponent("interactions"),
	}
}

// ToggleLike flips the viewer's like on a post. Setting a like clears any
// standing dislike first; clearing a like removes its notification.
func (s *InteractionService) ToggleLike(ctx context.Context, userID, postID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "interactions.toggle_like")
	defer span.End()

	post, user, err := s.loadTarget(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	var liked bool
	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		interactions := db.NewInteractionRepository(tx)
		notifications := db.NewNotificationRepository(tx)

		existing, err := interactions.GetLike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := interactions.DeleteLike(ctx, postID, userID); err != nil {
				return err
			}
			return notifications.DeleteForInteraction(ctx, userID, postID, models.NotifyTypeLike)
		}

		// like and dislike are mutually exclusive
		if err := interactions.DeleteDislike(ctx, postID, userID); err != nil {
			return err
		}
		if err := interactions.CreateLike(ctx, postID, userID); err != nil {
			return err
		}
		liked = true
		return s.notifyInTx(ctx, notifications, user, post, models.NotifyTypeLike,
			fmt.Sprintf("@%s liked your post", user.Username))
	})
	return liked, err
}

// ToggleDislike mirrors ToggleLike for the negative reaction. Dislikes do
// not notify the author.
func (s *InteractionService) ToggleDislike(ctx context.Context, userID, postID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "interactions.toggle_dislike")
	defer span.End()

	if _, _, err := s.loadTarget(ctx, userID, postID); err != nil {
		return false, err
	}

	var disliked bool
	err := s.repo.Transaction(ctx, func(tx *db.Repository) error {
		interactions := db.NewInteractionRepository(tx)
		notifications := db.NewNotificationRepository(tx)

		existing, err := interactions.GetDislike(ctx, postID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			return interactions.DeleteDislike(ctx, postID, userID)
		}

		if err := interactions.DeleteLike(ctx, postID, userID); err != nil {
			return err
		}
		if err := notifications.DeleteForInteraction(ctx, userID, postID, models.NotifyTypeLike); err != nil {
			return err
		}
		if err := interactions.CreateDislike(ctx, postID, userID); err != nil {
			return err
		}
		disliked = true
		return nil
	})
	return disliked, err
}

// ToggleRepost flips the viewer's repost on a post.
func (s *InteractionService) ToggleRepost(ctx context.Context, userID, postID int64) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "interactions.toggle_repost")
	defer span.End()

	post, user, err := s.loadTarget(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	var reposted bool
	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		interactions := db.NewInteractionRepository(tx)
		notifications := db.NewNotificationRepository(tx)

		existing, err := interactions.GetRepost(ctx, postID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := interactions.DeleteRepost(ctx, postID, userID); err != nil {
				return err
			}
			return notifications.DeleteForInteraction(ctx, userID, postID, models.NotifyTypeRepost)
		}

		if err := interactions.CreateRepost(ctx, postID, userID); err != nil {
			return err
		}
		reposted = true
		return s.notifyInTx(ctx, notifications, user, post, models.NotifyTypeRepost,
			fmt.Sprintf("@%s reposted your post", user.Username))
	})
	return reposted, err
}

// ToggleFollow flips the follow edge toward the named user. Unfollowing
// removes the FOLLOW notification it created.
func (s *InteractionService) ToggleFollow(ctx context.Context, followerID int64, username string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "interactions.toggle_follow")
	defer span.End()

	users := db.NewUserRepository(s.repo)
	target, err := users.GetByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("get followee: %w", err)
	}
	if target == nil {
		return false, ErrUserNotFound
	}
	if target.ID == followerID {
		return false, ErrSelfFollow
	}
	follower, err := users.GetByID(ctx, followerID)
	if err != nil {
		return false, fmt.Errorf("get follower: %w", err)
	}
	if follower == nil {
		return false, ErrUserNotFound
	}

	var following bool
	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		txUsers := db.NewUserRepository(tx)
		notifications := db.NewNotificationRepository(tx)

		exists, err := txUsers.IsFollowing(ctx, followerID, target.ID)
		if err != nil {
			return err
		}
		if exists {
			if err := txUsers.DeleteFollow(ctx, followerID, target.ID); err != nil {
				return err
			}
			return notifications.DeleteFollowNotification(ctx, followerID, target.ID)
		}

		if err := txUsers.CreateFollow(ctx, followerID, target.ID); err != nil {
			return err
		}
		following = true
		receiverID := target.ID
		return notifications.Create(ctx, &models.Notification{
			Type:       models.NotifyTypeFollow,
			Message:    fmt.Sprintf("@%s followed you", follower.Username),
			SenderID:   followerID,
			ReceiverID: &receiverID,
		})
	})
	return following, err
}

// IsFollowing reports the follow edge toward the named user.
func (s *InteractionService) IsFollowing(ctx context.Context, followerID int64, username string) (bool, error) {
	users := db.NewUserRepository(s.repo)
	target, err := users.GetByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("get followee: %w", err)
	}
	if target == nil {
		return false, ErrUserNotFound
	}
	return users.IsFollowing(ctx, followerID, target.ID)
}

func (s *InteractionService) loadTarget(ctx context.Context, userID, postID int64) (*models.Post, *models.User, error) {
	posts := db.NewPostRepository(s.repo)
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, nil, ErrPostNotFound
	}
	users := db.NewUserRepository(s.repo)
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	return post, user, nil
}

// notifyInTx records an interaction notification toward the post author,
// skipping self-interactions.
func (s *InteractionService) notifyInTx(ctx context.Context, notifications *db.NotificationRepository, sender *models.User, post *models.Post, notifType, message string) error {
	if post.AuthorID == sender.ID {
		return nil
	}
	receiverID := post.AuthorID
	postID := post.ID
	return notifications.Create(ctx, &models.Notification{
		Type:       notifType,
		Message:    message,
		SenderID:   sender.ID,
		ReceiverID: &receiverID,
		PostID:     &postID,
	})
}
