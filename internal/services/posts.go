package services

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"go.uber.org/zap"

	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/models"
	"github.com/bmohak/echo/pkg/logging"
	"github.com/bmohak/echo/pkg/telemetry"
)

// CreatePostInput carries a new post. ParentPostID marks a reply, QuoteID
// an embedded post; both are optional and independent.
type CreatePostInput struct {
	AuthorID     int64
	Text         string
	Media        []string
	Privacy      string
	ParentPostID *int64
	QuoteID      *int64
}

// PostService runs the post write path.
type PostService struct {
	repo   *db.Repository
	logger *zap.Logger
}

func NewPostService(repo *db.Repository) *PostService {
	return &PostService{
		repo:   repo,
		logger: logging.WithComponent("posts"),
	}
}

// Create validates and stores a post. A reply notifies the parent author,
// a quote notifies the quoted author; the post and its notifications commit
// together.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.create")
	defer span.End()

	if err := ValidatePostText(input.Text, len(input.Media) > 0); err != nil {
		return nil, err
	}
	if input.Privacy == "" {
		input.Privacy = models.PostPrivacyAnyone
	}
	if err := ValidatePostPrivacy(input.Privacy); err != nil {
		return nil, err
	}

	users := db.NewUserRepository(s.repo)
	author, err := users.GetByID(ctx, input.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	if author == nil {
		return nil, ErrUserNotFound
	}

	posts := db.NewPostRepository(s.repo)
	parent, err := s.resolveRef(ctx, posts, input.ParentPostID)
	if err != nil {
		return nil, err
	}
	quoted, err := s.resolveRef(ctx, posts, input.QuoteID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:         input.Text,
		Media:        datatypes.NewJSONSlice(input.Media),
		Privacy:      input.Privacy,
		ParentPostID: input.ParentPostID,
		QuoteID:      input.QuoteID,
		AuthorID:     input.AuthorID,
	}

	err = s.repo.Transaction(ctx, func(tx *db.Repository) error {
		if err := db.NewPostRepository(tx).Create(ctx, post); err != nil {
			return err
		}
		notifications := db.NewNotificationRepository(tx)
		if parent != nil && parent.AuthorID != author.ID {
			if err := s.notifyRef(ctx, notifications, author, parent, post.ID,
				models.NotifyTypeReply, "replied to your post"); err != nil {
				return err
			}
		}
		if quoted != nil && quoted.AuthorID != author.ID {
			if err := s.notifyRef(ctx, notifications, author, quoted, post.ID,
				models.NotifyTypeQuote, "quoted your post"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	post.Author = author
	post.ParentPost = parent
	post.Quote = quoted
	return post, nil
}

// Delete removes a post and its dependent rows. Only the author or an
// admin may delete.
func (s *PostService) Delete(ctx context.Context, callerID int64, isAdmin bool, postID int64) error {
	ctx, span := telemetry.StartSpan(ctx, "posts.delete")
	defer span.End()

	posts := db.NewPostRepository(s.repo)
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != callerID && !isAdmin {
		return ErrForbidden
	}
	if err := posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.logger.Info("post deleted",
		zap.Int64("post_id", postID),
		zap.Int64("caller_id", callerID))
	return nil
}

func (s *PostService) resolveRef(ctx context.Context, posts *db.PostRepository, id *int64) (*models.Post, error) {
	if id == nil {
		return nil, nil
	}
	ref, err := posts.GetByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("get referenced post: %w", err)
	}
	if ref == nil {
		return nil, ErrPostNotFound
	}
	return ref, nil
}

func (s *PostService) notifyRef(ctx context.Context, notifications *db.NotificationRepository, author *models.User, target *models.Post, newPostID int64, notifType, verb string) error {
	receiverID := target.AuthorID
	postID := newPostID
	return notifications.Create(ctx, &models.Notification{
		Type:       notifType,
		Message:    fmt.Sprintf("@%s %s", author.Username, verb),
		SenderID:   author.ID,
		ReceiverID: &receiverID,
		PostID:     &postID,
	})
}
