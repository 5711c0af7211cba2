package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bmohak/echo/internal/auth"
	"github.com/bmohak/echo/internal/cache"
	"github.com/bmohak/echo/internal/db"
	"github.com/bmohak/echo/internal/models"
	"github.com/bmohak/echo/pkg/config"
	"github.com/bmohak/echo/pkg/logging"
)

const profileCacheTTL = 30 * time.Second

// Profile is a user with their public counts.
type Profile struct {
	User      *models.User `json:"user"`
	Posts     int64        `json:"posts"`
	Followers int64        `json:"followers"`
	Following int64        `json:"following"`
}

// AccountService covers signup, login, profile reads and edits, and email
// verification codes.
type AccountService struct {
	repo   *db.Repository
	cache  *cache.Cache
	cfg    *config.AuthConfig
	logger *zap.Logger
}

func NewAccountService(repo *db.Repository, c *cache.Cache, cfg *config.AuthConfig) *AccountService {
	return &AccountService{
		repo:   repo,
		cache:  c,
		cfg:    cfg,
		logger: logging.WithComponent("accounts"),
	}
}

// Signup registers an account. The email must belong to a registered
// college domain and is never stored; only its identity key is.
func (s *AccountService) Signup(ctx context.Context, username, password, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	colleges := db.NewCollegeRepository(s.repo)
	college, err := colleges.GetByDomain(ctx, EmailDomain(email))
	if err != nil {
		return nil, fmt.Errorf("lookup college: %w", err)
	}
	if college == nil {
		return nil, ErrUnknownCollege
	}

	users := db.NewUserRepository(s.repo)
	taken, err := users.UsernameTaken(ctx, username, 0)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	identityKey := auth.IdentityKey(s.cfg.IdentitySalt, email)
	existing, err := users.GetByIdentityKey(ctx, identityKey)
	if err != nil {
		return nil, fmt.Errorf("check identity: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailRegistered
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		IdentityKey:  identityKey,
		PasswordHash: passwordHash,
		Privacy:      models.PrivacyPublic,
		CollegeID:    college.ID,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("account created",
		zap.Int64("user_id", user.ID),
		zap.String("college", college.Domain))
	user.College = college
	return user, nil
}

// Login verifies credentials and issues a session token. Failures are
// indistinguishable between unknown email and wrong password.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	users := db.NewUserRepository(s.repo)
	user, err := users.GetByIdentityKey(ctx, auth.IdentityKey(s.cfg.IdentitySalt, email))
	if err != nil {
		return "", nil, fmt.Errorf("lookup identity: %w", err)
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	token, err := auth.IssueToken(s.cfg.JWTSecret, s.cfg.TokenTTL, user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// CheckUsername reports whether a handle is valid and free.
func (s *AccountService) CheckUsername(ctx context.Context, username string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, nil
	}
	taken, err := db.NewUserRepository(s.repo).UsernameTaken(ctx, username, 0)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !taken, nil
}

// GetProfile loads a user with their counts, cached briefly.
func (s *AccountService) GetProfile(ctx context.Context, handle string) (*Profile, error) {
	cacheKey := "profile:" + cache.HashKey(handle)
	var cached Profile
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	users := db.NewUserRepository(s.repo)
	user, err := users.GetByUsername(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	postCount, err := db.NewPostRepository(s.repo).CountByAuthor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	followers, following, err := users.FollowCounts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count follows: %w", err)
	}

	profile := &Profile{User: user, Posts: postCount, Followers: followers, Following: following}
	if err := s.cache.SetJSON(ctx, cacheKey, profile, profileCacheTTL); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("profile cache write failed", zap.Error(err))
	}
	return profile, nil
}

// EditProfileInput carries optional profile changes.
type EditProfileInput struct {
	Username *string
	Bio      *string
	Privacy  *string
}

// EditProfile applies changes to the caller's own profile.
func (s *AccountService) EditProfile(ctx context.Context, callerID int64, handle string, input EditProfileInput) (*models.User, error) {
	users := db.NewUserRepository(s.repo)
	user, err := users.GetByUsername(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.ID != callerID {
		return nil, ErrForbidden
	}

	if input.Username != nil {
		next := strings.TrimSpace(*input.Username)
		if err := ValidateUsername(next); err != nil {
			return nil, err
		}
		taken, err := users.UsernameTaken(ctx, next, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = next
	}
	if input.Bio != nil {
		if len(*input.Bio) > BioMaxLen {
			return nil, fmt.Errorf("%w: bio exceeds %d characters", ErrInvalidInput, BioMaxLen)
		}
		user.Bio = *input.Bio
	}
	if input.Privacy != nil {
		if err := ValidateUserPrivacy(*input.Privacy); err != nil {
			return nil, err
		}
		user.Privacy = *input.Privacy
	}

	if err := users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := s.cache.Delete(ctx, "profile:"+cache.HashKey(handle)); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("profile cache invalidation failed", zap.Error(err))
	}
	return user, nil
}

// Report files a moderation flag against a post or a user.
func (s *AccountService) Report(ctx context.Context, reporterID int64, postID, userID *int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > ReasonMaxLen {
		return fmt.Errorf("%w: reason must be 1-%d characters", ErrInvalidInput, ReasonMaxLen)
	}
	if (postID == nil) == (userID == nil) {
		return fmt.Errorf("%w: report exactly one of post or user", ErrInvalidInput)
	}
	if postID != nil {
		post, err := db.NewPostRepository(s.repo).GetByID(ctx, *postID)
		if err != nil {
			return fmt.Errorf("get post: %w", err)
		}
		if post == nil {
			return ErrPostNotFound
		}
	}
	if userID != nil {
		user, err := db.NewUserRepository(s.repo).GetByID(ctx, *userID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if user == nil {
			return ErrUserNotFound
		}
	}
	return db.NewReportRepository(s.repo).Create(ctx, &models.Report{
		Reason:       reason,
		ReporterID:   reporterID,
		TargetPostID: postID,
		TargetUserID: userID,
	})
}

// GetCollege loads a college with its public members.
func (s *AccountService) GetCollege(ctx context.Context, collegeID int64) (*models.College, []*models.User, error) {
	college, err := db.NewCollegeRepository(s.repo).GetByID(ctx, collegeID)
	if err != nil {
		return nil, nil, fmt.Errorf("get college: %w", err)
	}
	if college == nil {
		return nil, nil, ErrCollegeNotFound
	}
	members, err := db.NewUserRepository(s.repo).ListByCollege(ctx, collegeID)
	if err != nil {
		return nil, nil, fmt.Errorf("list members: %w", err)
	}
	return college, members, nil
}

// SendVerification issues a stateless code for an email. The address must
// map to a registered college. Mail delivery is out of scope; the code is
// handed back to the caller only in debug deployments.
func (s *AccountService) SendVerification(ctx context.Context, email string) (string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	college, err := db.NewCollegeRepository(s.repo).GetByDomain(ctx, EmailDomain(email))
	if err != nil {
		return "", fmt.Errorf("lookup college: %w", err)
	}
	if college == nil {
		return "", ErrUnknownCollege
	}
	code, err := auth.GenerateCode(s.cfg.IdentitySalt, email)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return code, nil
}

// VerifyCode checks a code against the email it was issued for.
func (s *AccountService) VerifyCode(email, code string) bool {
	return auth.VerifyCode(s.cfg.IdentitySalt, email, code)
}
