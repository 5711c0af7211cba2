package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bmohak/echo/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn against a transactional repository. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (r *Repository) Transaction(ctx context.Context, fn func(*Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("College").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("College").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIdentityKey retrieves a user by credential lookup key
func (r *UserRepository) GetByIdentityKey(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("College").Where("identity_key = ?", key).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update persists profile changes
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UsernameTaken checks whether a username belongs to any user other than excludeID
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Search finds public users matching the query in username or bio
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	var users []*models.User
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).Preload("College").
		Where("privacy = ?", models.PrivacyPublic).
		Where("username ILIKE ? OR bio ILIKE ?", pattern, pattern).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ListByCollege returns public users of a college
func (r *UserRepository) ListByCollege(ctx context.Context, collegeID int64) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Preload("College").
		Where("college_id = ? AND privacy = ?", collegeID, models.PrivacyPublic).
		Find(&users).Error
	return users, err
}

// IsFollowing reports whether follower follows followee
func (r *UserRepository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// CreateFollow inserts a follow edge
func (r *UserRepository) CreateFollow(ctx context.Context, followerID, followeeID int64) error {
	return r.db.WithContext(ctx).Create(&models.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}).Error
}

// DeleteFollow removes a follow edge
func (r *UserRepository) DeleteFollow(ctx context.Context, followerID, followeeID int64) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

// FollowCounts returns follower and following totals for a user
func (r *UserRepository) FollowCounts(ctx context.Context, userID int64) (followers, following int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&following).Error
	return
}

// CollegeRepository provides college-related database operations
type CollegeRepository struct {
	*Repository
}

// NewCollegeRepository creates a new college repository
func NewCollegeRepository(repo *Repository) *CollegeRepository {
	return &CollegeRepository{Repository: repo}
}

// GetByID retrieves a college by ID
func (r *CollegeRepository) GetByID(ctx context.Context, id int64) (*models.College, error) {
	var college models.College
	if err := r.db.WithContext(ctx).First(&college, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &college, nil
}

// GetByDomain retrieves a college by email domain
func (r *CollegeRepository) GetByDomain(ctx context.Context, domain string) (*models.College, error) {
	var college models.College
	if err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&college).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &college, nil
}

// Create creates a new college
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

// Search finds colleges by name
func (r *CollegeRepository) Search(ctx context.Context, query string, limit int) ([]*models.College, error) {
	var colleges []*models.College
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", "%"+query+"%").
		Limit(limit).
		Find(&colleges).Error
	return colleges, err
}

// ReportRepository provides moderation report operations
type ReportRepository struct {
	*Repository
}

// NewReportRepository creates a new report repository
func NewReportRepository(repo *Repository) *ReportRepository {
	return &ReportRepository{Repository: repo}
}

// Create creates a new report. Reports are never deleted by the application.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}
