package models

import (
	"time"
)

// User privacy levels
const (
	PrivacyPublic  = "PUBLIC"
	PrivacyPrivate = "PRIVATE"
)

// User represents an Echo account. The store never holds the email or
// password: IdentityKey is a keyed hash of the email used for login lookup,
// PasswordHash is a bcrypt digest with its own per-record salt.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string    `gorm:"type:varchar(50);not null;uniqueIndex:echo_users_ux1;column:username" json:"username"`
	IdentityKey  string    `gorm:"type:char(64);not null;uniqueIndex:echo_users_ux2;column:identity_key" json:"-"`
	PasswordHash string    `gorm:"type:varchar(100);not null;column:password_hash" json:"-"`
	Bio          string    `gorm:"type:varchar(160);not null;default:'';column:bio" json:"bio"`
	Privacy      string    `gorm:"type:varchar(10);not null;default:'PUBLIC';column:privacy" json:"privacy"`
	IsAdmin      bool      `gorm:"not null;default:false;column:is_admin" json:"-"`
	CollegeID    int64     `gorm:"not null;index;column:college_id" json:"college_id"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;column:updated_at" json:"-"`

	// Relationships
	College *College `gorm:"foreignKey:CollegeID;references:ID" json:"college,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "echo_users"
}

// Follow represents a follow edge between two users
type Follow struct {
	FollowerID int64     `gorm:"primaryKey;column:follower_id" json:"follower_id"`
	FolloweeID int64     `gorm:"primaryKey;column:followee_id" json:"followee_id"`
	CreatedAt  time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Follower *User `gorm:"foreignKey:FollowerID;references:ID" json:"follower,omitempty"`
	Followee *User `gorm:"foreignKey:FolloweeID;references:ID" json:"followee,omitempty"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "echo_follows"
}
