package models

import (
	"time"
)

// Like is a (post, user) join row. A pair can hold a Like or a Dislike,
// never both.
type Like struct {
	PostID    int64     `gorm:"primaryKey;column:post_id" json:"post_id"`
	UserID    int64     `gorm:"primaryKey;column:user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;references:ID" json:"-"`
	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "echo_likes"
}

// Dislike is the negative counterpart of Like.
type Dislike struct {
	PostID    int64     `gorm:"primaryKey;column:post_id" json:"post_id"`
	UserID    int64     `gorm:"primaryKey;column:user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;references:ID" json:"-"`
	User *User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

// TableName specifies the table name for Dislike
func (Dislike) TableName() string {
	return "echo_dislikes"
}

// Repost rebroadcasts a post into the reposter's timeline without copying
// content. Its CreatedAt is the effective timestamp for feed ordering.
type Repost struct {
	PostID    int64     `gorm:"primaryKey;column:post_id" json:"post_id"`
	UserID    int64     `gorm:"primaryKey;column:user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;index;column:created_at" json:"created_at"`

	// Relationships
	Post *Post `gorm:"foreignKey:PostID;references:ID" json:"post,omitempty"`
	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName specifies the table name for Repost
func (Repost) TableName() string {
	return "echo_reposts"
}
