package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post privacy scopes
const (
	PostPrivacyAnyone    = "ANYONE"
	PostPrivacyFollowed  = "FOLLOWED"
	PostPrivacyMentioned = "MENTIONED"
)

// MaxPostTextLen is the upper bound on post body length.
const MaxPostTextLen = 500

// Post represents an echo. A post with a non-null ParentPostID is a reply;
// a post with a non-null QuoteID embeds another post.
type Post struct {
	ID           int64                       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Text         string                      `gorm:"type:varchar(500);not null;default:'';column:text" json:"text"`
	Media        datatypes.JSONSlice[string] `gorm:"column:media" json:"media"`
	Privacy      string                      `gorm:"type:varchar(10);not null;default:'ANYONE';column:privacy" json:"privacy"`
	ParentPostID *int64                      `gorm:"index;column:parent_post_id" json:"parent_post_id"`
	QuoteID      *int64                      `gorm:"column:quote_id" json:"quote_id"`
	AuthorID     int64                       `gorm:"not null;index;column:author_id" json:"author_id"`
	CreatedAt    time.Time                   `gorm:"not null;index;column:created_at" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null;column:updated_at" json:"-"`

	// Relationships
	Author     *User  `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	ParentPost *Post  `gorm:"foreignKey:ParentPostID;references:ID" json:"parent_post,omitempty"`
	Quote      *Post  `gorm:"foreignKey:QuoteID;references:ID" json:"quote,omitempty"`
	Replies    []Post `gorm:"foreignKey:ParentPostID;references:ID" json:"-"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "echo_posts"
}

// IsReply reports whether the post is a reply to another post.
func (p *Post) IsReply() bool {
	return p.ParentPostID != nil
}
