package models

import (
	"time"
)

// Notification type constants
const (
	NotifyTypeAdmin  = "ADMIN"
	NotifyTypeLike   = "LIKE"
	NotifyTypeReply  = "REPLY"
	NotifyTypeFollow = "FOLLOW"
	NotifyTypeRepost = "REPOST"
	NotifyTypeQuote  = "QUOTE"
)

// Notification is an inbox row. ReceiverID is null for public announcements,
// which every user sees regardless of receiver.
type Notification struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Type       string    `gorm:"type:varchar(10);not null;column:type" json:"type"`
	Message    string    `gorm:"type:varchar(280);not null;column:message" json:"message"`
	SenderID   int64     `gorm:"not null;index;column:sender_id" json:"sender_id"`
	ReceiverID *int64    `gorm:"index;column:receiver_id" json:"receiver_id"`
	PostID     *int64    `gorm:"index;column:post_id" json:"post_id"`
	Read       bool      `gorm:"not null;default:false;column:read" json:"read"`
	IsPublic   bool      `gorm:"not null;default:false;column:is_public" json:"is_public"`
	CreatedAt  time.Time `gorm:"not null;index;column:created_at" json:"created_at"`

	// Relationships
	Sender   *User `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID;references:ID" json:"-"`
	Post     *Post `gorm:"foreignKey:PostID;references:ID" json:"post,omitempty"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "echo_notifications"
}
