package models

import (
	"time"
)

// Report is a moderation flag against either a post or a user. Reports are
// created by the application and never deleted by it.
type Report struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Reason       string    `gorm:"type:varchar(500);not null;column:reason" json:"reason"`
	ReporterID   int64     `gorm:"not null;index;column:reporter_id" json:"reporter_id"`
	TargetPostID *int64    `gorm:"index;column:target_post_id" json:"target_post_id"`
	TargetUserID *int64    `gorm:"index;column:target_user_id" json:"target_user_id"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Reporter   *User `gorm:"foreignKey:ReporterID;references:ID" json:"-"`
	TargetPost *Post `gorm:"foreignKey:TargetPostID;references:ID" json:"-"`
	TargetUser *User `gorm:"foreignKey:TargetUserID;references:ID" json:"-"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "echo_reports"
}
