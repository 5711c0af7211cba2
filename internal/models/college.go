package models

import (
	"time"
)

// College groups users by their institutional email domain.
type College struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null;column:name" json:"name"`
	Domain    string    `gorm:"type:varchar(120);not null;uniqueIndex:echo_colleges_ux1;column:domain" json:"domain"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Users []User `gorm:"foreignKey:CollegeID;references:ID" json:"-"`
}

// TableName specifies the table name for College
func (College) TableName() string {
	return "echo_colleges"
}
