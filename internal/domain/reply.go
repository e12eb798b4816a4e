package domain

import (
	"time"

	"gorm.io/gorm"
)

// Reply is an operator's response to a single Inquiry. EmailSent flips to
// true exactly once, after the reply pipeline has delivered the email;
// EmailSent=false is the reliable signal of an undelivered reply.
type Reply struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	InquiryID uint       `gorm:"not null;index" json:"inquiry_id"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	EmailSent bool       `gorm:"default:false" json:"email_sent"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName specifies the table name for Reply
func (Reply) TableName() string {
	return "replies"
}

// BeforeCreate hook
func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	r.CreatedAt = time.Now()
	return nil
}
