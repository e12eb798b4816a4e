package domain

import (
	"time"

	"gorm.io/gorm"
)

// Inquiry statuses. Operators move inquiries between them freely; there is
// no enforced ordering beyond these three labels.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusClosed    = "closed"
)

// Inquiry represents a lead submitted through the public contact form.
// LeadScore and ScoredAt stay nil until the ingest pipeline has processed
// the inquiry; their absence means "not yet processed", not "unscored".
type Inquiry struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null;index" json:"email"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Status    string     `gorm:"default:'new'" json:"status"`
	LeadScore *int       `json:"lead_score"`
	ScoredAt  *time.Time `json:"scored_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`

	Replies []Reply `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Inquiry
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate hook
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	if i.Status == "" {
		i.Status = StatusNew
	}
	return nil
}

// BeforeUpdate hook
func (i *Inquiry) BeforeUpdate(tx *gorm.DB) error {
	now := time.Now()
	i.UpdatedAt = &now
	return nil
}

// ValidStatus reports whether s is one of the three inquiry statuses.
func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusContacted || s == StatusClosed
}
