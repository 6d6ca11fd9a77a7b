package records

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer record. Archiving flips Status to ARCHIVED; Reactivate flips it back.
type Client struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Contact string    `gorm:"column:contact;not null;default:''" json:"contact"`
	Phone   string    `gorm:"column:phone;not null;default:''" json:"phone"`
	Country string    `gorm:"column:country;not null;default:''" json:"country"`
	Status  string    `gorm:"column:status;not null;default:'ACTIVE';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Client) TableName() string { return "client_record" }

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = StatusActive
	}
	return nil
}

func (c *Client) Snapshot() map[string]any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"name":    c.Name,
		"contact": c.Contact,
		"phone":   c.Phone,
		"country": c.Country,
		"status":  c.Status,
	}
}
