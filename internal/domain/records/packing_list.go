package records

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft    = "DRAFT"
	StatusActive   = "ACTIVE"
	StatusFinal    = "FINAL"
	StatusArchived = "ARCHIVED"
)

// PackingList is a named export document. Names collide into "<name> (n)" instead of failing.
type PackingList struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Consignee string    `gorm:"column:consignee;not null;default:''" json:"consignee"`
	Status    string    `gorm:"column:status;not null;default:'DRAFT';index" json:"status"`
	Notes     string    `gorm:"column:notes;not null;default:''" json:"notes"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (PackingList) TableName() string { return "packing_list" }

func (p *PackingList) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return nil
}

func (p *PackingList) Snapshot() map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"name":      p.Name,
		"consignee": p.Consignee,
		"status":    p.Status,
		"notes":     p.Notes,
	}
}
