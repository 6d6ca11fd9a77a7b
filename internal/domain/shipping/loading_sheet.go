package shipping

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SheetStatusDraft    = "DRAFT"
	SheetStatusLoaded   = "LOADED"
	SheetStatusVerified = "VERIFIED"
)

// LoadingSheet groups the items loaded for one client (shipping mark) into a container.
// Shipping marks are expected to be unique per container but this is not enforced.
type LoadingSheet struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContainerID  uuid.UUID `gorm:"type:uuid;not null;index" json:"containerId"`
	ShippingMark string    `gorm:"column:shipping_mark;not null;default:'';index" json:"shippingMark"`
	Status       string    `gorm:"column:status;not null;default:'DRAFT'" json:"status"`
	Remarks      string    `gorm:"column:remarks;not null;default:''" json:"remarks"`

	Items []LoadingItem `gorm:"foreignKey:LoadingSheetID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (LoadingSheet) TableName() string { return "loading_sheet" }

func (s *LoadingSheet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SheetStatusDraft
	}
	return nil
}

func (s *LoadingSheet) Snapshot() map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"shipping_mark": s.ShippingMark,
		"status":        s.Status,
		"remarks":       s.Remarks,
	}
}
