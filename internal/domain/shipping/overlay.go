package shipping

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bifurcation records where a sheet's goods go after unloading. Reporting only.
type Bifurcation struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LoadingSheetID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"loadingSheetId"`
	Destination    string    `gorm:"column:destination;not null;default:''" json:"destination"`
	DeliveryMode   string    `gorm:"column:delivery_mode;not null;default:''" json:"deliveryMode"`
	Remarks        string    `gorm:"column:remarks;not null;default:''" json:"remarks"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Bifurcation) TableName() string { return "bifurcation" }

func (b *Bifurcation) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Bifurcation) Snapshot() map[string]any {
	if b == nil {
		return nil
	}
	return map[string]any{
		"destination":   b.Destination,
		"delivery_mode": b.DeliveryMode,
		"remarks":       b.Remarks,
	}
}

// WarehouseEntry records where and when a sheet's goods were received.
type WarehouseEntry struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LoadingSheetID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"loadingSheetId"`
	Location       string     `gorm:"column:location;not null;default:''" json:"location"`
	ReceivedDate   *time.Time `gorm:"column:received_date;type:date" json:"receivedDate,omitempty"`
	Remarks        string     `gorm:"column:remarks;not null;default:''" json:"remarks"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (WarehouseEntry) TableName() string { return "warehouse_entry" }

func (w *WarehouseEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (w *WarehouseEntry) Snapshot() map[string]any {
	if w == nil {
		return nil
	}
	return map[string]any{
		"location":      w.Location,
		"received_date": w.ReceivedDate,
		"remarks":       w.Remarks,
	}
}
