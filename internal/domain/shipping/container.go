package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ContainerStatusOpen    = "OPEN"
	ContainerStatusLoading = "LOADING"
	ContainerStatusShipped = "SHIPPED"
	ContainerStatusClosed  = "CLOSED"
)

func ValidContainerStatus(s string) bool {
	switch s {
	case ContainerStatusOpen, ContainerStatusLoading, ContainerStatusShipped, ContainerStatusClosed:
		return true
	}
	return false
}

// Container is a physical shipping container. The total_* columns and client_count are
// denormalized from descendant loading items and are only written by the rollup.
type Container struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string     `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Origin      string     `gorm:"column:origin;not null;default:''" json:"origin"`
	LoadingDate *time.Time `gorm:"column:loading_date;type:date" json:"loadingDate,omitempty"`
	Status      string     `gorm:"column:status;not null;default:'OPEN';index" json:"status"`
	Remarks     string     `gorm:"column:remarks;not null;default:''" json:"remarks"`

	TotalCtn    int64           `gorm:"column:total_ctn;not null;default:0" json:"totalCtn"`
	TotalCbm    decimal.Decimal `gorm:"column:total_cbm;type:decimal(20,4);not null;default:0" json:"totalCbm"`
	TotalWt     decimal.Decimal `gorm:"column:total_wt;type:decimal(20,4);not null;default:0" json:"totalWt"`
	ClientCount int64           `gorm:"column:client_count;not null;default:0" json:"clientCount"`

	// Bumped by every rollup write; the compare-and-swap key for concurrent recalculations.
	RollupVersion int64 `gorm:"column:rollup_version;not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Container) TableName() string { return "container" }

func (c *Container) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ContainerStatusOpen
	}
	return nil
}

// Snapshot returns the audited columns keyed by column name.
func (c *Container) Snapshot() map[string]any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"code":         c.Code,
		"origin":       c.Origin,
		"loading_date": c.LoadingDate,
		"status":       c.Status,
		"remarks":      c.Remarks,
	}
}
