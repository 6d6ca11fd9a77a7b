package shipping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoadingItem is one line of a loading sheet. TCbm, TWt and TPcs are always derived from
// the inputs by Derive; values supplied by clients are discarded.
type LoadingItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LoadingSheetID uuid.UUID       `gorm:"type:uuid;not null;index" json:"loadingSheetId"`
	Particular     string          `gorm:"column:particular;not null;default:''" json:"particular"`
	Ctn            int64           `gorm:"column:ctn;not null;default:0" json:"ctn"`
	Pcs            int64           `gorm:"column:pcs;not null;default:0" json:"pcs"`
	Cbm            decimal.Decimal `gorm:"column:cbm;type:decimal(20,4);not null;default:0" json:"cbm"`
	Wt             decimal.Decimal `gorm:"column:wt;type:decimal(20,4);not null;default:0" json:"wt"`

	TCbm decimal.Decimal `gorm:"column:t_cbm;type:decimal(20,4);not null;default:0" json:"tCbm"`
	TWt  decimal.Decimal `gorm:"column:t_wt;type:decimal(20,4);not null;default:0" json:"tWt"`
	TPcs int64           `gorm:"column:t_pcs;not null;default:0" json:"tPcs"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (LoadingItem) TableName() string { return "loading_item" }

// Derive recomputes the line totals from ctn, pcs, cbm and wt.
func (i *LoadingItem) Derive() {
	ctn := decimal.NewFromInt(i.Ctn)
	i.TCbm = ctn.Mul(i.Cbm)
	i.TWt = ctn.Mul(i.Wt)
	i.TPcs = i.Ctn * i.Pcs
}

func (i *LoadingItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.Derive()
	return nil
}

func (i *LoadingItem) BeforeSave(tx *gorm.DB) error {
	i.Derive()
	return nil
}

func (i *LoadingItem) Snapshot() map[string]any {
	if i == nil {
		return nil
	}
	return map[string]any{
		"particular": i.Particular,
		"ctn":        i.Ctn,
		"pcs":        i.Pcs,
		"cbm":        i.Cbm,
		"wt":         i.Wt,
	}
}
