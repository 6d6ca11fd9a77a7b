package shipping

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type BifurcationRepo interface {
	Create(dbc dbctx.Context, row *types.Bifurcation) (*types.Bifurcation, error)
	GetBySheetID(dbc dbctx.Context, sheetID uuid.UUID) (*types.Bifurcation, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) error
}

type bifurcationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBifurcationRepo(db *gorm.DB, baseLog *logger.Logger) BifurcationRepo {
	return &bifurcationRepo{db: db, log: baseLog.With("repo", "BifurcationRepo")}
}

func (r *bifurcationRepo) Create(dbc dbctx.Context, row *types.Bifurcation) (*types.Bifurcation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *bifurcationRepo) GetBySheetID(dbc dbctx.Context, sheetID uuid.UUID) (*types.Bifurcation, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sheetID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Bifurcation
	if err := t.WithContext(dbc.Ctx).Where("loading_sheet_id = ?", sheetID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *bifurcationRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.Bifurcation{}).Where("id = ?", id).Updates(updates).Error
}

func (r *bifurcationRepo) FullDeleteBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(sheetIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("loading_sheet_id IN ?", sheetIDs).Delete(&types.Bifurcation{}).Error
}

type WarehouseRepo interface {
	Create(dbc dbctx.Context, row *types.WarehouseEntry) (*types.WarehouseEntry, error)
	GetBySheetID(dbc dbctx.Context, sheetID uuid.UUID) (*types.WarehouseEntry, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	FullDeleteBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) error
}

type warehouseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWarehouseRepo(db *gorm.DB, baseLog *logger.Logger) WarehouseRepo {
	return &warehouseRepo{db: db, log: baseLog.With("repo", "WarehouseRepo")}
}

func (r *warehouseRepo) Create(dbc dbctx.Context, row *types.WarehouseEntry) (*types.WarehouseEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *warehouseRepo) GetBySheetID(dbc dbctx.Context, sheetID uuid.UUID) (*types.WarehouseEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if sheetID == uuid.Nil {
		return nil, nil
	}
	var out []*types.WarehouseEntry
	if err := t.WithContext(dbc.Ctx).Where("loading_sheet_id = ?", sheetID).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *warehouseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.WarehouseEntry{}).Where("id = ?", id).Updates(updates).Error
}

func (r *warehouseRepo) FullDeleteBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(sheetIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("loading_sheet_id IN ?", sheetIDs).Delete(&types.WarehouseEntry{}).Error
}
