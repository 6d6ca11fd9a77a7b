package shipping

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type LoadingItemRepo interface {
	Create(dbc dbctx.Context, rows []*types.LoadingItem) ([]*types.LoadingItem, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LoadingItem, error)
	ListBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) ([]*types.LoadingItem, error)
	CountBySheetID(dbc dbctx.Context, sheetID uuid.UUID) (int64, error)

	// Save rewrites every input column of row and its derived totals.
	Save(dbc dbctx.Context, row *types.LoadingItem) error

	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) error
}

type loadingItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoadingItemRepo(db *gorm.DB, baseLog *logger.Logger) LoadingItemRepo {
	return &loadingItemRepo{db: db, log: baseLog.With("repo", "LoadingItemRepo")}
}

func (r *loadingItemRepo) Create(dbc dbctx.Context, rows []*types.LoadingItem) ([]*types.LoadingItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.LoadingItem{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *loadingItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LoadingItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.LoadingItem
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *loadingItemRepo) ListBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) ([]*types.LoadingItem, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.LoadingItem
	if len(sheetIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("loading_sheet_id IN ?", sheetIDs).
		Order("created_at ASC").Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *loadingItemRepo) CountBySheetID(dbc dbctx.Context, sheetID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).Model(&types.LoadingItem{}).Where("loading_sheet_id = ?", sheetID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *loadingItemRepo) Save(dbc dbctx.Context, row *types.LoadingItem) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.Derive()
	return t.WithContext(dbc.Ctx).Model(&types.LoadingItem{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
		"particular": row.Particular,
		"ctn":        row.Ctn,
		"pcs":        row.Pcs,
		"cbm":        row.Cbm,
		"wt":         row.Wt,
		"t_cbm":      row.TCbm,
		"t_wt":       row.TWt,
		"t_pcs":      row.TPcs,
	}).Error
}

func (r *loadingItemRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.LoadingItem{}).Error
}

func (r *loadingItemRepo) FullDeleteBySheetIDs(dbc dbctx.Context, sheetIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(sheetIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("loading_sheet_id IN ?", sheetIDs).Delete(&types.LoadingItem{}).Error
}
