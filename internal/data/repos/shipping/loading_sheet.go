package shipping

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type LoadingSheetRepo interface {
	Create(dbc dbctx.Context, rows []*types.LoadingSheet) ([]*types.LoadingSheet, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.LoadingSheet, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LoadingSheet, error)
	ListByContainerID(dbc dbctx.Context, containerID uuid.UUID) ([]*types.LoadingSheet, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type loadingSheetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLoadingSheetRepo(db *gorm.DB, baseLog *logger.Logger) LoadingSheetRepo {
	return &loadingSheetRepo{db: db, log: baseLog.With("repo", "LoadingSheetRepo")}
}

func (r *loadingSheetRepo) Create(dbc dbctx.Context, rows []*types.LoadingSheet) ([]*types.LoadingSheet, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.LoadingSheet{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Omit("Items").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *loadingSheetRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.LoadingSheet, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.LoadingSheet
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *loadingSheetRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LoadingSheet, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *loadingSheetRepo) ListByContainerID(dbc dbctx.Context, containerID uuid.UUID) ([]*types.LoadingSheet, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.LoadingSheet
	if containerID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("container_id = ?", containerID).
		Order("created_at ASC").Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *loadingSheetRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.LoadingSheet{}).Where("id = ?", id).Updates(updates).Error
}

func (r *loadingSheetRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.LoadingSheet{}).Error
}
