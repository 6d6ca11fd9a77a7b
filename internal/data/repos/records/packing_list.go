package records

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type PackingListRepo interface {
	Create(dbc dbctx.Context, rows []*types.PackingList) ([]*types.PackingList, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PackingList, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.PackingList, error)
	NamesWithBase(dbc dbctx.Context, base string) ([]string, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type packingListRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPackingListRepo(db *gorm.DB, baseLog *logger.Logger) PackingListRepo {
	return &packingListRepo{db: db, log: baseLog.With("repo", "PackingListRepo")}
}

func (r *packingListRepo) Create(dbc dbctx.Context, rows []*types.PackingList) ([]*types.PackingList, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PackingList{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *packingListRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PackingList, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.PackingList
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *packingListRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.PackingList, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PackingList
	q := applyListFilter(t.WithContext(dbc.Ctx).Model(&types.PackingList{}), f, "name", "consignee")
	if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *packingListRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.PackingList{}).Where("id = ?", id).Updates(updates).Error
}

func (r *packingListRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.PackingList{}).Error
}

// NamesWithBase lists stored names equal to base or suffixed "base (n)".
func (r *packingListRepo) NamesWithBase(dbc dbctx.Context, base string) ([]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return namesWithBase(t.WithContext(dbc.Ctx), &types.PackingList{}, "name", base)
}
