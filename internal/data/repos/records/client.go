package records

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type ClientRepo interface {
	Create(dbc dbctx.Context, rows []*types.Client) ([]*types.Client, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.Client, error)
	NameExists(dbc dbctx.Context, name string, excludeID uuid.UUID) (bool, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) Create(dbc dbctx.Context, rows []*types.Client) ([]*types.Client, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Client{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *clientRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Client
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *clientRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.Client, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Client
	q := applyListFilter(t.WithContext(dbc.Ctx).Model(&types.Client{}), f, "name", "contact", "country")
	if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *clientRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.Client{}).Where("id = ?", id).Updates(updates).Error
}

func (r *clientRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Client{}).Error
}

func (r *clientRepo) NameExists(dbc dbctx.Context, value string, excludeID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Client{}).Where("name = ?", value)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
