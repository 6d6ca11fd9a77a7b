package shipping

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type ContainerListFilter struct {
	Status string
	Search string
}

type ContainerRepo interface {
	Create(dbc dbctx.Context, rows []*types.Container) ([]*types.Container, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Container, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Container, error)
	GetByCode(dbc dbctx.Context, code string) (*types.Container, error)
	CodeExists(dbc dbctx.Context, code string, excludeID uuid.UUID) (bool, error)
	List(dbc dbctx.Context, f ContainerListFilter) ([]*types.Container, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type containerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContainerRepo(db *gorm.DB, baseLog *logger.Logger) ContainerRepo {
	return &containerRepo{db: db, log: baseLog.With("repo", "ContainerRepo")}
}

func (r *containerRepo) Create(dbc dbctx.Context, rows []*types.Container) ([]*types.Container, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Container{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *containerRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Container, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Container
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *containerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Container, error) {
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

func (r *containerRepo) GetByCode(dbc dbctx.Context, code string) (*types.Container, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Container
	if err := t.WithContext(dbc.Ctx).Where("code = ?", code).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *containerRepo) CodeExists(dbc dbctx.Context, code string, excludeID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Container{}).Where("code = ?", strings.TrimSpace(code))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *containerRepo) List(dbc dbctx.Context, f ContainerListFilter) ([]*types.Container, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Container{})
	if s := strings.TrimSpace(f.Status); s != "" {
		q = q.Where("status = ?", strings.ToUpper(s))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(code) LIKE ? OR LOWER(origin) LIKE ?", like, like)
	}
	var out []*types.Container
	if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *containerRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.Container{}).Where("id = ?", id).Updates(updates).Error
}

func (r *containerRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Container{}).Error
}
