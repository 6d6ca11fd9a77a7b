package records

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type ContainerSummaryRepo interface {
	Create(dbc dbctx.Context, rows []*types.ContainerSummary) ([]*types.ContainerSummary, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContainerSummary, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.ContainerSummary, error)
	NamesWithBase(dbc dbctx.Context, base string) ([]string, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type containerSummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContainerSummaryRepo(db *gorm.DB, baseLog *logger.Logger) ContainerSummaryRepo {
	return &containerSummaryRepo{db: db, log: baseLog.With("repo", "ContainerSummaryRepo")}
}

func (r *containerSummaryRepo) Create(dbc dbctx.Context, rows []*types.ContainerSummary) ([]*types.ContainerSummary, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.ContainerSummary{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *containerSummaryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContainerSummary, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.ContainerSummary
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *containerSummaryRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.ContainerSummary, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.ContainerSummary
	q := applyListFilter(t.WithContext(dbc.Ctx).Model(&types.ContainerSummary{}), f, "name", "container_code")
	if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *containerSummaryRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.ContainerSummary{}).Where("id = ?", id).Updates(updates).Error
}

func (r *containerSummaryRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.ContainerSummary{}).Error
}

// NamesWithBase lists stored names equal to base or suffixed "base (n)".
func (r *containerSummaryRepo) NamesWithBase(dbc dbctx.Context, base string) ([]string, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return namesWithBase(t.WithContext(dbc.Ctx), &types.ContainerSummary{}, "name", base)
}
