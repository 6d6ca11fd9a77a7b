package records

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type InvoiceRepo interface {
	Create(dbc dbctx.Context, rows []*types.Invoice) ([]*types.Invoice, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Invoice, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.Invoice, error)
	InvoiceNoExists(dbc dbctx.Context, invoiceNo string, excludeID uuid.UUID) (bool, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error

	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type invoiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvoiceRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceRepo {
	return &invoiceRepo{db: db, log: baseLog.With("repo", "InvoiceRepo")}
}

func (r *invoiceRepo) Create(dbc dbctx.Context, rows []*types.Invoice) ([]*types.Invoice, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Invoice{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *invoiceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Invoice, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Invoice
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *invoiceRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.Invoice, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Invoice
	q := applyListFilter(t.WithContext(dbc.Ctx).Model(&types.Invoice{}), f, "invoice_no", "client_name")
	if err := q.Order("created_at DESC").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *invoiceRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Model(&types.Invoice{}).Where("id = ?", id).Updates(updates).Error
}

func (r *invoiceRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Invoice{}).Error
}

func (r *invoiceRepo) InvoiceNoExists(dbc dbctx.Context, value string, excludeID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Model(&types.Invoice{}).Where("invoice_no = ?", value)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
