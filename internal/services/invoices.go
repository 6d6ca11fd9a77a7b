package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/domain/records"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/patch"
)

const profileInvoices = "invoices"

type InvoiceInput struct {
	InvoiceNo  string          `json:"invoiceNo"`
	ClientName string          `json:"clientName"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	IssueDate  *patch.Date     `json:"issueDate"`
}

type InvoicePatch struct {
	InvoiceNo  patch.Field[string]          `json:"invoiceNo"`
	ClientName patch.Field[string]          `json:"clientName"`
	Amount     patch.Field[decimal.Decimal] `json:"amount"`
	Currency   patch.Field[string]          `json:"currency"`
	Status     patch.Field[string]          `json:"status"`
	IssueDate  patch.Field[patch.Date]      `json:"issueDate"`
}

type InvoiceService interface {
	List(ctx context.Context, f repos.ListFilter) ([]*types.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Invoice, error)
	Create(ctx context.Context, in InvoiceInput) (*types.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, p InvoicePatch) (*types.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	mutator
	repo repos.InvoiceRepo
}

func NewInvoiceService(deps MutationDeps, repo repos.InvoiceRepo) InvoiceService {
	return &invoiceService{
		mutator: newMutator(deps, deps.Log.With("service", "InvoiceService")),
		repo:    repo,
	}
}

func validInvoiceStatus(s string) bool {
	switch s {
	case records.InvoiceStatusDraft, records.InvoiceStatusIssued, records.InvoiceStatusPaid, records.InvoiceStatusVoid:
		return true
	}
	return false
}

func (s *invoiceService) List(ctx context.Context, f repos.ListFilter) ([]*types.Invoice, error) {
	out, err := s.repo.List(dbctx.Context{Ctx: ctx}, f)
	if err != nil {
		return nil, aggregates.MapError("invoices.list", err)
	}
	return out, nil
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*types.Invoice, error) {
	row, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError("invoices.get", err)
	}
	if row == nil {
		return nil, notFound("invoices.get", "invoice not found")
	}
	return row, nil
}

func (s *invoiceService) Create(ctx context.Context, in InvoiceInput) (*types.Invoice, error) {
	const op = "invoices.create"
	no := strings.TrimSpace(in.InvoiceNo)
	if no == "" {
		return nil, invalid(op, "invoiceNo is required")
	}
	if in.Amount.IsNegative() {
		return nil, invalid(op, "amount must not be negative")
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = records.InvoiceStatusDraft
	}
	if !validInvoiceStatus(status) {
		return nil, invalid(op, "invalid invoice status "+status)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	row := &types.Invoice{
		InvoiceNo:  no,
		ClientName: strings.TrimSpace(in.ClientName),
		Amount:     in.Amount,
		Currency:   currency,
		Status:     status,
		IssueDate:  patch.DatePtr(in.IssueDate),
	}
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		taken, err := s.repo.InvoiceNoExists(dbc, no, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return conflict(op, "invoice "+no+" already exists")
		}
		if _, err := s.repo.Create(dbc, []*types.Invoice{row}); err != nil {
			return err
		}
		return s.record(dbc, audit.Change{Profile: profileInvoices, EntityID: row.ID, After: row.Snapshot(), EntityCode: row.ClientName})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, p InvoicePatch) (*types.Invoice, error) {
	const op = "invoices.update"
	var out *types.Invoice
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "invoice not found")
		}
		next := *cur
		if p.InvoiceNo.Set {
			no := strings.TrimSpace(p.InvoiceNo.Value)
			if no == "" {
				return invalid(op, "invoiceNo cannot be empty")
			}
			if no != cur.InvoiceNo {
				taken, err := s.repo.InvoiceNoExists(dbc, no, id)
				if err != nil {
					return err
				}
				if taken {
					return conflict(op, "invoice "+no+" already exists")
				}
			}
			next.InvoiceNo = no
		}
		if p.ClientName.Set {
			next.ClientName = strings.TrimSpace(p.ClientName.Value)
		}
		if p.Amount.Set {
			if p.Amount.Value.IsNegative() {
				return invalid(op, "amount must not be negative")
			}
			next.Amount = p.Amount.Value
		}
		if p.Currency.Set {
			next.Currency = strings.ToUpper(strings.TrimSpace(p.Currency.Value))
		}
		if p.Status.Set {
			status := strings.ToUpper(strings.TrimSpace(p.Status.Value))
			if !validInvoiceStatus(status) {
				return invalid(op, "invalid invoice status "+status)
			}
			next.Status = status
		}
		if p.IssueDate.Set {
			next.IssueDate = p.IssueDate.Value.Ptr()
		}
		if err := s.repo.UpdateFields(dbc, id, map[string]interface{}{
			"invoice_no":  next.InvoiceNo,
			"client_name": next.ClientName,
			"amount":      next.Amount,
			"currency":    next.Currency,
			"status":      next.Status,
			"issue_date":  next.IssueDate,
			"updated_at":  time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileInvoices,
			EntityID:   id,
			Before:     cur.Snapshot(),
			After:      next.Snapshot(),
			EntityCode: next.ClientName,
		}); err != nil {
			return err
		}
		out, err = s.repo.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "invoices.delete"
	return s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "invoice not found")
		}
		if err := s.record(dbc, audit.Change{Profile: profileInvoices, EntityID: id, Before: cur.Snapshot(), EntityCode: cur.ClientName}); err != nil {
			return err
		}
		return s.repo.FullDeleteByIDs(dbc, []uuid.UUID{id})
	})
}
