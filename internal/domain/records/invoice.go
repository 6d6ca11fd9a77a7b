package records

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft  = "DRAFT"
	InvoiceStatusIssued = "ISSUED"
	InvoiceStatusPaid   = "PAID"
	InvoiceStatusVoid   = "VOID"
)

type Invoice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNo  string          `gorm:"column:invoice_no;not null;uniqueIndex" json:"invoiceNo"`
	ClientName string          `gorm:"column:client_name;not null;default:''" json:"clientName"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(20,4);not null;default:0" json:"amount"`
	Currency   string          `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	Status     string          `gorm:"column:status;not null;default:'DRAFT';index" json:"status"`
	IssueDate  *time.Time      `gorm:"column:issue_date;type:date" json:"issueDate,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoice" }

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = InvoiceStatusDraft
	}
	if i.Currency == "" {
		i.Currency = "USD"
	}
	return nil
}

func (i *Invoice) Snapshot() map[string]any {
	if i == nil {
		return nil
	}
	return map[string]any{
		"invoice_no":  i.InvoiceNo,
		"client_name": i.ClientName,
		"amount":      i.Amount,
		"currency":    i.Currency,
		"status":      i.Status,
		"issue_date":  i.IssueDate,
	}
}
