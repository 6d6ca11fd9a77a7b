package activity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Type string

const (
	TypeCreate       Type = "CREATE"
	TypeUpdate       Type = "UPDATE"
	TypeDelete       Type = "DELETE"
	TypeStatusChange Type = "STATUS_CHANGE"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCreate, TypeUpdate, TypeDelete, TypeStatusChange:
		return true
	}
	return false
}

type Module string

const (
	ModuleContainers         Module = "containers"
	ModuleLoadingSheets      Module = "loading_sheets"
	ModuleBifurcation        Module = "bifurcation"
	ModuleWarehouse          Module = "warehouse"
	ModulePackingLists       Module = "packing_lists"
	ModuleInvoices           Module = "invoices"
	ModuleClientRecords      Module = "client_records"
	ModuleContainerSummaries Module = "container_summaries"
)

// AllModules is the registration order, also used as the feed tie-break order.
var AllModules = []Module{
	ModuleContainers,
	ModuleLoadingSheets,
	ModuleBifurcation,
	ModuleWarehouse,
	ModulePackingLists,
	ModuleInvoices,
	ModuleClientRecords,
	ModuleContainerSummaries,
}

func (m Module) Valid() bool {
	for _, known := range AllModules {
		if m == known {
			return true
		}
	}
	return false
}

// Record is one immutable audit row. Every module has its own table with this shape (indexes
// are created per table by the migrator); rows are never updated and never removed with the
// entity they describe.
type Record struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Module      Module         `gorm:"column:module;not null" json:"module"`
	EntityID    uuid.UUID      `gorm:"type:uuid;column:entity_id;not null" json:"entityId"`
	ActorID     *uuid.UUID     `gorm:"type:uuid;column:actor_id" json:"actorId,omitempty"`
	Type        Type           `gorm:"column:type;not null" json:"type"`
	Field       *string        `gorm:"column:field" json:"field,omitempty"`
	OldValue    *string        `gorm:"column:old_value" json:"oldValue,omitempty"`
	NewValue    *string        `gorm:"column:new_value" json:"newValue,omitempty"`
	Note        *string        `gorm:"column:note" json:"note,omitempty"`
	EntityLabel string         `gorm:"column:entity_label;not null;default:''" json:"entityLabel"`
	EntityCode  string         `gorm:"column:entity_code;not null;default:''" json:"entityCode"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;not null" json:"createdAt"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

// TableFor names the audit table of a module.
func TableFor(m Module) string { return string(m) + "_activity" }
