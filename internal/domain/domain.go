package domain

import (
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/domain/records"
	"github.com/yungbote/cargoledger-backend/internal/domain/shipping"
	"github.com/yungbote/cargoledger-backend/internal/domain/user"
)

type (
	Container        = shipping.Container
	LoadingSheet     = shipping.LoadingSheet
	LoadingItem      = shipping.LoadingItem
	Bifurcation      = shipping.Bifurcation
	WarehouseEntry   = shipping.WarehouseEntry
	PackingList      = records.PackingList
	Invoice          = records.Invoice
	Client           = records.Client
	ContainerSummary = records.ContainerSummary
	ActivityRecord   = activity.Record
	User             = user.User
)

// Models lists every table owned by gorm AutoMigrate. Activity tables are created per
// module separately because they share one struct.
func Models() []any {
	return []any{
		&User{},
		&Container{},
		&LoadingSheet{},
		&LoadingItem{},
		&Bifurcation{},
		&WarehouseEntry{},
		&PackingList{},
		&Invoice{},
		&Client{},
		&ContainerSummary{},
	}
}
