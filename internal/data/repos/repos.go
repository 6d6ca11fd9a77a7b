package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/cargoledger-backend/internal/data/repos/activity"
	"github.com/yungbote/cargoledger-backend/internal/data/repos/records"
	"github.com/yungbote/cargoledger-backend/internal/data/repos/shipping"
	"github.com/yungbote/cargoledger-backend/internal/data/repos/user"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type ContainerRepo = shipping.ContainerRepo
type LoadingSheetRepo = shipping.LoadingSheetRepo
type LoadingItemRepo = shipping.LoadingItemRepo
type BifurcationRepo = shipping.BifurcationRepo
type WarehouseRepo = shipping.WarehouseRepo

type PackingListRepo = records.PackingListRepo
type InvoiceRepo = records.InvoiceRepo
type ClientRepo = records.ClientRepo
type ContainerSummaryRepo = records.ContainerSummaryRepo

type ActivityRepo = activity.ActivityRepo

type ContainerListFilter = shipping.ContainerListFilter
type ListFilter = records.ListFilter
type ActivityQuery = activity.Query
type ActivityRow = activity.Row

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewContainerRepo(db *gorm.DB, baseLog *logger.Logger) ContainerRepo {
	return shipping.NewContainerRepo(db, baseLog)
}
func NewLoadingSheetRepo(db *gorm.DB, baseLog *logger.Logger) LoadingSheetRepo {
	return shipping.NewLoadingSheetRepo(db, baseLog)
}
func NewLoadingItemRepo(db *gorm.DB, baseLog *logger.Logger) LoadingItemRepo {
	return shipping.NewLoadingItemRepo(db, baseLog)
}
func NewBifurcationRepo(db *gorm.DB, baseLog *logger.Logger) BifurcationRepo {
	return shipping.NewBifurcationRepo(db, baseLog)
}
func NewWarehouseRepo(db *gorm.DB, baseLog *logger.Logger) WarehouseRepo {
	return shipping.NewWarehouseRepo(db, baseLog)
}

func NewPackingListRepo(db *gorm.DB, baseLog *logger.Logger) PackingListRepo {
	return records.NewPackingListRepo(db, baseLog)
}
func NewInvoiceRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceRepo {
	return records.NewInvoiceRepo(db, baseLog)
}
func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return records.NewClientRepo(db, baseLog)
}
func NewContainerSummaryRepo(db *gorm.DB, baseLog *logger.Logger) ContainerSummaryRepo {
	return records.NewContainerSummaryRepo(db, baseLog)
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return activity.NewActivityRepo(db, baseLog)
}
