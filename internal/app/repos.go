package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type Repos struct {
	User             repos.UserRepo
	Container        repos.ContainerRepo
	LoadingSheet     repos.LoadingSheetRepo
	LoadingItem      repos.LoadingItemRepo
	Bifurcation      repos.BifurcationRepo
	Warehouse        repos.WarehouseRepo
	PackingList      repos.PackingListRepo
	Invoice          repos.InvoiceRepo
	Client           repos.ClientRepo
	ContainerSummary repos.ContainerSummaryRepo
	Activity         repos.ActivityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		Container:        repos.NewContainerRepo(db, log),
		LoadingSheet:     repos.NewLoadingSheetRepo(db, log),
		LoadingItem:      repos.NewLoadingItemRepo(db, log),
		Bifurcation:      repos.NewBifurcationRepo(db, log),
		Warehouse:        repos.NewWarehouseRepo(db, log),
		PackingList:      repos.NewPackingListRepo(db, log),
		Invoice:          repos.NewInvoiceRepo(db, log),
		Client:           repos.NewClientRepo(db, log),
		ContainerSummary: repos.NewContainerSummaryRepo(db, log),
		Activity:         repos.NewActivityRepo(db, log),
	}
}
