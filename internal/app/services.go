package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/feed"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/keylock"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/realtime"
	"github.com/yungbote/cargoledger-backend/internal/services"
)

type Services struct {
	Actors             services.ActorService
	Auth               services.AuthService
	Containers         services.ContainerService
	LoadingSheets      services.LoadingSheetService
	Overlays           services.OverlayService
	PackingLists       services.PackingListService
	Invoices           services.InvoiceService
	Clients            services.ClientService
	ContainerSummaries services.ContainerSummaryService
	Activities         services.ActivityService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics, locker keylock.Locker, live realtime.Publisher) Services {
	log.Info("Wiring services...")

	hooks := aggregates.NewObservabilityHooks(metrics)
	runner := aggregates.NewGormTxRunner(db)
	rollup := aggregates.NewContainerRollup(aggregates.ContainerRollupDeps{
		BaseDeps:   aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: hooks},
		Containers: r.Container,
		Sheets:     r.LoadingSheet,
		Items:      r.LoadingItem,
		Locker:     locker,
	})

	registry := audit.DefaultRegistry(log)
	deps := services.MutationDeps{
		DB:      db,
		Log:     log,
		Hooks:   hooks,
		Runner:  runner,
		Audit:   audit.NewRecorder(registry, r.Activity, log, metrics),
		Rollup:  rollup,
		Metrics: metrics,
		Live:    live,
	}

	agg := feed.NewAggregator(
		feed.TableSources(activity.AllModules, r.Activity),
		feed.Config{SourceTimeout: cfg.SourceTimeout(), MaxLimit: cfg.Feed.MaxLimit, MaxWindow: cfg.Feed.MaxWindow},
		log,
		metrics,
	)

	actors := services.NewActorService(r.User, log)
	return Services{
		Actors:             actors,
		Auth:               services.NewAuthService(log, actors, cfg.JWTSecretKey),
		Containers:         services.NewContainerService(deps, r.Container, r.LoadingSheet, r.LoadingItem, r.Bifurcation, r.Warehouse),
		LoadingSheets:      services.NewLoadingSheetService(deps, r.Container, r.LoadingSheet, r.LoadingItem, r.Bifurcation, r.Warehouse),
		Overlays:           services.NewOverlayService(deps, r.Container, r.LoadingSheet, r.Bifurcation, r.Warehouse),
		PackingLists:       services.NewPackingListService(deps, r.PackingList),
		Invoices:           services.NewInvoiceService(deps, r.Invoice),
		Clients:            services.NewClientService(deps, r.Client),
		ContainerSummaries: services.NewContainerSummaryService(deps, r.ContainerSummary),
		Activities:         services.NewActivityService(agg, r.Activity, registry, log),
	}
}
