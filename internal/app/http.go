package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apphttp "github.com/yungbote/cargoledger-backend/internal/http"
	httpH "github.com/yungbote/cargoledger-backend/internal/http/handlers"
	httpMW "github.com/yungbote/cargoledger-backend/internal/http/middleware"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health             *httpH.HealthHandler
	Containers         *httpH.ContainerHandler
	LoadingSheets      *httpH.LoadingSheetHandler
	PackingLists       *httpH.PackingListHandler
	Invoices           *httpH.InvoiceHandler
	Clients            *httpH.ClientHandler
	ContainerSummaries *httpH.ContainerSummaryHandler
	Activities         *httpH.ActivityHandler
	Realtime           *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:             httpH.NewHealthHandler(pingDB(db)),
		Containers:         httpH.NewContainerHandler(log, s.Containers, s.LoadingSheets),
		LoadingSheets:      httpH.NewLoadingSheetHandler(log, s.LoadingSheets, s.Overlays),
		PackingLists:       httpH.NewPackingListHandler(log, s.PackingLists),
		Invoices:           httpH.NewInvoiceHandler(log, s.Invoices),
		Clients:            httpH.NewClientHandler(log, s.Clients),
		ContainerSummaries: httpH.NewContainerSummaryHandler(log, s.ContainerSummaries),
		Activities:         httpH.NewActivityHandler(log, s.Activities),
		Realtime:           httpH.NewRealtimeHandler(log, hub),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, s.Auth)}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *gin.Engine {
	log.Info("Wiring router...")
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		CORSOrigins:    cfg.CORSOrigins,

		AuthMiddleware: mw.Auth,

		HealthHandler:           h.Health,
		ContainerHandler:        h.Containers,
		LoadingSheetHandler:     h.LoadingSheets,
		PackingListHandler:      h.PackingLists,
		InvoiceHandler:          h.Invoices,
		ClientHandler:           h.Clients,
		ContainerSummaryHandler: h.ContainerSummaries,
		ActivityHandler:         h.Activities,
		RealtimeHandler:         h.Realtime,
	})
}

func pingDB(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
