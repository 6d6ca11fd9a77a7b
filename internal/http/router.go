package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/cargoledger-backend/internal/http/handlers"
	httpMW "github.com/yungbote/cargoledger-backend/internal/http/middleware"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler           *httpH.HealthHandler
	ContainerHandler        *httpH.ContainerHandler
	LoadingSheetHandler     *httpH.LoadingSheetHandler
	PackingListHandler      *httpH.PackingListHandler
	InvoiceHandler          *httpH.InvoiceHandler
	ClientHandler           *httpH.ClientHandler
	ContainerSummaryHandler *httpH.ContainerSummaryHandler
	ActivityHandler         *httpH.ActivityHandler
	RealtimeHandler         *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Ops
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Containers
	if h := cfg.ContainerHandler; h != nil {
		api.GET("/containers", h.List)
		api.POST("/containers", h.Create)
		api.GET("/containers/:id", h.Get)
		api.PATCH("/containers/:id", h.Update)
		api.PUT("/containers/:id", h.Update)
		api.DELETE("/containers/:id", h.Delete)
		api.POST("/containers/:id/recalculate", h.Recalculate)
		api.GET("/containers/:id/sheets", h.ListSheets)
		api.POST("/containers/:id/sheets", h.CreateSheet)
	}

	// Loading sheets, items, overlays
	if h := cfg.LoadingSheetHandler; h != nil {
		api.GET("/loading-sheets/:id", h.Get)
		api.PATCH("/loading-sheets/:id", h.Update)
		api.PUT("/loading-sheets/:id", h.Update)
		api.DELETE("/loading-sheets/:id", h.Delete)

		api.GET("/loading-sheets/:id/items", h.ListItems)
		api.POST("/loading-sheets/:id/items", h.CreateItem)
		api.PUT("/loading-sheets/:id/items", h.ReplaceItems)
		api.PATCH("/loading-items/:id", h.UpdateItem)
		api.DELETE("/loading-items/:id", h.DeleteItem)

		api.GET("/loading-sheets/:id/bifurcation", h.GetBifurcation)
		api.PUT("/loading-sheets/:id/bifurcation", h.UpsertBifurcation)
		api.DELETE("/loading-sheets/:id/bifurcation", h.DeleteBifurcation)
		api.GET("/loading-sheets/:id/warehouse", h.GetWarehouse)
		api.PUT("/loading-sheets/:id/warehouse", h.UpsertWarehouse)
		api.DELETE("/loading-sheets/:id/warehouse", h.DeleteWarehouse)
	}

	if h := cfg.PackingListHandler; h != nil {
		crud(api, "/packing-lists", h)
	}
	if h := cfg.InvoiceHandler; h != nil {
		crud(api, "/invoices", h)
	}
	if h := cfg.ClientHandler; h != nil {
		crud(api, "/clients", h)
		api.POST("/clients/:id/archive", h.Archive)
		api.POST("/clients/:id/reactivate", h.Reactivate)
	}
	if h := cfg.ContainerSummaryHandler; h != nil {
		crud(api, "/container-summaries", h)
		api.POST("/container-summaries/:id/archive", h.Archive)
	}

	// Activity feed
	if h := cfg.ActivityHandler; h != nil {
		api.GET("/activities", h.List)
		api.GET("/activities/modules", h.Modules)
		api.GET("/activities/history/:module/:id", h.History)
	}
	if h := cfg.RealtimeHandler; h != nil {
		api.GET("/activities/stream", h.Stream)
	}

	return r
}

type crudRoutes interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

func crud(g *gin.RouterGroup, base string, h crudRoutes) {
	g.GET(base, h.List)
	g.POST(base, h.Create)
	g.GET(base+"/:id", h.Get)
	g.PATCH(base+"/:id", h.Update)
	g.PUT(base+"/:id", h.Update)
	g.DELETE(base+"/:id", h.Delete)
}
