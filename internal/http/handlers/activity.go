package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/feed"
	"github.com/yungbote/cargoledger-backend/internal/http/response"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/services"
)

type ActivityHandler struct {
	log        *logger.Logger
	activities services.ActivityService
}

func NewActivityHandler(log *logger.Logger, activities services.ActivityService) *ActivityHandler {
	return &ActivityHandler{log: log.With("handler", "ActivityHandler"), activities: activities}
}

// GET /api/activities?module=&type=&actorId=&search=&dateFrom=&dateTo=&page=&limit=
func (h *ActivityHandler) List(c *gin.Context) {
	f, err := feed.ParseFilter(c.Request.URL.Query(), h.activities.Bounds())
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	page, err := h.activities.Feed(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/activities/modules
func (h *ActivityHandler) Modules(c *gin.Context) {
	response.RespondOK(c, gin.H{"modules": h.activities.Modules()})
}

// GET /api/activities/history/:module/:id
func (h *ActivityHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.activities.History(c.Request.Context(), activity.Module(c.Param("module")), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"records": rows})
}
