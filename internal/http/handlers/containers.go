package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	"github.com/yungbote/cargoledger-backend/internal/http/response"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/services"
)

type ContainerHandler struct {
	log        *logger.Logger
	containers services.ContainerService
	sheets     services.LoadingSheetService
}

func NewContainerHandler(log *logger.Logger, containers services.ContainerService, sheets services.LoadingSheetService) *ContainerHandler {
	return &ContainerHandler{log: log.With("handler", "ContainerHandler"), containers: containers, sheets: sheets}
}

// GET /api/containers?status=&search=
func (h *ContainerHandler) List(c *gin.Context) {
	rows, err := h.containers.List(c.Request.Context(), repos.ContainerListFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Search: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"containers": rows})
}

// GET /api/containers/:id
func (h *ContainerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.containers.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"container": row})
}

// POST /api/containers
func (h *ContainerHandler) Create(c *gin.Context) {
	var req services.ContainerInput
	if !bindBody(c, &req) {
		return
	}
	row, err := h.containers.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"container": row})
}

// PATCH /api/containers/:id
func (h *ContainerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.ContainerPatch
	if !bindBody(c, &req) {
		return
	}
	row, err := h.containers.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"container": row})
}

// DELETE /api/containers/:id
func (h *ContainerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.containers.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /api/containers/:id/recalculate
func (h *ContainerHandler) Recalculate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	totals, err := h.containers.Recalculate(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"totals": totals})
}

// GET /api/containers/:id/sheets
func (h *ContainerHandler) ListSheets(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.sheets.ListByContainer(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"sheets": rows})
}

// POST /api/containers/:id/sheets
func (h *ContainerHandler) CreateSheet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.SheetInput
	if !bindBody(c, &req) {
		return
	}
	row, err := h.sheets.Create(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"sheet": row})
}
