package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/cargoledger-backend/internal/http/response"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/services"
)

type LoadingSheetHandler struct {
	log      *logger.Logger
	sheets   services.LoadingSheetService
	overlays services.OverlayService
}

func NewLoadingSheetHandler(log *logger.Logger, sheets services.LoadingSheetService, overlays services.OverlayService) *LoadingSheetHandler {
	return &LoadingSheetHandler{log: log.With("handler", "LoadingSheetHandler"), sheets: sheets, overlays: overlays}
}

// GET /api/loading-sheets/:id
func (h *LoadingSheetHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.sheets.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"sheet": row})
}

// PATCH /api/loading-sheets/:id
func (h *LoadingSheetHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.SheetPatch
	if !bindBody(c, &req) {
		return
	}
	row, err := h.sheets.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"sheet": row})
}

// DELETE /api/loading-sheets/:id
func (h *LoadingSheetHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sheets.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/loading-sheets/:id/items
func (h *LoadingSheetHandler) ListItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.sheets.ListItems(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"items": rows})
}

// POST /api/loading-sheets/:id/items
func (h *LoadingSheetHandler) CreateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.ItemInput
	if !bindBody(c, &req) {
		return
	}
	row, err := h.sheets.CreateItem(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"item": row})
}

// PUT /api/loading-sheets/:id/items
// body: { "items": [ ... ] }
func (h *LoadingSheetHandler) ReplaceItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Items []services.ItemInput `json:"items"`
	}
	if !bindBody(c, &req) {
		return
	}
	rows, err := h.sheets.ReplaceItems(c.Request.Context(), id, req.Items)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"items": rows})
}

// PATCH /api/loading-items/:id
func (h *LoadingSheetHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.ItemPatch
	if !bindBody(c, &req) {
		return
	}
	row, err := h.sheets.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"item": row})
}

// DELETE /api/loading-items/:id
func (h *LoadingSheetHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sheets.DeleteItem(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/loading-sheets/:id/bifurcation
func (h *LoadingSheetHandler) GetBifurcation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.overlays.GetBifurcation(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"bifurcation": row})
}

// PUT /api/loading-sheets/:id/bifurcation
func (h *LoadingSheetHandler) UpsertBifurcation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.BifurcationPatch
	if !bindBody(c, &req) {
		return
	}
	row, err := h.overlays.UpsertBifurcation(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"bifurcation": row})
}

// DELETE /api/loading-sheets/:id/bifurcation
func (h *LoadingSheetHandler) DeleteBifurcation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.overlays.DeleteBifurcation(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/loading-sheets/:id/warehouse
func (h *LoadingSheetHandler) GetWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.overlays.GetWarehouse(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"warehouse": row})
}

// PUT /api/loading-sheets/:id/warehouse
func (h *LoadingSheetHandler) UpsertWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.WarehousePatch
	if !bindBody(c, &req) {
		return
	}
	row, err := h.overlays.UpsertWarehouse(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"warehouse": row})
}

// DELETE /api/loading-sheets/:id/warehouse
func (h *LoadingSheetHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.overlays.DeleteWarehouse(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}
