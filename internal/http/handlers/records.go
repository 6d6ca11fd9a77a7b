package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/http/response"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/services"
)

// recordService is the shape shared by the packing list, invoice, client and summary services.
type recordService[T, In, P any] interface {
	List(ctx context.Context, f repos.ListFilter) ([]*T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id uuid.UUID, p P) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecordHandler serves CRUD for one record module. one/many are the response keys.
type RecordHandler[T, In, P any] struct {
	log  *logger.Logger
	svc  recordService[T, In, P]
	one  string
	many string
}

func newRecordHandler[T, In, P any](log *logger.Logger, name, one, many string, svc recordService[T, In, P]) *RecordHandler[T, In, P] {
	return &RecordHandler[T, In, P]{log: log.With("handler", name), svc: svc, one: one, many: many}
}

type (
	PackingListHandler = RecordHandler[types.PackingList, services.PackingListInput, services.PackingListPatch]
	InvoiceHandler     = RecordHandler[types.Invoice, services.InvoiceInput, services.InvoicePatch]
)

func NewPackingListHandler(log *logger.Logger, svc services.PackingListService) *PackingListHandler {
	return newRecordHandler[types.PackingList, services.PackingListInput, services.PackingListPatch](log, "PackingListHandler", "packingList", "packingLists", svc)
}

func NewInvoiceHandler(log *logger.Logger, svc services.InvoiceService) *InvoiceHandler {
	return newRecordHandler[types.Invoice, services.InvoiceInput, services.InvoicePatch](log, "InvoiceHandler", "invoice", "invoices", svc)
}

func (h *RecordHandler[T, In, P]) List(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), listFilter(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{h.many: rows})
}

func (h *RecordHandler[T, In, P]) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{h.one: row})
}

func (h *RecordHandler[T, In, P]) Create(c *gin.Context) {
	var req In
	if !bindBody(c, &req) {
		return
	}
	row, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{h.one: row})
}

func (h *RecordHandler[T, In, P]) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req P
	if !bindBody(c, &req) {
		return
	}
	row, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{h.one: row})
}

func (h *RecordHandler[T, In, P]) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondNoContent(c)
}

// transition runs a status change such as archive or reactivate.
func (h *RecordHandler[T, In, P]) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*T, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	row, err := fn(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{h.one: row})
}

type ClientHandler struct {
	*RecordHandler[types.Client, services.ClientInput, services.ClientPatch]
	svc services.ClientService
}

func NewClientHandler(log *logger.Logger, svc services.ClientService) *ClientHandler {
	return &ClientHandler{
		RecordHandler: newRecordHandler[types.Client, services.ClientInput, services.ClientPatch](log, "ClientHandler", "client", "clients", svc),
		svc:           svc,
	}
}

// POST /api/clients/:id/archive
func (h *ClientHandler) Archive(c *gin.Context) { h.transition(c, h.svc.Archive) }

// POST /api/clients/:id/reactivate
func (h *ClientHandler) Reactivate(c *gin.Context) { h.transition(c, h.svc.Reactivate) }

type ContainerSummaryHandler struct {
	*RecordHandler[types.ContainerSummary, services.ContainerSummaryInput, services.ContainerSummaryPatch]
	svc services.ContainerSummaryService
}

func NewContainerSummaryHandler(log *logger.Logger, svc services.ContainerSummaryService) *ContainerSummaryHandler {
	return &ContainerSummaryHandler{
		RecordHandler: newRecordHandler[types.ContainerSummary, services.ContainerSummaryInput, services.ContainerSummaryPatch](log, "ContainerSummaryHandler", "containerSummary", "containerSummaries", svc),
		svc:           svc,
	}
}

// POST /api/container-summaries/:id/archive
func (h *ContainerSummaryHandler) Archive(c *gin.Context) { h.transition(c, h.svc.Archive) }
