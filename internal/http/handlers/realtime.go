package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/http/response"
	"github.com/yungbote/cargoledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/activities/stream?module=
func (h *RealtimeHandler) Stream(c *gin.Context) {
	channel := realtime.ChannelAll
	if m := strings.ToLower(strings.TrimSpace(c.Query("module"))); m != "" && m != "all" {
		if !activity.Module(m).Valid() {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("unknown module "+strconv.Quote(m)))
			return
		}
		channel = realtime.ModuleChannel(m)
	}

	userID := uuid.Nil
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		userID = rd.UserID
	}
	client := h.hub.NewClient(userID)
	h.hub.AddChannel(client, channel)
	defer h.hub.CloseClient(client)

	h.log.Debug("activity stream open", "client_id", client.ID, "actor_id", userID, "channel", channel)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
