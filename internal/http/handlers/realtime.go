package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toshikazuyokoi/process-interview-backend/internal/http/response"
	"github.com/toshikazuyokoi/process-interview-backend/internal/platform/logger"
	"github.com/toshikazuyokoi/process-interview-backend/internal/realtime"
	"github.com/toshikazuyokoi/process-interview-backend/internal/requestdata"
)

type RealtimeHandler struct {
	log   *logger.Logger
	rooms *realtime.RoomManager
}

func NewRealtimeHandler(log *logger.Logger, rooms *realtime.RoomManager) *RealtimeHandler {
	return &RealtimeHandler{log: log, rooms: rooms}
}

// GET /api/sessions/:id/stream
//
// Joins the session room and serves events over SSE until the client
// disconnects. EventSource cannot set headers, so auth also accepts a
// token query parameter upstream in the auth middleware.
func (h *RealtimeHandler) Stream(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	sessionID := c.Param("id")

	conn := h.rooms.NewConn()
	if err := h.rooms.Join(conn, sessionID, userID); err != nil {
		h.rooms.Disconnect(conn)
		response.RespondDomainError(c, err)
		return
	}
	defer h.rooms.Disconnect(conn)

	h.log.Info("Realtime stream open", "session_id", sessionID, "user_id", userID, "conn_id", conn.ID.String())

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case env, ok := <-conn.Outbound:
			if !ok {
				return false
			}
			data, err := json.Marshal(env.Data)
			if err != nil {
				h.log.Error("Failed to encode realtime event", "error", err, "event", env.Event)
				return true
			}
			c.SSEvent(string(env.Event), string(data))
			return true
		case <-conn.Done():
			return false
		case <-clientGone:
			return false
		}
	})

	h.log.Info("Realtime stream closed", "session_id", sessionID, "conn_id", conn.ID.String())
}

// POST /api/sessions/:id/typing
//
// Relays a typing indicator to the other members of the session room. The
// sender must hold an open stream on the session; indicators are not
// replicated across instances.
func (h *RealtimeHandler) Typing(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	sessionID := c.Param("id")

	var ind realtime.TypingIndicator
	if err := c.ShouldBindJSON(&ind); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	ind.SessionID = sessionID

	connID, err := h.rooms.MemberFor(sessionID, userID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if err := h.rooms.Typing(connID, ind); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"delivered": true})
}
