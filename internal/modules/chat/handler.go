package chat

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"craftmarket/internal/pkg/jwt"
	"craftmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
	hub *Hub
	jwt *jwt.Service
}

func NewHandler(svc *Service, hub *Hub, jwtSvc *jwt.Service) *Handler {
	return &Handler{svc: svc, hub: hub, jwt: jwtSvc}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/chats", h.Chats)
	protected.POST("/orders/:id/messages", h.Send)
	protected.GET("/orders/:id/messages", h.ListByOrder)
	protected.PATCH("/orders/:id/messages/read", h.MarkRead)
}

// RegisterWSRoute mounts the live endpoint. Auth rides in the token query
// parameter because browsers cannot set headers on WebSocket upgrades.
func (h *Handler) RegisterWSRoute(r gin.IRoutes) {
	r.GET("/ws/chat", h.HandleWebSocket)
}

func (h *Handler) Send(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order id")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), c.GetInt64("user_id"), orderID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) ListByOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order id")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.svc.ListByOrder(c.Request.Context(), c.GetInt64("user_id"), orderID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) MarkRead(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order id")
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), c.GetInt64("user_id"), orderID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked_read": n})
}

func (h *Handler) Chats(c *gin.Context) {
	result, err := h.svc.Chats(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket_upgrade_failed user_id=%d err=%v", claims.UserID, err)
		return
	}

	rooms := h.svc.RoomsFor(c.Request.Context(), claims.UserID)
	h.hub.ServeWS(conn, claims.UserID, rooms)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Order not found")
	case errors.Is(err, ErrAccessDenied):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}
