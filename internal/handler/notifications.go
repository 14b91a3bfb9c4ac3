package handler

import (
	"net/http"

	"inventra/internal/dto"
	"inventra/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationsHandler serves the caller's feed; admins see every recipient.
type NotificationsHandler struct{ svc service.NotificationService }

func NewNotificationsHandler(svc service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

// List godoc
// @Summary List notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param isRead query bool false "Filter by read state"
// @Param type query string false "reorder | restock | audit | system"
// @Param limit query int false "Max results"
// @Success 200 {array} dto.NotificationResponse
// @Router /api/notifications [get]
func (h *NotificationsHandler) List(c *gin.Context) {
	var filter dto.NotificationFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.GetAll(c.Request.Context(), viewer(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *NotificationsHandler) UnreadCount(c *gin.Context) {
	n, err := h.svc.GetUnreadCount(c.Request.Context(), viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.UnreadCountResponse{Count: n})
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.MarkAsRead(c.Request.Context(), viewer(c), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id.String(), "isRead": true})
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	n, err := h.svc.MarkAllAsRead(c.Request.Context(), viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.MarkAllReadResponse{Updated: n})
}
