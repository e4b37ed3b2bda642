package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	unreadOnly := c.Query("unread_only") == "true"

	items, unread, err := h.notifications.List(c.Request.Context(), actorFrom(c), unreadOnly, limit, offset)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	ok(c, gin.H{"items": items, "unread_count": unread})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid id"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), actorFrom(c), id); err != nil {
		fail(c, h.logger, err)
		return
	}
	okMessage(c, "notification marked as read", nil)
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), actorFrom(c)); err != nil {
		fail(c, h.logger, err)
		return
	}
	okMessage(c, "all notifications marked as read", nil)
}

// ExportRecap handles GET /api/reports/recap
func (h *Handlers) ExportRecap(c *gin.Context) {
	data, fileName, err := h.reports.Recap(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
