package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// GetAllNotifications -> ?unread=true&limit=
func (nc *NotificationController) GetAllNotifications(c *gin.Context) {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	notifs, err := nc.Notifications.List(c.Request.Context(), c.Query("unread") == "true", limit)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := nc.Notifications.MarkRead(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", nil)
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	if err := nc.Notifications.MarkAllRead(c.Request.Context()); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}

func (nc *NotificationController) DeleteNotification(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if err := nc.Notifications.Delete(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", nil)
}
