package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/live"
	"github.com/yeremiapane/tablemate/middlewares"
	"github.com/yeremiapane/tablemate/utils"
)

type WebSocketController struct {
	Hub *live.Hub
}

func NewWebSocketController(hub *live.Hub) *WebSocketController {
	return &WebSocketController{Hub: hub}
}

// Connect upgrades an authenticated admin to the live reservation feed.
func (wc *WebSocketController) Connect(c *gin.Context) {
	if err := wc.Hub.Serve(c.Writer, c.Request, c.GetString(middlewares.ContextUserID)); err != nil {
		utils.ErrorLogger.Printf("WebSocket upgrade failed: %v", err)
	}
}
