package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/utils"
)

// WebSocketAuthMiddleware authenticates from ?token= because browsers cannot set headers on
// a websocket handshake.
func WebSocketAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}
		if token == "" {
			utils.RespondAppError(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.RespondAppError(c, err)
			c.Abort()
			return
		}

		setIdentity(c, user, token)
		c.Next()
	}
}
