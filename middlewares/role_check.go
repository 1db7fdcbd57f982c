package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/utils"
)

// RoleCheck lets the request through when the authenticated user has one of roles.
// Without an identity the answer is 401, with the wrong role 403.
func RoleCheck(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := CurrentUser(c)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%w: %s access required", apperrors.ErrForbidden, roles[0]))
		c.Abort()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RoleCheck(models.RoleAdmin)
}
