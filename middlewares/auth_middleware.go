package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUser   = "user"
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextToken  = "token"
)

// Authenticator resolves a bearer token to its user; *services.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware requires a valid bearer token.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, apperrors.ErrUnauthorized)
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

// OptionalAuth lets requests without a bearer token through anonymously. A token that is sent
// must be valid: an expired or revoked one is rejected, not downgraded to a guest.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
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

// CurrentUser returns the user set by AuthMiddleware or OptionalAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentActor is CurrentUser in the form the services take. It is nil for anonymous requests.
func CurrentActor(c *gin.Context) *services.Actor {
	user, ok := CurrentUser(c)
	if !ok {
		return nil
	}
	return &services.Actor{UserID: user.ID, Role: user.Role}
}

func setIdentity(c *gin.Context, user *models.User, token string) {
	c.Set(ContextUser, user)
	c.Set(ContextUserID, user.ID)
	c.Set(ContextRole, user.Role)
	c.Set(ContextToken, token)
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
