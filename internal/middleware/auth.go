package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rpatel/forum-api/internal/handler"
	"github.com/rpatel/forum-api/internal/model"
	"github.com/rpatel/forum-api/pkg/auth"
)

// ContextAuthUser is the gin context key holding the authenticated caller.
const ContextAuthUser = "auth_user"

type AuthMiddleware struct {
	jwtService auth.JWTService
}

func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the bearer token and sets the caller in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			return
		}

		user, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			return
		}

		c.Set(ContextAuthUser, user)
		c.Next()
	}
}

// RequireModerator gates a route on moderator or admin authority.
func (m *AuthMiddleware) RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
			return
		}
		if !user.CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("moderator or admin privileges required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller placed by Authenticate.
func CurrentUser(c *gin.Context) (*model.AuthUser, bool) {
	value, exists := c.Get(ContextAuthUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.AuthUser)
	return user, ok
}
