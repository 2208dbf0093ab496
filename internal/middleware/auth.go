package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/medrec-hq/medrec-api/internal/authz"
	"github.com/medrec-hq/medrec-api/internal/handler"
	"github.com/medrec-hq/medrec-api/internal/service/auth"
)

const (
	actorCacheTTL     = 30 * time.Second
	actorCacheCleanup = 5 * time.Minute
)

type AuthMiddleware struct {
	authService *auth.Service
	// Short-lived actor cache: avoids re-reading the user and profile rows
	// on every request of a burst. The TTL bounds how long a department
	// change can lag behind in concurrent requests.
	actors *cache.Cache
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		actors:      cache.New(actorCacheTTL, actorCacheCleanup),
	}
}

// Authenticate verifies the bearer token, resolves the actor and sets both
// in the request context. Every downstream operation receives the actor
// explicitly; nothing reads ambient auth state.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		var actor authz.Actor
		if cached, found := m.actors.Get(claims.UserID.String()); found {
			actor = cached.(authz.Actor)
		} else {
			actor, err = m.authService.ResolveActor(c.Request.Context(), claims)
			if err != nil {
				handler.RespondError(c, err)
				return
			}
			m.actors.Set(claims.UserID.String(), actor, cache.DefaultExpiration)
		}

		c.Set(handler.ContextActor, actor)
		c.Set(handler.ContextToken, parts[1])
		c.Set(handler.ContextUserID, claims.UserID.String())
		c.Set(handler.ContextUserEml, claims.Email)
		c.Next()
	}
}

// InvalidateActor drops a cached actor, used after profile mutations so a
// doctor's department change is visible to their own next request.
func (m *AuthMiddleware) InvalidateActor(userID string) {
	m.actors.Delete(userID)
}
