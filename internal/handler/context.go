package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/medrec-hq/medrec-api/internal/authz"
)

// Context keys set by the authentication middleware.
const (
	ContextActor   = "actor"
	ContextToken   = "token"
	ContextUserID  = "userID"
	ContextUserEml = "userEmail"
)

// ActorFromContext returns the authorization view of the authenticated
// user, as resolved by the authentication middleware.
func ActorFromContext(c *gin.Context) (authz.Actor, bool) {
	v, exists := c.Get(ContextActor)
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	return actor, ok
}
