package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mammadov115/codeshift-blog/internal/service"
	"gorm.io/gorm"
)

const actorContextKey = "actor"

// ResolveActor turns a bearer access token into an Actor for the request.
// Requests without an Authorization header proceed as the anonymous actor;
// permission rules downstream decide what anonymous may do. A present but
// invalid token is rejected outright with 401.
func ResolveActor(gdb *gorm.DB, tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Set(actorContextKey, service.Anonymous())
			c.Next()
			return
		}

		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header must use the Bearer scheme."})
			return
		}

		claims, err := tokens.ParseAccess(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired."})
			return
		}

		actor, err := service.ResolveActor(gdb, claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Could not resolve the requesting account."})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// currentActor returns the actor placed on the context by ResolveActor.
func currentActor(c *gin.Context) service.Actor {
	if value, ok := c.Get(actorContextKey); ok {
		if actor, ok := value.(service.Actor); ok {
			return actor
		}
	}
	return service.Anonymous()
}
