package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusmess/foodcourt/internal/core/domain"
)

const identityKey = "identity"

// Identity parses the session identity injected by the upstream gateway as
// X-User-* headers. Authentication itself happens outside this service; an
// absent X-User-Id simply leaves the identity empty.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := domain.Identity{
			Identifier: c.GetHeader("X-User-Id"),
			Name:       c.GetHeader("X-User-Name"),
			Role:       domain.Role(c.GetHeader("X-User-Role")),
			Profile: domain.Profile{
				MessID:     c.GetHeader("X-Mess-Id"),
				RollNumber: c.GetHeader("X-Roll-Number"),
				Contact:    c.GetHeader("X-Contact"),
			},
		}
		c.Set(identityKey, ident)
		c.Next()
	}
}

// RequireIdentity rejects requests without an established identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identityFrom(c).Identifier == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "Authentication required.",
			})
			return
		}
		c.Next()
	}
}

// RequireRoles rejects identities outside the allowed roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := identityFrom(c)
		for _, role := range roles {
			if ident.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"status":  false,
			"message": "Insufficient permissions.",
		})
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(identityKey); ok {
		if ident, ok := v.(domain.Identity); ok {
			return ident
		}
	}
	return domain.Identity{}
}
