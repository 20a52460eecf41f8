package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hirafie/hirafie-backend/internal/domain/rights"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

const actorKey = "httpapi.actor"

// authenticate resolves the bearer token to a user and checks the static
// rights table for the required actions. The rights check runs before any
// resource is loaded, so a role that can never perform the action gets 403
// without revealing whether the resource exists.
func (h *Handler) authenticate(required ...rights.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond(c, http.StatusUnauthorized, user.ErrUnauthenticated.Error())
			c.Abort()
			return
		}

		actor, err := h.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.respondError(c, err)
			c.Abort()
			return
		}

		for _, action := range required {
			if !rights.Has(actor.Role, action) {
				respond(c, http.StatusForbidden, user.ErrForbidden.Error())
				c.Abort()
				return
			}
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// actor returns the authenticated user set by the authenticate middleware.
func actor(c *gin.Context) *user.User {
	return c.MustGet(actorKey).(*user.User)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
