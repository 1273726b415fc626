package httpapi

import (
	"net/http"
	"strings"

	"github.com/dberezin/securenotes/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity is the authenticated caller bound to the request context by
// authRequired and consumed by the note handlers.
type Identity struct {
	Username string
	UserID   string
}

// authRequired is the access guard in front of every protected route.
// A missing Authorization header is 401; a present but malformed, badly
// signed or expired bearer token is 403. On success the decoded identity is
// bound to the request and the chain continues. Nothing here touches stored
// state.
func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	c.Set(identityKey, Identity{Username: claims.Username, UserID: claims.UserID})
	c.Next()
}

func callerIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
