package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/preference"
	"github.com/apper-apps/mediconnect-code/internal/role"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
	"github.com/apper-apps/mediconnect-code/pkg/httputil"
)

const (
	// HeaderRole selects the role for a single request.
	HeaderRole = "X-Portal-Role"
	// HeaderClientID identifies the browser whose role preference is stored.
	HeaderClientID = "X-Client-ID"

	ContextRole     = "role"
	ContextClientID = "client_id"
)

// ResolveRole stores the active role of the request in the context. The
// role query parameter overrides the header.
func ResolveRole(resolver *preference.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		explicit := c.Query("role")
		if explicit == "" {
			explicit = c.GetHeader(HeaderRole)
		}
		clientID := ClientID(c)

		r := resolver.Resolve(c.Request.Context(), explicit, clientID)
		c.Set(ContextRole, string(r))
		c.Set(ContextClientID, clientID)
		c.Next()
	}
}

// ClientID falls back to the client address when no id header is sent.
func ClientID(c *gin.Context) string {
	if id := c.GetHeader(HeaderClientID); id != "" {
		return id
	}
	return c.ClientIP()
}

// RoleFrom returns the role set by ResolveRole, or the default role.
func RoleFrom(c *gin.Context) model.Role {
	if r, ok := role.Parse(c.GetString(ContextRole)); ok {
		return r
	}
	return role.Default
}

// Require aborts with 403 unless the active role holds capability.
func Require(capability role.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := RoleFrom(c)
		if !role.Can(r, capability) {
			httputil.RespondWithError(c, errors.NewForbidden(fmt.Sprintf("role %s is not allowed to %s", r, capability)))
			return
		}
		c.Next()
	}
}
