package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/service"
)

const currentPrincipalContextKey = "current-principal"

// AuthMiddleware authenticates the bearer token and stores the resulting
// principal on the request context. Every failure mode gets the same 401
// body so responses cannot be used to probe token or account state.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		principal, err := h.authService.Authenticate(ctx, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Code:    ErrCodeUnauthorized,
				Message: "authentication required",
			})
			return
		}

		c.Set(currentPrincipalContextKey, principal)
		c.Next()
	}
}

// RequirePolicy gates a route on the role-permission table before any
// resource is fetched. A principal failing either the permission or the
// role list gets a 403 regardless of whether the resource exists.
func (h *HTTPHandler) RequirePolicy(policy auth.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil || !policy.Allows(h.permissions, *principal) {
			c.AbortWithStatusJSON(http.StatusForbidden, APIError{
				Code:    ErrCodeForbidden,
				Message: "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated principal, or nil outside the
// auth middleware.
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	value, exists := c.Get(currentPrincipalContextKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// clientInfo extracts the request metadata recorded on sessions.
func clientInfo(c *gin.Context) service.ClientInfo {
	return service.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	}
}
