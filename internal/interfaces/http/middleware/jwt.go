package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldledger/backend/internal/infrastructure/auth"
	"github.com/fieldledger/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	ContextKeyClaims   = "jwt_claims"
	ContextKeyTenantID = "jwt_tenant_id"
	ContextKeyUserID   = "jwt_user_id"
)

// JWTConfig configures the JWT middleware
type JWTConfig struct {
	Service *auth.JWTService
	// SkipPaths are exact request paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
}

// JWT returns a middleware that validates bearer tokens and puts the verified
// tenant and user IDs into the request context. Every handler reads the tenant
// from here; there is no unscoped request path.
func JWT(cfg JWTConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		claims, err := cfg.Service.Validate(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		tenantID, err := claims.GetTenantUUID()
		if err != nil {
			abortUnauthorized(c, "Token carries an invalid tenant")
			return
		}
		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, "Token carries an invalid user")
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyTenantID, tenantID)
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// TenantID returns the authenticated tenant ID from the gin context
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyTenantID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// UserID returns the authenticated user ID from the gin context
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, c.GetString(ContextKeyRequestID)))
}
