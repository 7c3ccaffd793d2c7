package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rpaetl/internal/domain"
)

// HeaderTenantID names the tenant of a request.
const HeaderTenantID = "X-Tenant-ID"

// ContextKeyTenantID is the gin context key of the validated tenant id.
const ContextKeyTenantID = "tenant_id"

var errMissingTenant = errors.New("tenant not found in context")

// TenantContext reads X-Tenant-ID when present and stores it after validation.
// A malformed id is rejected; an absent one is left for TenantGuard.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(HeaderTenantID)
		if tenantID == "" {
			c.Next()
			return
		}
		bc := domain.BusinessContext{TenantID: tenantID}
		if err := bc.Validate(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_TENANT", "message": err.Error()},
			})
			return
		}
		c.Set(ContextKeyTenantID, tenantID)
		c.Next()
	}
}

// TenantGuard returns middleware that ensures tenant context is present.
// It relies on TenantContext having already set the tenant_id.
func TenantGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextKeyTenantID); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "TENANT_REQUIRED", "message": "X-Tenant-ID header required"},
			})
			return
		}
		c.Next()
	}
}

// GetTenantID returns the tenant stored by TenantContext.
func GetTenantID(c *gin.Context) (string, error) {
	tenantID := c.GetString(ContextKeyTenantID)
	if tenantID == "" {
		return "", errMissingTenant
	}
	return tenantID, nil
}
