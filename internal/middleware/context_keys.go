package middleware

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey and businessIDKey store the authenticated identity in the request context.
const (
	userIDKey     = contextKey("userID")
	businessIDKey = contextKey("businessID")
)

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id.UserID)
	return context.WithValue(ctx, businessIDKey, id.BusinessID)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetBusinessIDFromContext retrieves the business the caller acts for.
func GetBusinessIDFromContext(c *gin.Context) (string, bool) {
	businessID, ok := c.Request.Context().Value(businessIDKey).(string)
	return businessID, ok && businessID != ""
}

// GetIdentityFromContext returns the full caller identity when both parts are present.
func GetIdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	userID, okUser := GetUserIDFromContext(c)
	businessID, okBusiness := GetBusinessIDFromContext(c)
	if !okUser || !okBusiness {
		return domain.Identity{}, false
	}
	return domain.Identity{UserID: userID, BusinessID: businessID}, true
}
