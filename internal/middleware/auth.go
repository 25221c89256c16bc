package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"Club_Hub/internal/pkg"
	"Club_Hub/internal/repository/redis"
	"Club_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ContextIdentityKey = "identity"

// TokenParser is satisfied by *pkg.TokenIssuer.
type TokenParser interface {
	ParseAccess(token string) (*pkg.Claims, error)
}

// ActiveTokens is satisfied by *redis.SessionRepository.
type ActiveTokens interface {
	Get(ctx context.Context, userID uint64) (string, error)
	Touch(ctx context.Context, userID uint64) error
}

// AuthMiddleware accepts only the access token currently stored for the
// user and slides its expiry on every request.
func AuthMiddleware(tokens TokenParser, sessions ActiveTokens, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		claims, err := tokens.ParseAccess(tokenStr)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, pkg.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": msg})
			return
		}

		active, err := sessions.Get(c.Request.Context(), claims.UserID)
		switch {
		case errors.Is(err, redis.ErrTokenNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "session expired"})
			return
		case err != nil:
			log.Error("session lookup failed", zap.Uint64("user_id", claims.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
			return
		case active != tokenStr:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			return
		}

		if err := sessions.Touch(c.Request.Context(), claims.UserID); err != nil && !errors.Is(err, redis.ErrTokenNotFound) {
			log.Warn("session touch failed", zap.Uint64("user_id", claims.UserID), zap.Error(err))
		}

		c.Set(ContextIdentityKey, service.Identity{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// IdentityFrom returns the identity set by AuthMiddleware.
func IdentityFrom(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return service.Identity{}, false
	}
	id, ok := v.(service.Identity)
	return id, ok
}
