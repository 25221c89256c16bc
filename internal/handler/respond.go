package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"Club_Hub/internal/middleware"
	"Club_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// respondError maps the service error taxonomy onto HTTP.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation failed", "errors": verr.FieldErrors})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
	case errors.Is(err, service.ErrAlreadyMember), errors.Is(err, service.ErrNotMember):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	case errors.Is(err, service.ErrBannerUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"msg": err.Error()})
	default:
		log.Error("request failed",
			zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
			zap.String("error_kind", service.ErrorKind(err)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

// bindJSON decodes the body and turns binding failures into field errors.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			fields := make(map[string]string, len(ves))
			for _, fe := range ves {
				fields[jsonName(fe.Field())] = fieldMessage(fe)
			}
			c.JSON(http.StatusBadRequest, gin.H{"msg": "validation failed", "errors": fields})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return false
	}
	return true
}

func fieldMessage(fe validator.FieldError) string {
	name := jsonName(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " is invalid"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "oneof":
		return name + " must be one of " + fe.Param()
	}
	return name + " is invalid"
}

// jsonName converts a Go field name like ClubID into club_id.
func jsonName(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "validation failed", "errors": gin.H{name: "invalid id"}})
		return 0, false
	}
	return id, true
}

func identity(c *gin.Context) (service.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
	}
	return id, ok
}
