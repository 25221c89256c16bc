package handler

import (
	"context"
	"io"
	"net/http"

	"Club_Hub/internal/pkg"
	"Club_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bannerField = "banner"

type bannerSetter func(ctx context.Context, actor service.Identity, id uint64, up service.BannerUpload) (string, error)

type BannerHandler struct {
	svc *service.BannerService
	log *zap.Logger
}

func NewBannerHandler(svc *service.BannerService, log *zap.Logger) *BannerHandler {
	return &BannerHandler{svc: svc, log: log}
}

// Club replaces a club banner with the uploaded image.
func (h *BannerHandler) Club(c *gin.Context) {
	h.upload(c, h.svc.SetClubBanner)
}

// Event replaces an event banner with the uploaded image.
func (h *BannerHandler) Event(c *gin.Context) {
	h.upload(c, h.svc.SetEventBanner)
}

func (h *BannerHandler) upload(c *gin.Context, set bannerSetter) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile(bannerField)
	if err != nil {
		respondError(c, h.log, &service.ValidationError{FieldErrors: map[string]string{bannerField: "banner file is required"}})
		return
	}
	if fh.Size > pkg.MaxBannerBytes {
		respondError(c, h.log, &service.ValidationError{FieldErrors: map[string]string{bannerField: "banner must be at most 5MB"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, pkg.MaxBannerBytes+1))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	url, err := set(c.Request.Context(), actor, id, service.BannerUpload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banner": url})
}
