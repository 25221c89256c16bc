package handler

import (
	"net/http"

	"Club_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnnouncementHandler struct {
	svc *service.AnnouncementService
	log *zap.Logger
}

func NewAnnouncementHandler(svc *service.AnnouncementService, log *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc, log: log}
}

type AnnouncementReq struct {
	ClubID  uint64 `json:"club_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var req AnnouncementReq
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Create(c.Request.Context(), actor, service.AnnouncementInput{
		ClubID:  req.ClubID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AnnouncementHandler) ListByClub(c *gin.Context) {
	clubID, ok := parseID(c, "clubId")
	if !ok {
		return
	}
	list, err := h.svc.ListByClub(c.Request.Context(), clubID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "announcement deleted"})
}
