package handler

import (
	"net/http"

	"Club_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClubHandler struct {
	svc *service.ClubService
	log *zap.Logger
}

func NewClubHandler(svc *service.ClubService, log *zap.Logger) *ClubHandler {
	return &ClubHandler{svc: svc, log: log}
}

type ClubReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Banner      string `json:"banner"`
}

func (r ClubReq) input() service.ClubInput {
	return service.ClubInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Banner:      r.Banner,
	}
}

func (h *ClubHandler) Create(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var req ClubReq
	if !bindJSON(c, &req) {
		return
	}

	club, err := h.svc.Create(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, club)
}

func (h *ClubHandler) List(c *gin.Context) {
	clubs, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, clubs)
}

func (h *ClubHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	club, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) Update(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ClubReq
	if !bindJSON(c, &req) {
		return
	}

	club, err := h.svc.Update(c.Request.Context(), actor, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"msg": "club deleted"})
}

func (h *ClubHandler) Join(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Join(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "joined club"})
}

func (h *ClubHandler) Leave(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), actor, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "left club"})
}
