package handler

import (
	"net/http"

	"Club_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	svc *service.EventService
	log *zap.Logger
}

func NewEventHandler(svc *service.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

type EventReq struct {
	ClubID      uint64 `json:"club_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Venue       string `json:"venue"`
	Banner      string `json:"banner"`
}

func (r EventReq) input() service.EventInput {
	return service.EventInput{
		ClubID:      r.ClubID,
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Time:        r.Time,
		Venue:       r.Venue,
		Banner:      r.Banner,
	}
}

func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var req EventReq
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.svc.Create(c.Request.Context(), actor, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) ListByClub(c *gin.Context) {
	clubID, ok := parseID(c, "clubId")
	if !ok {
		return
	}
	events, err := h.svc.ListByClub(c.Request.Context(), clubID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req EventReq
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.svc.Update(c.Request.Context(), actor, id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"msg": "event deleted"})
}
