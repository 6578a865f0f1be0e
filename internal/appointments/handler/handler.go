package handler

import (
	"net/http"
	"strconv"

	"bizgenie_backend/internal/appointments/service"
	"bizgenie_backend/internal/appointments/transport"
	"bizgenie_backend/platform/httpkit"
	"bizgenie_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the appointments module.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the appointments routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:apptId", h.Get)
	rg.PATCH("/:apptId/status", h.UpdateStatus)
}

// Create handles POST /api/v1/businesses/:id/appointments
func (h *Handler) Create(c *gin.Context) {
	businessID, ok := parseBusinessID(c)
	if !ok {
		return
	}

	var req transport.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), businessID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// List handles GET /api/v1/businesses/:id/appointments
func (h *Handler) List(c *gin.Context) {
	businessID, ok := parseBusinessID(c)
	if !ok {
		return
	}

	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := h.svc.List(c.Request.Context(), businessID, status, limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"items": result})
}

// Get handles GET /api/v1/businesses/:id/appointments/:apptId
func (h *Handler) Get(c *gin.Context) {
	businessID, ok := parseBusinessID(c)
	if !ok {
		return
	}

	apptID, err := uuid.Parse(c.Param("apptId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}

	result, err := h.svc.Get(c.Request.Context(), apptID, businessID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// UpdateStatus handles PATCH /api/v1/businesses/:id/appointments/:apptId/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	businessID, ok := parseBusinessID(c)
	if !ok {
		return
	}

	apptID, err := uuid.Parse(c.Param("apptId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), apptID, businessID, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func parseBusinessID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid business id", nil)
		return uuid.UUID{}, false
	}
	return id, true
}
