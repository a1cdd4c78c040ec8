package handler

import (
	"errors"
	"net/http"

	"grievance-service/internal/model"
	"grievance-service/internal/query"
	"grievance-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ComplaintHandler struct {
	complaintService *service.ComplaintService
	jwtSecret        string
}

func NewComplaintHandler(complaintService *service.ComplaintService, jwtSecret string) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		jwtSecret:        jwtSecret,
	}
}

func (h *ComplaintHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "grievance-service"})
}

// Handles POST /complaints - registers a new complaint.
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	var req model.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.complaintService.CreateComplaint(&req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Complaint submitted successfully. Use the complaint ID to track its status.",
		"complaint": complaint,
	})
}

// Handles GET /complaints - dashboard listing with search, status and
// category filters.
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	crit := query.Criteria{
		Term:     c.Query("search"),
		Status:   c.DefaultQuery("status", query.All),
		Category: c.DefaultQuery("category", query.All),
	}

	response, err := h.complaintService.SearchComplaints(crit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Handles GET /complaints/:id
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	complaint, err := h.complaintService.GetComplaint(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// Handles GET /complaints/:id/timeline - the tracking page's step sequence.
func (h *ComplaintHandler) GetTimeline(c *gin.Context) {
	steps, err := h.complaintService.Timeline(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeline": steps})
}

// Handles PATCH /complaints/:id/status - staff only.
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	if _, err := staffDepartment(c, h.jwtSecret); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.complaintService.Transition(c.Param("id"), req.Status, req.Note)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Status updated",
		"complaint": complaint,
	})
}

// Handles GET /categories - the fixed category set for the submission form.
func (h *ComplaintHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.Categories})
}

// Handles GET /stats/categories - the dashboard's category breakdown.
func (h *ComplaintHandler) GetCategoryStats(c *gin.Context) {
	stats, err := h.complaintService.CategoryStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var transitionErr *model.InvalidTransitionError
	var stateErr *model.InvalidStateError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": stateErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
