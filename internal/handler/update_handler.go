package handler

import (
	"encoding/json"
	"net/http"

	"grievance-service/internal/messaging"
	"grievance-service/internal/model"
	"grievance-service/internal/service"

	"github.com/gin-gonic/gin"
)

type UpdateHandler struct {
	updateService *service.UpdateService
	sseHub        *messaging.SSEHub
	jwtSecret     string
}

func NewUpdateHandler(updateService *service.UpdateService, sseHub *messaging.SSEHub, jwtSecret string) *UpdateHandler {
	return &UpdateHandler{
		updateService: updateService,
		sseHub:        sseHub,
		jwtSecret:     jwtSecret,
	}
}

// Handles POST /complaints/:id/updates - a department posts a message to the
// complaint's update feed.
func (h *UpdateHandler) PostUpdate(c *gin.Context) {
	department, err := staffDepartment(c, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update, err := h.updateService.PostUpdate(c.Param("id"), req.Message, department)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Update posted",
		"update":  update,
	})
}

// Handles GET /complaints/:id/updates
func (h *UpdateHandler) GetUpdates(c *gin.Context) {
	response, err := h.updateService.ListUpdates(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Handles GET /complaints/:id/stream - SSE feed of live updates for one
// complaint, consumed by the tracking page.
func (h *UpdateHandler) StreamUpdates(c *gin.Context) {
	complaintID := c.Param("id")

	// reject streams for complaints that do not exist
	if _, err := h.updateService.ListUpdates(complaintID); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := h.sseHub.RegisterClient(complaintID)
	defer h.sseHub.UnregisterClient(client)

	c.SSEvent("connected", gin.H{"complaint_id": complaintID})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			return
		case update, ok := <-client.Channel:
			if !ok {
				return
			}
			data, _ := json.Marshal(update)
			c.SSEvent("update", string(data))
			c.Writer.Flush()
		}
	}
}
