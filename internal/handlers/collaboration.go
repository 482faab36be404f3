package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/services"
)

type CollaborationHandler struct {
	collaborationService services.CollaborationService
}

func NewCollaborationHandler(collaborationService services.CollaborationService) *CollaborationHandler {
	return &CollaborationHandler{collaborationService: collaborationService}
}

func (ch *CollaborationHandler) Options(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	options, err := ch.collaborationService.GetOptions(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, options)
}

func (ch *CollaborationHandler) Similar(c *gin.Context) {
	var tools []string
	for _, raw := range c.QueryArray("tools") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				tools = append(tools, part)
			}
		}
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	matches, err := ch.collaborationService.FindSimilar(c.Request.Context(), c.Query("discipline"), tools, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, matches)
}

func (ch *CollaborationHandler) Request(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_body", err)
		return
	}
	request, err := ch.collaborationService.RequestCollaboration(c.Request.Context(), id, req.Message)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, request)
}
