package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/services"
)

type EngagementHandler struct {
	engagementService services.EngagementService
}

func NewEngagementHandler(engagementService services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

func (eh *EngagementHandler) RecordView(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := eh.engagementService.RecordView(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recorded": true})
}

func (eh *EngagementHandler) RecordTried(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := eh.engagementService.RecordTried(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recorded": true})
}

func (eh *EngagementHandler) ToggleSave(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	saved, err := eh.engagementService.ToggleSave(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": saved})
}

func (eh *EngagementHandler) GetAnalytics(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	analytics, err := eh.engagementService.GetAnalytics(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analytics)
}

func (eh *EngagementHandler) IsSaved(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	saved, err := eh.engagementService.IsSaved(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"saved": saved})
}

func (eh *EngagementHandler) SavedResources(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resources, err := eh.engagementService.ListSavedResources(c.Request.Context(), skip, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, resources)
}

func (eh *EngagementHandler) UsersTriedIt(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	users, err := eh.engagementService.ListUsersTriedIt(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, users)
}
