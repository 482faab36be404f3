package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/services"
	"github.com/unistaff/aihub-backend/internal/types"
)

type PromptHandler struct {
	promptService services.PromptService
}

func NewPromptHandler(promptService services.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

func (ph *PromptHandler) Create(c *gin.Context) {
	var req services.CreatePromptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_body", err)
		return
	}
	prompt, err := ph.promptService.CreatePrompt(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, prompt)
}

func (ph *PromptHandler) List(c *gin.Context) {
	filter := repos.PromptFilter{
		SharingLevel: types.SharingLevel(c.Query("sharing_level")),
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	prompts, err := ph.promptService.ListPrompts(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, prompts)
}

func (ph *PromptHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	prompt, err := ph.promptService.GetPrompt(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, prompt)
}

func (ph *PromptHandler) Update(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdatePromptInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_body", err)
		return
	}
	prompt, err := ph.promptService.UpdatePrompt(c.Request.Context(), id, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, prompt)
}

func (ph *PromptHandler) Delete(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := ph.promptService.DeletePrompt(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (ph *PromptHandler) Fork(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	fork, err := ph.promptService.ForkPrompt(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, fork)
}

func (ph *PromptHandler) Use(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := ph.promptService.UsePrompt(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"recorded": true})
}

func (ph *PromptHandler) Usage(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	usage, err := ph.promptService.GetUsage(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, usage)
}
