package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/repos"
	"github.com/unistaff/aihub-backend/internal/services"
	"github.com/unistaff/aihub-backend/internal/types"
)

type ResourceHandler struct {
	resourceService services.ResourceService
}

func NewResourceHandler(resourceService services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

func (rh *ResourceHandler) Create(c *gin.Context) {
	var req services.CreateResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_body", err)
		return
	}
	resource, err := rh.resourceService.CreateResource(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, resource)
}

// List translates the query string into a ResourceFilter. Tools may be given
// as repeated params or comma separated.
func (rh *ResourceHandler) List(c *gin.Context) {
	filter := repos.ResourceFilter{
		Type:       types.ResourceType(c.Query("type")),
		Discipline: c.Query("discipline"),
		Search:     c.Query("search"),
		SortBy:     repos.SortOrder(c.DefaultQuery("sort_by", string(repos.SortNewest))),
	}
	filter.CollaborationStatus = types.CollaborationStatus(c.Query("collaboration_status"))

	var tools []string
	for _, raw := range c.QueryArray("tools") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				tools = append(tools, part)
			}
		}
	}
	filter.Tools = tools

	if raw := c.Query("min_time_saved"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || val < 0 {
			RespondError(c, http.StatusUnprocessableEntity, "invalid_min_time_saved", err)
			return
		}
		filter.MinTimeSaved = &val
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	resources, err := rh.resourceService.ListResources(c.Request.Context(), filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, resources)
}

func (rh *ResourceHandler) Get(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	resource, err := rh.resourceService.GetResource(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, resource)
}

func (rh *ResourceHandler) Update(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateResourceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_body", err)
		return
	}
	resource, err := rh.resourceService.UpdateResource(c.Request.Context(), id, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, resource)
}

func (rh *ResourceHandler) Delete(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := rh.resourceService.DeleteResource(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (rh *ResourceHandler) Solutions(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	solutions, err := rh.resourceService.ListSolutions(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, solutions)
}

func (rh *ResourceHandler) Fork(c *gin.Context) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	fork, err := rh.resourceService.ForkResource(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, fork)
}

func (rh *ResourceHandler) Hide(c *gin.Context) {
	rh.setHidden(c, true)
}

func (rh *ResourceHandler) Unhide(c *gin.Context) {
	rh.setHidden(c, false)
}

func (rh *ResourceHandler) setHidden(c *gin.Context, hidden bool) {
	id, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := rh.resourceService.SetHidden(c.Request.Context(), id, hidden); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "is_hidden": hidden})
}
