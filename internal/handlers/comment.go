package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unistaff/aihub-backend/internal/services"
)

type CommentHandler struct {
	commentService services.CommentService
}

func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (ch *CommentHandler) List(c *gin.Context) {
	resourceID, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	comments, err := ch.commentService.ListComments(c.Request.Context(), resourceID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, comments)
}

func (ch *CommentHandler) Create(c *gin.Context) {
	resourceID, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req services.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_body", err)
		return
	}
	comment, err := ch.commentService.CreateComment(c.Request.Context(), resourceID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, comment)
}

func (ch *CommentHandler) Update(c *gin.Context) {
	commentID, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_body", err)
		return
	}
	comment, err := ch.commentService.UpdateComment(c.Request.Context(), commentID, req.Content)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, comment)
}

func (ch *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := ch.commentService.DeleteComment(c.Request.Context(), commentID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondNoContent(c)
}

func (ch *CommentHandler) MarkHelpful(c *gin.Context) {
	commentID, ok := ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	comment, err := ch.commentService.MarkHelpful(c.Request.Context(), commentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, comment)
}
