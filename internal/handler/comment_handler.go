package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/response"
)

// CommentHandler exposes profile comment endpoints.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler constructs CommentHandler.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// List godoc
// @Summary Comments on a person profile
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /persons/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	personID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	comments, err := h.comments.ListByPerson(c.Request.Context(), personID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comments)
}

// Create godoc
// @Summary Add a comment
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param payload body service.CommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Router /persons/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	personID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), personID, actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// Update godoc
// @Summary Edit own comment
// @Tags Comments
// @Accept json
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Param payload body service.CommentRequest true "Comment payload"
// @Success 200 {object} response.Envelope
// @Router /comments/{commentId} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		response.Error(c, err)
		return
	}
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.comments.Update(c.Request.Context(), commentID, actor, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": commentID})
}

// Delete godoc
// @Summary Delete a comment (author or admin)
// @Tags Comments
// @Security BearerAuth
// @Param commentId path int true "Comment ID"
// @Success 204
// @Router /comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		response.Error(c, err)
		return
	}
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.comments.Delete(c.Request.Context(), commentID, actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
