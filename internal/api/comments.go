package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddComment handles POST /api/v1/complaints/:id/comments
func (h *Handler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	comment, err := h.complaints.AddComment(c.Request.Context(), identity(c), c.Param("id"), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /api/v1/complaints/:id/comments
func (h *Handler) ListComments(c *gin.Context) {
	thread, err := h.complaints.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CommentsResponse{Comments: thread, Total: len(thread)})
}

// DeleteComment handles DELETE /api/v1/comments/:id
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.complaints.DeleteComment(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
