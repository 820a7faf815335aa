package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"galleria/api/internal/middleware"
)

type addCommentRequest struct {
	Text string `json:"text"`
}

func (h HandlerSet) AddComment(c *gin.Context) {
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.CtxUserID)

	view, err := h.comments.Add(c.Request.Context(), userID, c.Param("imageId"), req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h HandlerSet) ListComments(c *gin.Context) {
	views, err := h.comments.ListForImage(c.Request.Context(), c.Param("imageId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
