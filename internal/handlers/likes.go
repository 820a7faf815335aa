package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"galleria/api/internal/middleware"
	"galleria/api/internal/repository"
)

func (h HandlerSet) LikeImage(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	count, err := h.likes.Like(c.Request.Context(), userID, c.Param("imageId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"likeCount": count})
}

func (h HandlerSet) UnlikeImage(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	count, err := h.likes.Unlike(c.Request.Context(), userID, c.Param("imageId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"likeCount": count})
}

func (h HandlerSet) ListLikedImages(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	views, err := h.likes.ListLiked(c.Request.Context(), userID, repository.ParseSortKey(c.Query("sort")))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}
