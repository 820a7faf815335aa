package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"galleria/api/internal/middleware"
	"galleria/api/internal/repository"
	"galleria/api/internal/service"
)

func (h HandlerSet) UploadImage(c *gin.Context) {
	adminID := c.GetString(middleware.CtxAdminID)

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		h.respondError(c, service.ErrFileRequired)
		return
	}
	defer file.Close()

	image, err := h.images.Upload(c.Request.Context(), service.UploadInput{
		AdminID:     adminID,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		File:        file,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "image uploaded",
		"image":   image,
	})
}

func (h HandlerSet) ListImages(c *gin.Context) {
	filter := repository.ImageFilter{
		Search:      c.Query("search"),
		Title:       c.Query("title"),
		Description: c.Query("description"),
		Sort:        repository.ParseSortKey(c.Query("sort")),
	}

	views, err := h.images.List(c.Request.Context(), filter, c.Query("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h HandlerSet) GetImage(c *gin.Context) {
	view, err := h.images.Get(c.Request.Context(), c.Param("id"), c.Query("userId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type updateImageRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h HandlerSet) UpdateImage(c *gin.Context) {
	var req updateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := h.images.Update(c.Request.Context(), c.Param("id"), req.Title, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "image updated",
		"image":   image,
	})
}

func (h HandlerSet) DeleteImage(c *gin.Context) {
	if err := h.images.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}
