package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Storage     string `json:"storage"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := h.db.Client().Ping(ctx, nil); err != nil {
		dbStatus = "error"
		h.log.Error().Err(err).Msg("mongo ping failed")
	}

	cacheStatus := "ok"
	if err := h.cache.Ping(ctx).Err(); err != nil {
		cacheStatus = "error"
		h.log.Error().Err(err).Msg("redis ping failed")
	}

	storageStatus := "ok"
	if err := h.store.Healthy(ctx); err != nil {
		storageStatus = "error"
		h.log.Error().Err(err).Msg("object store check failed")
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Database:    dbStatus,
		Cache:       cacheStatus,
		Storage:     storageStatus,
		Environment: h.cfg.Environment,
	})
}
