package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/goblog/utils"
)

// HealthController reports liveness and database reachability.
type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health pings the database with a short timeout.
func (h *HealthController) Health(ctx *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50300, "database unavailable")
		return
	}
	utils.Success(ctx, gin.H{"status": "ok"})
}
