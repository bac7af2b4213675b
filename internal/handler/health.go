package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fincalibro/internal/infra"
)

type HealthHandler struct {
	db      *gorm.DB
	rdb     *redis.Client
	breaker *infra.CircuitBreaker
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, breaker *infra.CircuitBreaker) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, breaker: breaker}
}

// Check godoc
// @Summary Estado de la base de datos, redis y el breaker de recogidas
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}
	}

	redisStatus := "disabled"
	if h.rdb != nil {
		redisStatus = "ok"
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "down"
		}
	}

	c.JSON(status, gin.H{
		"status":    dbStatus,
		"db":        dbStatus,
		"redis":     redisStatus,
		"recogidas": h.breaker.State().String(),
		"time":      time.Now().UTC(),
	})
}
