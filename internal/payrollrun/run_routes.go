package payrollrun

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-payroll/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb ...*redis.Client) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll-runs")
	{
		runs.GET("", handler.GetHistory)
		runs.GET("/:id", handler.GetById)
		if redisClient != nil {
			runs.POST("", middleware.Idempotency(redisClient), handler.Run)
		} else {
			runs.POST("", handler.Run)
		}
	}
}
