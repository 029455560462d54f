package bank

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	accounts := r.Group("/bank-accounts")
	{
		accounts.POST("/validate", handler.Validate)
	}
}
