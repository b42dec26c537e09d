package audit

import (
	"go-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	logs := r.Group("/audit")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", handler.Search)
	}
}
