package worker

import (
	"go-attendance/internal/middleware"
	"go-attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	workers := r.Group("/workers")
	workers.Use(middleware.AuthMiddleware())
	{
		workers.GET("", middleware.RBACAuthorize(rbacService, "worker", "read"), handler.GetAll)
		workers.GET("/options", middleware.RBACAuthorize(rbacService, "worker", "read"), handler.GetOptions)
		workers.GET("/:id", middleware.RBACAuthorize(rbacService, "worker", "read"), handler.GetById)
		workers.POST("", middleware.RBACAuthorize(rbacService, "worker", "write"), handler.Create)
		workers.PUT("/:id", middleware.RBACAuthorize(rbacService, "worker", "write"), handler.Update)
		workers.DELETE("/:id", middleware.RBACAuthorize(rbacService, "worker", "write"), handler.Delete)
	}
}
