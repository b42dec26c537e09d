package area

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
	areas := r.Group("/areas")
	areas.Use(middleware.AuthMiddleware())
	{
		areas.GET("", middleware.RBACAuthorize(rbacService, "area", "read"), handler.GetAll)
		areas.GET("/:id", middleware.RBACAuthorize(rbacService, "area", "read"), handler.GetById)
		areas.POST("", middleware.RBACAuthorize(rbacService, "area", "write"), handler.Create)
		areas.PUT("/:id", middleware.RBACAuthorize(rbacService, "area", "write"), handler.Update)
		areas.DELETE("/:id", middleware.RBACAuthorize(rbacService, "area", "write"), handler.Delete)
	}
}
