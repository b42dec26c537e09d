package user

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
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetAll)
		users.GET("/unsupervised-areas", middleware.RBACAuthorize(rbacService, "area", "read"), handler.UnsupervisedAreas)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), handler.GetById)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "user", "write"), handler.Update)
		users.PUT("/:id/areas", middleware.RBACAuthorize(rbacService, "user", "write"), handler.SetAreas)
		users.PUT("/:id/active", middleware.RBACAuthorize(rbacService, "user", "write"), handler.SetActive)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "user", "write"), handler.Delete)
	}
}
