package attendance

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
	records := r.Group("/attendance")
	records.Use(middleware.AuthMiddleware())
	{
		records.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.List)
		records.GET("/export", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.Export)
		records.GET("/:workerId/:year/:month", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetByKey)
		records.PUT("", middleware.RBACAuthorize(rbacService, "attendance", "save"), handler.Save)
		records.POST("/:workerId/:year/:month/approve", middleware.RBACAuthorize(rbacService, "attendance", "decide"), handler.Approve)
		records.POST("/:workerId/:year/:month/reject", middleware.RBACAuthorize(rbacService, "attendance", "decide"), handler.Reject)
		records.POST("/:workerId/:year/:month/reopen", middleware.RBACAuthorize(rbacService, "attendance", "reopen"), handler.Reopen)
	}
}
