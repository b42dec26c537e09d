package app

import (
	"database/sql"

	"go-attendance/internal/area"
	"go-attendance/internal/attendance"
	"go-attendance/internal/audit"
	"go-attendance/internal/auth"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/rbac"
	"go-attendance/internal/user"
	"go-attendance/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	areaRepo := area.NewRepository(gormDB)
	workerRepo := worker.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(userRepo)
	areaService := area.NewService(db, areaRepo, auditRepo)
	workerService := worker.NewService(db, workerRepo, auditRepo, outboxRepo, rdb)
	userService := user.NewService(db, userRepo, areaRepo, auditRepo, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, auditRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	areaHandler := area.NewHandler(areaService)
	workerHandler := worker.NewHandler(workerService)
	userHandler := user.NewHandler(userService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	auditHandler := audit.NewHandler(auditRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		area.RegisterRoutes(api, areaHandler, rbacService)
		worker.RegisterRoutes(api, workerHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		audit.RegisterRoutes(api, auditHandler)
	}

	return nil
}
