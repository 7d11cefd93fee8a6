package app

import (
	"database/sql"
	"os"
	"time"

	"go-dms/internal/adjustment"
	"go-dms/internal/attendance"
	"go-dms/internal/auth"
	"go-dms/internal/employee"
	"go-dms/internal/messaging/kafka"
	"go-dms/internal/middleware"
	"go-dms/internal/payroll"
	"go-dms/internal/rbac"
	"go-dms/internal/rbac/infra"
	"go-dms/internal/shared/cache"
	"go-dms/internal/shared/counter"
	"go-dms/internal/shared/filestore"
	"go-dms/internal/vehicle"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	adjustmentRepo := adjustment.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	vehicleRepo := vehicle.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Shared Infrastructure ---
	readCache := cache.New(rdb, 5*time.Minute)

	commissions := adjustment.DefaultCommissionTable()
	if path := os.Getenv("COMMISSION_TABLE_PATH"); path != "" {
		commissions, err = adjustment.LoadCommissionTable(path)
		if err != nil {
			return err
		}
	}

	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = "payslips"
	}
	payslipStore, err := filestore.NewLocalStore(payslipDir)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	adjustmentService := adjustment.NewService(db, adjustmentRepo, commissions)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, readCache)
	vehicleService := vehicle.NewService(db, vehicleRepo, counterRepo, outboxRepo, readCache)
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		counterRepo,
		outboxRepo,
		attendanceService,
		employeeService,
		adjustmentService,
		payslipStore,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	adjustmentHandler := adjustment.NewHandler(adjustmentService)
	employeeHandler := employee.NewHandler(employeeService)
	vehicleHandler := vehicle.NewHandler(vehicleService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		adjustment.RegisterRoutes(api, adjustmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		vehicle.RegisterRoutes(api, vehicleHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
	}

	rbac.RegisterRoutes(router, rbacHandler)

	return nil
}
