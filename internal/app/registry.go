package app

import (
	"database/sql"
	"os"

	"go-rateb/internal/adjustment"
	"go-rateb/internal/allowance"
	"go-rateb/internal/approval"
	"go-rateb/internal/attendance"
	"go-rateb/internal/auth"
	"go-rateb/internal/company"
	"go-rateb/internal/compliance"
	"go-rateb/internal/employee"
	"go-rateb/internal/export"
	"go-rateb/internal/leave"
	"go-rateb/internal/loan"
	"go-rateb/internal/messaging/kafka"
	"go-rateb/internal/payroll"
	"go-rateb/internal/rbac"
	"go-rateb/internal/rbac/infra"
	"go-rateb/internal/settlement"
	"go-rateb/internal/shared/counter"

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
	adjustmentRepo := adjustment.NewRepository(gormDB)
	allowanceRepo := allowance.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	exportRepo := export.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	rbacRepo := rbac.NewRepository(gormDB)
	settlementRepo := settlement.NewRepository(gormDB)

	// --- RBAC Core ---
	modelPath := os.Getenv("RBAC_MODEL_PATH")
	if modelPath == "" {
		modelPath = "config/rbac_model.conf"
	}
	enforcer, err := infra.NewEnforcer(modelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	companyService := company.NewService(companyRepo)
	adjustmentService := adjustment.NewService(db, adjustmentRepo)
	allowanceService := allowance.NewService(db, allowanceRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	complianceService := compliance.NewService(nil)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	exportService := export.NewService(db, exportRepo, outboxRepo)
	leaveService := leave.NewService(db, leaveRepo)
	loanService := loan.NewService(db, loanRepo)
	approvalService := approval.NewService(db, approvalRepo, counterRepo, complianceService, rdb)
	payrollService := payroll.NewService(db, payrollRepo, companyService, loanService, approvalService, outboxRepo, rdb)
	settlementService := settlement.NewService(settlementRepo, companyService)

	// --- Handlers ---
	adjustmentHandler := adjustment.NewHandler(adjustmentService)
	allowanceHandler := allowance.NewHandler(allowanceService)
	approvalHandler := approval.NewHandler(approvalService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService)
	employeeHandler := employee.NewHandler(employeeService)
	exportHandler := export.NewHandler(exportService)
	leaveHandler := leave.NewHandler(leaveService)
	loanHandler := loan.NewHandler(loanService)
	payrollHandler := payroll.NewHandler(payrollService)
	rbacHandler := rbac.NewHandler(rbacService)
	settlementHandler := settlement.NewHandler(settlementService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		adjustment.RegisterRoutes(api, adjustmentHandler, rbacService)
		allowance.RegisterRoutes(api, allowanceHandler, rbacService)
		approval.RegisterRoutes(api, approvalHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		auth.RegisterRoutes(api, authHandler, rbacService)
		company.RegisterRoutes(api, companyHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		export.RegisterRoutes(api, exportHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		loan.RegisterRoutes(api, loanHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
		settlement.RegisterRoutes(api, settlementHandler, rbacService)
	}

	return nil
}
