package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-payroll/internal/bank"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/shared/notify"
	"go-payroll/internal/tax"
	"go-payroll/internal/tax/taxapi"
	"go-payroll/internal/timesheet"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	timeRules *timesheet.Ruleset,
	taxRules *tax.Ruleset,
	taxClient taxapi.Client,
) error {
	notifier := notify.NewZapNotifier(zap.L().Named("notify"))

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	runRepo := payrollrun.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Calculators ---
	timeCalc := timesheet.NewCalculator(timeRules, notifier)
	taxResolver := tax.NewResolver(taxRules, taxClient, notifier)
	taxCalc := tax.NewCalculator(taxResolver, taxClient, notifier)
	bankValidator := bank.NewValidator(nil, notifier)

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo, rdb, outboxRepo)
	dispatcher := payrollrun.NewOutboxDispatcher(db, outboxRepo)
	runService := payrollrun.NewService(
		db,
		runRepo,
		outboxRepo,
		employeeRepo,
		timeCalc,
		taxCalc,
		bankValidator,
		dispatcher,
		notifier,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	runHandler := payrollrun.NewHandlerWithRedis(runService, rdb)
	bankHandler := bank.NewHandler(bankValidator)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		payrollrun.RegisterRoutes(api, runHandler, rdb)
		bank.RegisterRoutes(api, bankHandler)
	}

	return nil
}
