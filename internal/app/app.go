package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/tax"
	"go-payroll/internal/tax/taxapi"
	"go-payroll/internal/timesheet"
)

// BuildApp connects infrastructure and registers every module on the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	timeRules, err := loadTimesheetRules()
	if err != nil {
		return err
	}
	taxRules, err := loadTaxRules()
	if err != nil {
		return err
	}

	var taxClient taxapi.Client
	if base := os.Getenv("TAX_API_BASE_URL"); base != "" {
		taxClient = taxapi.NewHTTPClient(base, os.Getenv("TAX_API_KEY"))
	}

	return registerModules(router, sqlDB, gormDB, redisClient, timeRules, taxRules, taxClient)
}

// loadTimesheetRules prefers a ruleset file so deployments can override the
// built-in overtime tables.
func loadTimesheetRules() (*timesheet.Ruleset, error) {
	if path := os.Getenv("OVERTIME_RULES_PATH"); path != "" {
		rules, err := timesheet.LoadRuleset(path)
		if err != nil {
			return nil, err
		}
		zap.L().Info("overtime rules loaded from file", zap.String("path", path))
		return rules, nil
	}
	return timesheet.DefaultRuleset(), nil
}

func loadTaxRules() (*tax.Ruleset, error) {
	if path := os.Getenv("TAX_RULES_PATH"); path != "" {
		rules, err := tax.LoadRuleset(path)
		if err != nil {
			return nil, err
		}
		zap.L().Info("tax rules loaded from file", zap.String("path", path))
		return rules, nil
	}
	return tax.DefaultRuleset(), nil
}
