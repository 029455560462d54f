package payrollrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-payroll/internal/bank"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/notify"
	"go-payroll/internal/tax"
	"go-payroll/internal/timesheet"
)

// Run phases, logged as the orchestrator moves through them.
const (
	phaseInitializing = "Initializing"
	phaseCalculating  = "Calculating"
	phaseBatching     = "Batching"
	phaseFinalizing   = "Finalizing"
)

// EmployeeDirectory is the slice of the employee module the orchestrator
// needs. employee.Repository satisfies it.
type EmployeeDirectory interface {
	FindAll(ctx context.Context, filter employee.Filter) ([]employee.Employee, error)
	FindByID(ctx context.Context, id string) (*employee.Employee, error)
}

//go:generate mockgen -source=run_service.go -destination=mock/run_service_mock.go -package=mock
type Service interface {
	Run(ctx context.Context, req RunPayrollRequest) (RunResult, error)
	GetHistory(ctx context.Context, page, pageSize int) ([]RunRecordResponse, error)
	GetByID(ctx context.Context, id string) (RunRecordResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outbox     kafka.OutboxRepository
	directory  EmployeeDirectory
	timeCalc   *timesheet.Calculator
	taxCalc    *tax.Calculator
	bankCheck  *bank.Validator
	dispatcher PaymentDispatcher
	notifier   notify.Notifier
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	directory EmployeeDirectory,
	timeCalc *timesheet.Calculator,
	taxCalc *tax.Calculator,
	bankCheck *bank.Validator,
	dispatcher PaymentDispatcher,
	notifier notify.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrollrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollrun.service")
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &service{
		db:         db,
		repo:       repo,
		outbox:     outbox,
		directory:  directory,
		timeCalc:   timeCalc,
		taxCalc:    taxCalc,
		bankCheck:  bankCheck,
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     l,
	}
}

func (s *service) Run(ctx context.Context, req RunPayrollRequest) (RunResult, error) {
	started := time.Now()

	period := tax.PayPeriod(req.PayFrequency)
	if !period.Valid() {
		return RunResult{}, payrollrunerrors.ErrInvalidPayFrequency
	}

	s.logger.Info("payroll run phase", zap.String("phase", phaseInitializing),
		zap.String("pay_period", req.PayPeriod))

	if req.UseDynamicTaxRates {
		s.notifier.Notify(ctx, notify.Notice{
			Severity: notify.SeverityInfo,
			Title:    "Using Dynamic Tax Rates",
			Message:  "Connecting to tax agency APIs to fetch current tax rates...",
		})
	}

	employees, err := s.gatherEmployees(ctx, req)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{
		TotalEmployees: len(employees),
		PayDate:        req.PayDate,
		Status:         StatusFailed,
		TaxRateSource:  "Static",
	}

	// Bank validation is checked at most once per employee; the result gates
	// direct-deposit admission below.
	bankApproval := make(map[uuid.UUID]bool, len(employees))
	bankApproved := func(emp *employee.Employee) bool {
		approved, seen := bankApproval[emp.ID]
		if !seen {
			approved = s.bankCheck.ValidateEmployee(ctx, emp)
			bankApproval[emp.ID] = approved
		}
		return approved
	}

	if req.VerifyCompliance || req.BlockOnCompliance {
		s.notifier.Notify(ctx, notify.Notice{
			Severity: notify.SeverityInfo,
			Title:    "Verifying Compliance",
			Message:  "Checking regulatory compliance and bank account information...",
		})
		for i := range employees {
			if !bankApproved(&employees[i]) {
				s.logger.Warn("bank validation failed",
					zap.String("employee_id", employees[i].ID.String()))
			}
		}
	}

	s.logger.Info("payroll run phase", zap.String("phase", phaseCalculating),
		zap.Int("employees", len(employees)))

	hoursPerPeriod := period.HoursPerPeriod()
	batch := make([]PayrollBatchItem, 0, len(employees))
	usedDynamic := false

	for i := range employees {
		emp := &employees[i]

		if req.BlockOnCompliance && !bankApproved(emp) {
			s.logger.Warn("skipping employee, failed compliance check",
				zap.String("employee_id", emp.ID.String()))
			continue
		}

		grossPay, ok := s.grossPayFor(ctx, emp, period, hoursPerPeriod)
		if !ok {
			s.logger.Error("skipping employee, gross pay could not be determined",
				zap.String("employee_id", emp.ID.String()))
			continue
		}

		taxRes := s.taxCalc.Calculate(ctx, emp, grossPay, period, req.UseDynamicTaxRates, nil)
		if taxRes.Degraded {
			s.logger.Error("skipping employee, tax calculation degraded",
				zap.String("employee_id", emp.ID.String()))
			continue
		}
		if taxRes.Source == tax.SourceDynamic {
			usedDynamic = true
		}

		result.TotalGrossPay += taxRes.GrossPay
		result.TotalNetPay += taxRes.NetPay
		result.TotalTaxes += taxRes.TotalTaxes
		result.ProcessedEmployees++

		batch = append(batch, s.batchItem(emp, taxRes.NetPay, bankApproved))
	}
	if usedDynamic {
		result.TaxRateSource = "API"
	}

	s.logger.Info("payroll run phase", zap.String("phase", phaseBatching),
		zap.Int("batch_size", len(batch)))

	runID := uuid.New()
	if len(batch) > 0 {
		paymentResult, err := s.dispatcher.DispatchBatch(ctx, runID.String(), batch)
		if err != nil {
			s.logger.Error("payment batch dispatch failed", zap.Error(err))
		}
		result.SuccessfulPayments = paymentResult.Successful
		result.FailedPayments = paymentResult.Failed
	}

	result.ProcessingTime = time.Since(started).Seconds()
	result.Status = determineStatus(result.ProcessedEmployees, result.TotalEmployees, result.FailedPayments)
	result.RunID = runID.String()

	s.logger.Info("payroll run phase", zap.String("phase", phaseFinalizing),
		zap.String("status", result.Status))

	if err := s.finalize(ctx, runID, req, result); err != nil {
		return RunResult{}, err
	}

	s.notifier.Notify(ctx, notify.Notice{
		Severity: summarySeverity(result.Status),
		Title:    "Payroll Run " + result.Status,
		Message: fmt.Sprintf("Processed %d employees with %d successful payments using %s tax rates.",
			result.ProcessedEmployees, result.SuccessfulPayments, result.TaxRateSource),
	})

	return result, nil
}

func (s *service) gatherEmployees(ctx context.Context, req RunPayrollRequest) ([]employee.Employee, error) {
	if req.IndividualEmployeeID != "" {
		if _, err := uuid.Parse(req.IndividualEmployeeID); err != nil {
			return nil, payrollrunerrors.ErrEmployeeNotFound
		}
		emp, err := s.directory.FindByID(ctx, req.IndividualEmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, payrollrunerrors.ErrEmployeeNotFound
			}
			return nil, err
		}
		s.notifier.Notify(ctx, notify.Notice{
			Severity: notify.SeverityInfo,
			Title:    "Individual Employee Payroll",
			Message:  "Processing payroll for " + emp.FullName(),
		})
		return []employee.Employee{*emp}, nil
	}

	filter := employee.Filter{
		Department: req.DepartmentFilter,
		Country:    req.Country,
	}
	if req.EmployeeType != "" && req.EmployeeType != "All" {
		filter.EmploymentType = req.EmployeeType
	}
	return s.directory.FindAll(ctx, filter)
}

// grossPayFor picks the pay basis: recorded time wins, then salary, then
// standard hours at the hourly rate.
func (s *service) grossPayFor(ctx context.Context, emp *employee.Employee, period tax.PayPeriod, hoursPerPeriod float64) (float64, bool) {
	payRate, rateOK := emp.PayRateValue()

	if emp.TimeTracking != nil && rateOK {
		if err := timesheet.Validate(*emp.TimeTracking, 0); err != nil {
			s.logger.Warn("time tracking rejected",
				zap.String("employee_id", emp.ID.String()), zap.Error(err))
			return 0, false
		}
		timeRes, degraded := s.timeCalc.CalculatePay(ctx, emp, *emp.TimeTracking, payRate)
		if degraded {
			s.logger.Warn("time calculation degraded to regular hours",
				zap.String("employee_id", emp.ID.String()))
		}
		return timeRes.TotalPay, true
	}

	if emp.Salary != nil && *emp.Salary > 0 {
		return *emp.Salary / period.PeriodsPerYear(), true
	}

	if !rateOK {
		return 0, false
	}
	return hoursPerPeriod * payRate, true
}

// batchItem builds the payment entry for one employee. Every account on
// record must pass bank validation before the employee rides a
// direct-deposit batch; anything short of that falls back to a check.
func (s *service) batchItem(emp *employee.Employee, netPay float64, bankApproved func(*employee.Employee) bool) PayrollBatchItem {
	item := PayrollBatchItem{
		EmployeeID:    emp.ID,
		EmployeeName:  emp.FullName(),
		Amount:        netPay,
		PaymentMethod: "check",
	}
	if emp.BankAccount == nil && len(emp.PaymentAccounts) == 0 {
		return item
	}
	if !bankApproved(emp) {
		return item
	}
	if emp.BankAccount != nil {
		item.PaymentMethod = "direct-deposit"
		item.BankInfo = emp.BankAccount
		return item
	}
	for i := range emp.PaymentAccounts {
		if emp.PaymentAccounts[i].Primary {
			item.PaymentMethod = "direct-deposit"
			item.BankInfo = &emp.PaymentAccounts[i].BankAccount
			break
		}
	}
	return item
}

// finalize appends the history row and queues the completion event in one
// transaction, so history and the event stream never disagree.
func (s *service) finalize(ctx context.Context, runID uuid.UUID, req RunPayrollRequest, result RunResult) error {
	event := events.PayrollRunCompletedEvent{
		EventType:          "payroll.run.completed",
		RunID:              runID.String(),
		Status:             result.Status,
		TotalEmployees:     result.TotalEmployees,
		ProcessedEmployees: result.ProcessedEmployees,
		TotalGrossPay:      result.TotalGrossPay,
		TotalNetPay:        result.TotalNetPay,
		TotalTaxes:         result.TotalTaxes,
		SuccessfulPayments: result.SuccessfulPayments,
		FailedPayments:     result.FailedPayments,
		TaxRateSource:      result.TaxRateSource,
		OccurredAt:         time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	record := &PayrollRunRecord{
		ID:                 runID,
		RunDate:            time.Now(),
		PayPeriod:          req.PayPeriod,
		PayDate:            req.PayDate,
		PayFrequency:       req.PayFrequency,
		TotalAmount:        result.TotalGrossPay,
		TotalEmployees:     result.TotalEmployees,
		ProcessedEmployees: result.ProcessedEmployees,
		SuccessfulPayments: result.SuccessfulPayments,
		FailedPayments:     result.FailedPayments,
		Status:             HistoryStatus(result.Status),
		TaxRateSource:      result.TaxRateSource,
		ProcessingTime:     result.ProcessingTime,
	}
	if err := s.repo.WithTx(tx).Insert(ctx, record); err != nil {
		return err
	}

	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll_run",
		AggregateID:   runID.String(),
		EventType:     event.EventType,
		Topic:         events.PayrollRunCompletedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) GetHistory(ctx context.Context, page, pageSize int) ([]RunRecordResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	records, err := s.repo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]RunRecordResponse, len(records))
	for i, r := range records {
		resp[i] = mapRecordToResponse(r)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (RunRecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RunRecordResponse{}, payrollrunerrors.ErrInvalidRunID
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RunRecordResponse{}, payrollrunerrors.ErrRunNotFound
		}
		return RunRecordResponse{}, err
	}
	return mapRecordToResponse(*record), nil
}

// determineStatus classifies the run: no employee processed is a failure,
// anything short of full processing with clean payments is partial.
func determineStatus(processed, total, failedPayments int) string {
	if processed == 0 {
		return StatusFailed
	}
	if failedPayments > 0 || processed < total {
		return StatusPartial
	}
	return StatusComplete
}

func summarySeverity(status string) notify.Severity {
	if status == StatusFailed {
		return notify.SeverityError
	}
	return notify.SeverityInfo
}

func mapRecordToResponse(r PayrollRunRecord) RunRecordResponse {
	return RunRecordResponse{
		ID:                 r.ID.String(),
		RunDate:            r.RunDate.Format(time.RFC3339),
		PayPeriod:          r.PayPeriod,
		PayDate:            r.PayDate,
		PayFrequency:       r.PayFrequency,
		TotalAmount:        r.TotalAmount,
		TotalEmployees:     r.TotalEmployees,
		ProcessedEmployees: r.ProcessedEmployees,
		SuccessfulPayments: r.SuccessfulPayments,
		FailedPayments:     r.FailedPayments,
		Status:             r.Status,
		TaxRateSource:      r.TaxRateSource,
		ProcessingTime:     r.ProcessingTime,
	}
}
