package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	recordKeyPrefix = "employees:record:"
	recordCacheTTL  = 10 * time.Minute
)

func recordCacheKey(id string) string {
	return recordKeyPrefix + id
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)

	// Directory read path consumed by the payroll run; returns full records.
	ListRecords(ctx context.Context, filter Filter) ([]Employee, error)
	GetRecord(ctx context.Context, id string) (*Employee, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	outbox kafka.OutboxRepository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		outbox: outbox,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	rate, err := decimal.NewFromString(req.PayRate)
	if err != nil || rate.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidPayRate
	}

	addr, err := normalizeAddressInput(req.Address)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	emp := &Employee{
		ID:               uuid.New(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Department:       req.Department,
		EmploymentType:   req.EmploymentType,
		PayRate:          rate.String(),
		Salary:           req.Salary,
		Address:          addr,
		TaxInfo:          req.TaxInfo,
		TaxWithholdings:  req.TaxWithholdings,
		PreTaxDeductions: req.PreTaxDeductions,
		BankAccount:      req.BankAccount,
		PaymentAccounts:  req.PaymentAccounts,
		TimeTracking:     req.TimeTracking,
	}

	if err := qtx.Create(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee.created",
			EmployeeID: emp.ID.String(),
			Email:      emp.Email,
			Department: emp.Department,
			OccurredAt: time.Now(),
		}
		payload, marshalErr := json.Marshal(event)
		if marshalErr != nil {
			return EmployeeResponse{}, marshalErr
		}
		err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   emp.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
		if err != nil {
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) GetAll(
	ctx context.Context,
	filter GetEmployeesFilterRequest,
) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAll(ctx, Filter{
		EmploymentType: filter.EmploymentType,
		Department:     filter.Department,
		Country:        filter.Country,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(emps), nil
}

func (s *service) GetByID(
	ctx context.Context,
	id string,
) (EmployeeResponse, error) {
	emp, err := s.GetRecord(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func (s *service) ListRecords(ctx context.Context, filter Filter) ([]Employee, error) {
	emps, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return emps, nil
}

func (s *service) GetRecord(ctx context.Context, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	key := recordCacheKey(id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var emp Employee
			if err := json.Unmarshal([]byte(cached), &emp); err == nil {
				return &emp, nil
			}
			// Cache rusak; buang dan ambil ulang dari DB.
			_ = s.rdb.Del(ctx, key).Err()
		}
	}

	// singleflight mencegah cache stampede saat run payroll menarik record
	// yang sama berkali-kali.
	v, err, _ := s.sf.Do(key, func() (any, error) {
		emp, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(emp); marshalErr == nil {
				_ = s.rdb.Set(ctx, key, payload, recordCacheTTL).Err()
			}
		}
		return emp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Employee), nil
}

func normalizeAddressInput(raw json.RawMessage) (Address, error) {
	if len(raw) == 0 {
		return Address{Country: "USA"}, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return ParseAddress(str), nil
	}

	var addr Address
	if err := json.Unmarshal(raw, &addr); err == nil {
		return addr.Normalize(), nil
	}

	return Address{}, employeeerrors.ErrInvalidAddress
}

func mapToResponse(emp Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             emp.ID.String(),
		FirstName:      emp.FirstName,
		LastName:       emp.LastName,
		Email:          emp.Email,
		Department:     emp.Department,
		EmploymentType: emp.EmploymentType,
		PayRate:        emp.PayRate,
		Salary:         emp.Salary,
		Address:        emp.Address,
		HasBankAccount: emp.BankAccount != nil || len(emp.PaymentAccounts) > 0,
	}
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(emps))
	for i, emp := range emps {
		resp[i] = mapToResponse(emp)
	}
	return resp
}
