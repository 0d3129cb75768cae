package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	employeeerrors "go-rateb/internal/employee/errors"
	"go-rateb/internal/events"
	"go-rateb/internal/messaging/kafka"
	"go-rateb/internal/shared/contextutil"
	"go-rateb/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Terminate(ctx context.Context, companyID, id string, req TerminateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func validateGosiFields(isEligible bool, basicWage int64) error {
	if isEligible && basicWage <= 0 {
		return employeeerrors.ErrGosiWageRequired
	}
	return nil
}

func (s *service) Create(
	ctx context.Context,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}
	if err := validateGosiFields(req.IsGosiEligible, req.GosiBasicWage); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.EmployeeNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, companyID, "employee_number")
		if err != nil {
			s.logger.Error("create employee generate number failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeNumber = fmt.Sprintf("EMP-%06d", nextVal)
	}

	empl := &Employee{
		ID:                   uuid.New(),
		CompanyID:            uuid.MustParse(companyID),
		EmployeeNumber:       req.EmployeeNumber,
		FullName:             req.FullName,
		Email:                req.Email,
		Phone:                req.Phone,
		Nationality:          req.Nationality,
		EmploymentStatus:     StatusActive,
		BaseSalary:           req.BaseSalary,
		IsGosiEligible:       req.IsGosiEligible,
		GosiBasicWage:        req.GosiBasicWage,
		GosiHousingAllowance: req.GosiHousingAllowance,
		BankName:             req.BankName,
		BankIban:             req.BankIban,
		HireDate:             hireDate,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee_created",
			RequestID:  rid,
			EmployeeID: empl.ID.String(),
			CompanyID:  companyID,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	empls, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses the stampede when many admins open a picker at
	// once after an invalidation.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(empls)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if err := validateGosiFields(req.IsGosiEligible, req.GosiBasicWage); err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.FullName = req.FullName
	empl.Email = req.Email
	empl.Phone = req.Phone
	empl.Nationality = req.Nationality
	empl.BaseSalary = req.BaseSalary
	empl.IsGosiEligible = req.IsGosiEligible
	empl.GosiBasicWage = req.GosiBasicWage
	empl.GosiHousingAllowance = req.GosiHousingAllowance
	empl.BankName = req.BankName
	empl.BankIban = req.BankIban

	if err := s.repo.Update(ctx, empl); err != nil {
		s.logger.Error("update employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

// Terminate marks the employee inactive without deleting the row; payroll
// history keeps referencing the record, and the termination date feeds the
// end of service calculation.
func (s *service) Terminate(
	ctx context.Context,
	companyID, id string,
	req TerminateEmployeeRequest,
) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	terminationDate, err := time.Parse("2006-01-02", req.TerminationDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidTerminationDate
	}

	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if empl.EmploymentStatus == StatusTerminated {
		return EmployeeResponse{}, employeeerrors.ErrAlreadyTerminated
	}
	if terminationDate.Before(empl.HireDate) {
		return EmployeeResponse{}, employeeerrors.ErrTerminationBeforeHire
	}

	empl.EmploymentStatus = StatusTerminated
	empl.TerminationDate = &terminationDate

	if err := s.repo.Update(ctx, empl); err != nil {
		s.logger.Error("terminate employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("terminate employee success",
		zap.String("employee_id", id),
		zap.String("termination_date", req.TerminationDate),
	)
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                   e.ID.String(),
		EmployeeNumber:       e.EmployeeNumber,
		FullName:             e.FullName,
		Email:                e.Email,
		Phone:                e.Phone,
		Nationality:          e.Nationality,
		EmploymentStatus:     e.EmploymentStatus,
		BaseSalary:           e.BaseSalary,
		IsGosiEligible:       e.IsGosiEligible,
		GosiBasicWage:        e.GosiBasicWage,
		GosiHousingAllowance: e.GosiHousingAllowance,
		BankName:             e.BankName,
		BankIban:             e.BankIban,
		HireDate:             e.HireDate.Format("2006-01-02"),
	}
	if e.TerminationDate != nil {
		td := e.TerminationDate.Format("2006-01-02")
		resp.TerminationDate = &td
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, 0, len(empls))
	for _, e := range empls {
		resp = append(resp, mapToResponse(e))
	}
	return resp
}
