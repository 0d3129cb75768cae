package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-rateb/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCanceled  = "CANCELLED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	Submit(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	UnpaidDaysInPeriod(ctx context.Context, companyID, employeeID string, from, to time.Time) (UnpaidDaysResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.EmployeeBelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave employee company check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedBy:  actorUUID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)
	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusSubmitted || targetStatus == StatusCanceled
	case StatusSubmitted:
		return targetStatus == StatusApproved || targetStatus == StatusRejected
	default:
		return false
	}
}

func (s *service) Submit(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusSubmitted, nil)
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transitionStatus(ctx, companyID, actorID, id, StatusCanceled, nil)
}

func (s *service) transitionStatus(ctx context.Context, companyID, actorID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !isAllowedStatusTransition(l.Status, targetStatus) {
		s.logger.Warn("transition leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		now := time.Now().UTC()
		l.ApprovedBy = &actorUUID
		l.ApprovedAt = &now
		l.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = rejectionReason
	default:
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = nil
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("transition leave status success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) UnpaidDaysInPeriod(ctx context.Context, companyID, employeeID string, from, to time.Time) (UnpaidDaysResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return UnpaidDaysResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(employeeID); err != nil {
		return UnpaidDaysResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if from.After(to) {
		return UnpaidDaysResponse{}, leaveerrors.ErrInvalidDateRange
	}

	days, err := s.repo.ApprovedUnpaidDaysInRange(ctx, companyID, employeeID, from, to)
	if err != nil {
		return UnpaidDaysResponse{}, err
	}

	return UnpaidDaysResponse{
		EmployeeID: employeeID,
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
		UnpaidDays: days,
	}, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Reason:     l.Reason,
		Status:     l.Status,
		CreatedBy:  l.CreatedBy.String(),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		resp = append(resp, mapToResponse(l))
	}
	return resp
}
